package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/core"
	"github.com/koda/inbox-triage/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run triages a single message and routes it, printing the outcome
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.TriageService,
	router *core.ActionRouter,
	classifier core.Classifier,
) error {
	defer logger.Sync()

	// Read message from file or stdin
	var messageReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		messageReader = file
		logger.Info("Reading message from file", zap.String("file", flags.InputFile))
	} else {
		messageReader = os.Stdin
		logger.Info("Reading message from stdin")
	}

	// Parse message
	msg, err := mail.ReadMessage(bufio.NewReader(messageReader))
	if err != nil {
		logger.Fatal("Failed to parse message", zap.Error(err))
	}

	from := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read message body", zap.Error(err))
	}
	body := string(bodyBytes)

	message := &core.Message{
		ID:         strings.Trim(msg.Header.Get("Message-ID"), "<>"),
		From:       from,
		Subject:    subject,
		Body:       body,
		ReceivedAt: time.Now(),
	}

	// Print message summary
	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(body))
	fmt.Printf("\n")

	fmt.Printf("=== Triage ===\n")
	fmt.Printf("Provider: %s\n", flags.Provider)

	startTime := time.Now()
	result := service.Triage(context.Background(), message)
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Intent: %s\n", result.Intent)
	fmt.Printf("Service type: %s\n", result.ServiceType)
	fmt.Printf("Urgency: %s\n", result.Urgency)
	fmt.Printf("Confidence: %s\n", result.Confidence)
	fmt.Printf("Summary: %s\n", result.Summary)
	fmt.Printf("Reasoning: %s\n", result.Reasoning)
	if len(result.PreferredTimes) > 0 {
		fmt.Printf("Preferred times: %s\n", strings.Join(result.PreferredTimes, ", "))
	}
	fmt.Printf("Model used: %s\n", result.ModelUsed)
	fmt.Printf("Processing time: %v\n", duration)

	// Route the message
	decision, err := router.Route(context.Background(), message, result)
	if err != nil {
		logger.Fatal("Failed to route message", zap.Error(err))
	}

	fmt.Printf("\n=== Routing ===\n")
	fmt.Printf("Action: %s\n", decision.Action)
	fmt.Printf("Needs human: %t\n", decision.NeedsHuman)
	fmt.Printf("Reply sent: %t\n", decision.ReplySent)
	if decision.Reply != "" {
		fmt.Printf("\n--- Reply ---\n%s\n", decision.Reply)
	}
	if !flags.Send && decision.Reply != "" {
		fmt.Printf("\n(dry run: pass -send to deliver replies)\n")
	}

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	return nil
}
