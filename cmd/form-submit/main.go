package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/koda/inbox-triage/internal/adapters/forms"
	"github.com/koda/inbox-triage/internal/logging"
)

var (
	pageURL = flag.String("url", "", "Contact page URL (required)")
	analyze = flag.Bool("analyze", false, "Only list the form fields, do not submit")

	name    = flag.String("name", "", "Name to submit")
	email   = flag.String("email", "", "Reply-to email address to submit")
	phone   = flag.String("phone", "", "Phone number to submit")
	message = flag.String("message", "", "Message body to submit")

	timeout = flag.Duration("timeout", 30*time.Second, "HTTP timeout")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *pageURL == "" {
		fmt.Println("Usage: form-submit -url <contact page> [-analyze] [-name ... -email ... -message ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	submitter := forms.NewSubmitter(logger, *timeout)
	ctx := context.Background()

	if *analyze {
		formInfos, err := submitter.AnalyzeForm(ctx, *pageURL)
		if err != nil {
			logger.Fatal("Failed to analyze contact page", zap.Error(err))
		}

		fmt.Printf("Found %d form(s)\n", len(formInfos))
		for i, info := range formInfos {
			fmt.Printf("\n=== Form %d ===\n", i+1)
			fmt.Printf("Action: %s\n", info.Action)
			fmt.Printf("Method: %s\n", info.Method)
			for _, field := range info.Fields {
				fmt.Printf("  %s type='%s' name='%s' placeholder='%s'\n",
					field.Tag, field.Type, field.Name, field.Placeholder)
			}
		}
		return
	}

	if *email == "" || *message == "" {
		fmt.Println("Both -email and -message are required to submit")
		os.Exit(1)
	}

	ok, err := submitter.Submit(ctx, *pageURL, forms.ContactData{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Message: *message,
	})
	if err != nil {
		logger.Fatal("Failed to submit form", zap.Error(err))
	}

	if ok {
		fmt.Println("Form submitted")
	}
}
