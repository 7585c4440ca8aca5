package forms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ContactData is what gets typed into a contact form
type ContactData struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// FormField is one input discovered on a contact page
type FormField struct {
	Tag         string
	Type        string
	Name        string
	Placeholder string
}

// FormInfo is a parsed contact form: where it posts and what it asks for
type FormInfo struct {
	Action string
	Method string
	Fields []FormField
}

// Submitter fills and posts simple HTML contact forms. It handles plain
// url-encoded forms only; script-rendered forms need a browser and are out
// of reach here.
type Submitter struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSubmitter creates a new form submitter
func NewSubmitter(logger *zap.Logger, timeout time.Duration) *Submitter {
	return &Submitter{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var (
	formRe     = regexp.MustCompile(`(?is)<form([^>]*)>(.*?)</form>`)
	inputRe    = regexp.MustCompile(`(?is)<(input|textarea|select)\b[^>]*>`)
	attrRe     = regexp.MustCompile(`(?i)(\w+)\s*=\s*["']([^"']*)["']`)
	successIndicators = []string{"thank you", "received", "we'll be in touch", "message sent", "submitted"}
)

// AnalyzeForm fetches a contact page and returns the forms found on it
func (s *Submitter) AnalyzeForm(ctx context.Context, pageURL string) ([]FormInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("contact page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read contact page: %w", err)
	}

	var forms []FormInfo
	for _, match := range formRe.FindAllStringSubmatch(string(body), -1) {
		formAttrs := parseAttrs(match[1])
		info := FormInfo{
			Action: formAttrs["action"],
			Method: strings.ToUpper(formAttrs["method"]),
		}
		if info.Method == "" {
			info.Method = http.MethodGet
		}

		for _, tag := range inputRe.FindAllStringSubmatch(match[2], -1) {
			attrs := parseAttrs(tag[0])
			field := FormField{
				Tag:         strings.ToLower(tag[1]),
				Type:        strings.ToLower(attrs["type"]),
				Name:        attrs["name"],
				Placeholder: attrs["placeholder"],
			}
			if field.Name == "" {
				continue
			}
			info.Fields = append(info.Fields, field)
		}

		forms = append(forms, info)
	}

	s.logger.Info("Analyzed contact page",
		zap.String("url", pageURL),
		zap.Int("forms_found", len(forms)))

	return forms, nil
}

// Submit fills the first suitable form on the page and posts it. It returns
// true when the response contains a recognizable success phrase; a post that
// succeeds without one is still treated as submitted.
func (s *Submitter) Submit(ctx context.Context, pageURL string, data ContactData) (bool, error) {
	forms, err := s.AnalyzeForm(ctx, pageURL)
	if err != nil {
		return false, err
	}

	form := pickContactForm(forms)
	if form == nil {
		return false, fmt.Errorf("no contact form found on %s", pageURL)
	}

	values := url.Values{}
	for _, field := range form.Fields {
		if field.Type == "submit" || field.Type == "button" || field.Type == "hidden" {
			continue
		}
		if v := valueForField(field, data); v != "" {
			values.Set(field.Name, v)
		}
	}

	if len(values) == 0 {
		return false, fmt.Errorf("no fillable fields recognized on %s", pageURL)
	}

	action, err := resolveAction(pageURL, form.Action)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action,
		strings.NewReader(values.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to submit form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return false, fmt.Errorf("form submission returned status %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	pageText := strings.ToLower(string(body))

	for _, indicator := range successIndicators {
		if strings.Contains(pageText, indicator) {
			s.logger.Info("Form submitted successfully",
				zap.String("url", pageURL),
				zap.String("action", action))
			return true, nil
		}
	}

	s.logger.Warn("Form submitted, but no clear success message",
		zap.String("url", pageURL),
		zap.String("action", action))
	return true, nil
}

// pickContactForm selects the form that looks most like a contact form: it
// must have a message-ish textarea or at least an email field
func pickContactForm(forms []FormInfo) *FormInfo {
	for i := range forms {
		for _, field := range forms[i].Fields {
			if field.Tag == "textarea" || field.Type == "email" || nameContains(field, "email") {
				return &forms[i]
			}
		}
	}
	return nil
}

// valueForField maps a discovered field to contact data by its name,
// placeholder, or type
func valueForField(field FormField, data ContactData) string {
	switch {
	case field.Tag == "textarea" || nameContains(field, "message", "comment", "inquiry"):
		return data.Message
	case field.Type == "email" || nameContains(field, "email"):
		return data.Email
	case nameContains(field, "phone", "tel"):
		return data.Phone
	case nameContains(field, "name"):
		return data.Name
	}
	return ""
}

func nameContains(field FormField, needles ...string) bool {
	haystack := strings.ToLower(field.Name + " " + field.Placeholder)
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// resolveAction resolves the form action against the page URL
func resolveAction(pageURL, action string) (string, error) {
	if action == "" {
		return pageURL, nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("invalid form action: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// parseAttrs extracts key="value" attributes from a tag fragment
func parseAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}
