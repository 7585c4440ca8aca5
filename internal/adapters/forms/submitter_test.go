package forms

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"
)

const contactPage = `<html><body>
<form action="/submit" method="post">
  <input type="text" name="your-name" placeholder="Your name">
  <input type="email" name="your-email" placeholder="Email address">
  <input type="tel" name="phone-number">
  <textarea name="your-message"></textarea>
  <input type="hidden" name="form_id" value="42">
  <button type="submit">Send</button>
</form>
</body></html>`

func TestAnalyzeForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, contactPage)
	}))
	defer server.Close()

	submitter := NewSubmitter(zap.NewNop(), 5*time.Second)

	forms, err := submitter.AnalyzeForm(context.Background(), server.URL+"/contact")
	if err != nil {
		t.Fatalf("AnalyzeForm returned error: %v", err)
	}
	if len(forms) != 1 {
		t.Fatalf("found %d forms, want 1", len(forms))
	}

	form := forms[0]
	if form.Action != "/submit" {
		t.Errorf("action = %q, want /submit", form.Action)
	}
	if form.Method != "POST" {
		t.Errorf("method = %q, want POST", form.Method)
	}
	if len(form.Fields) != 5 {
		t.Fatalf("found %d fields, want 5", len(form.Fields))
	}
	if form.Fields[3].Tag != "textarea" || form.Fields[3].Name != "your-message" {
		t.Errorf("textarea not detected: %+v", form.Fields[3])
	}
}

func TestSubmitFillsRecognizedFields(t *testing.T) {
	var submitted url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("/contact", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, contactPage)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		submitted = r.PostForm
		fmt.Fprint(w, "<html><body>Thank you! We'll be in touch.</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	submitter := NewSubmitter(zap.NewNop(), 5*time.Second)

	ok, err := submitter.Submit(context.Background(), server.URL+"/contact", ContactData{
		Name:    "Koda",
		Email:   "koda@example.com",
		Phone:   "555-0100",
		Message: "Hi, I'd like a demo.",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !ok {
		t.Error("Submit = false, want true")
	}

	want := map[string]string{
		"your-name":    "Koda",
		"your-email":   "koda@example.com",
		"phone-number": "555-0100",
		"your-message": "Hi, I'd like a demo.",
	}
	for field, value := range want {
		if got := submitted.Get(field); got != value {
			t.Errorf("field %q = %q, want %q", field, got, value)
		}
	}
	if submitted.Get("form_id") != "" {
		t.Error("hidden field should not be filled")
	}
}

func TestSubmitNoFormFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>No forms here</body></html>")
	}))
	defer server.Close()

	submitter := NewSubmitter(zap.NewNop(), 5*time.Second)

	if _, err := submitter.Submit(context.Background(), server.URL, ContactData{Email: "a@b.c", Message: "m"}); err == nil {
		t.Fatal("expected error when the page has no form")
	}
}

func TestResolveAction(t *testing.T) {
	tests := []struct {
		page   string
		action string
		want   string
	}{
		{"https://example.com/contact", "/submit", "https://example.com/submit"},
		{"https://example.com/contact", "", "https://example.com/contact"},
		{"https://example.com/contact", "https://other.example.com/post", "https://other.example.com/post"},
		{"https://example.com/a/b", "c", "https://example.com/a/c"},
	}

	for _, tt := range tests {
		got, err := resolveAction(tt.page, tt.action)
		if err != nil {
			t.Errorf("resolveAction(%q, %q) error: %v", tt.page, tt.action, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveAction(%q, %q) = %q, want %q", tt.page, tt.action, got, tt.want)
		}
	}
}
