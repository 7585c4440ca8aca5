// Package llm holds the triage prompt and response parsing shared by the
// model-backed classifier adapters.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/koda/inbox-triage/internal/core"
)

// SystemPrompt frames every triage request
const SystemPrompt = `You are an AI assistant that triages customer service messages for home service businesses (HVAC, plumbing, electrical, cleaning, landscaping).

Your job is to analyze incoming customer messages and extract structured information to help route them appropriately.

Always respond with valid JSON only, no other text.`

const promptFormat = `Analyze this customer message and extract structured information:

FROM: %s
SUBJECT: %s
MESSAGE:
%s

Extract and return ONLY valid JSON with these fields:
{
  "intent": "booking|question|complaint|urgent|spam|other",
  "service_type": "hvac_repair|hvac_maintenance|plumbing_repair|plumbing_maintenance|electrical_repair|electrical_maintenance|cleaning|landscaping|other",
  "urgency": "emergency|today|this_week|flexible|unknown",
  "preferred_times": ["list of any mentioned time preferences as strings"],
  "customer_name": "name if mentioned, else null",
  "customer_phone": "phone if mentioned, else null",
  "customer_address": "address if mentioned, else null",
  "confidence": "high|medium|low - your confidence in this classification",
  "summary": "1-2 sentence summary of the request",
  "reasoning": "brief explanation of why you chose this classification"
}

Guidelines:
- intent "urgent": Use for emergencies, ASAP requests, or situations causing immediate problems
- intent "booking": Customer wants to schedule service
- intent "question": Asking about pricing, availability, or general info
- intent "complaint": Expressing dissatisfaction or problems with service
- urgency "emergency": Immediate danger or critical failure (no heat in winter, flooding, etc)
- urgency "today": Wants service today but not critical
- If unsure, mark confidence as "low" and escalate via intent "other"
- For spam/marketing emails, mark as "spam"

Respond ONLY with the JSON object, no markdown formatting.`

// BuildPrompt formats the triage prompt for one message. The body must
// already be truncated to the classifier bound.
func BuildPrompt(sender, subject, body string) string {
	if sender == "" {
		sender = "Unknown"
	}
	if subject == "" {
		subject = "(no subject)"
	}
	return fmt.Sprintf(promptFormat, sender, subject, body)
}

// ParseResponse parses a model response into a TriageResult. Markdown code
// fences are tolerated, and a JSON object embedded in surrounding prose is
// extracted by brace matching. Anything less recoverable is an error the
// caller turns into the fallback result.
func ParseResponse(text string) (*core.TriageResult, error) {
	cleaned := StripCodeFences(text)

	var result core.TriageResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &result); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	result.Normalize()
	return &result, nil
}

// StripCodeFences removes a surrounding markdown code fence if present
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
