package config

// LLMConfig represents the classifier backend selection
type LLMConfig struct {
	Provider    string
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BusinessHoursConfig is the weekly schedule, with working days as
// time.Weekday ordinals (Sunday = 0)
type BusinessHoursConfig struct {
	StartHour   int
	EndHour     int
	WorkingDays []int
}

// SchedulerConfig holds slot generation settings
type SchedulerConfig struct {
	SlotDurationMinutes int
	SlotOfferCount      int
}

// RouterConfig holds routing settings
type RouterConfig struct {
	SendEnabled   bool
	BusinessPhone string
}

// MailboxConfig holds inbox access settings
type MailboxConfig struct {
	Source    string
	BaseURL   string
	APIKey    string
	InboxID   string
	BatchSize int
}

// GetLLM returns the classifier backend configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider:    c.GetString("llm.provider"),
		MaxBodySize: c.GetInt("llm.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("llm.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("llm.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("llm.max_body_size"),
	}
}

// GetBusinessHours returns the business hours configuration
func (c *Config) GetBusinessHours() BusinessHoursConfig {
	return BusinessHoursConfig{
		StartHour:   c.GetInt("business_hours.start_hour"),
		EndHour:     c.GetInt("business_hours.end_hour"),
		WorkingDays: c.GetIntSlice("business_hours.working_days"),
	}
}

// GetScheduler returns the scheduler configuration
func (c *Config) GetScheduler() SchedulerConfig {
	return SchedulerConfig{
		SlotDurationMinutes: c.GetInt("scheduler.slot_duration_minutes"),
		SlotOfferCount:      c.GetInt("scheduler.slot_offer_count"),
	}
}

// GetRouter returns the router configuration
func (c *Config) GetRouter() RouterConfig {
	return RouterConfig{
		SendEnabled:   c.GetBool("router.send_enabled"),
		BusinessPhone: c.GetString("router.business_phone"),
	}
}

// GetMailbox returns the mailbox configuration
func (c *Config) GetMailbox() MailboxConfig {
	return MailboxConfig{
		Source:    c.GetString("mailbox.source"),
		BaseURL:   c.GetString("mailbox.base_url"),
		APIKey:    c.GetString("mailbox.api_key"),
		InboxID:   c.GetString("mailbox.inbox_id"),
		BatchSize: c.GetInt("mailbox.batch_size"),
	}
}
