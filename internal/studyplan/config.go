package studyplan

// Config controls prompt content and generation limits.
type Config struct {
	// Language all generated content is written in.
	Language string

	// Subject frames the expert persona, e.g. "medicine and surgery".
	Subject string

	// MaxTokens is the token budget for a plan response.
	MaxTokens int

	// ChatMaxTokens is the token budget for a tutor reply.
	ChatMaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		Language:      "English",
		Subject:       "medicine and surgery",
		MaxTokens:     16384,
		ChatMaxTokens: 2048,
		Temperature:   0.4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.Subject == "" {
		c.Subject = d.Subject
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.ChatMaxTokens <= 0 {
		c.ChatMaxTokens = d.ChatMaxTokens
	}
	return c
}
