package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to a language model
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseSchema constrains the model output to a JSON object
type ResponseSchema struct {
	Name        string
	Description string
	Schema      map[string]interface{} // JSON Schema of the object
}

// LanguageModel produces a single completion for a conversation.
// When schema is set the returned content is a JSON object text.
type LanguageModel interface {
	Invoke(ctx context.Context, messages []Message, schema *ResponseSchema) (string, error)
}

// Transcriber turns a fetchable audio reference into plain transcript text
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef, languageHint string, promptHints []string) (string, error)
}

// NewLanguageModel builds the model selected by cfg.LLM.Provider
func NewLanguageModel(cfg *config.Config) (LanguageModel, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "groq":
		return NewGroqClient(&cfg.Groq, cfg.LLM.Timeout), nil
	case "anthropic":
		return NewAnthropicClient(&cfg.Anthropic, cfg.LLM.Timeout)
	}
	return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLM.Provider)
}
