package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Message roles mirror the chat-completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the assembled prompt context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries the assembled context plus fixed generation
// parameters. Low temperature keeps replies consistent turn to turn.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int64     `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Adapter is the remote model collaborator. A failed call always returns
// a *Error so the engine can map the reason to user-facing text.
type Adapter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// VisionRequest asks for a description of raw image bytes.
type VisionRequest struct {
	ContentType string
	Data        []byte
	Goal        string
	Persona     string
}

// VisionAdapter is implemented by adapters that can describe images.
type VisionAdapter interface {
	DescribeImage(ctx context.Context, req VisionRequest) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode         string
	OpenAIAPIKey string
	OpenAIModel  string
	HTTPURL      string
	HTTPTimeout  time.Duration
}

// NewAdapter builds the adapter for the configured mode and reports which
// mode was resolved. "auto" prefers OpenAI when a key is present, then a
// generic HTTP endpoint, then the mock.
//
// An explicit "openai" mode without a key still constructs; the missing
// credential surfaces at call time as a tagged failure, which the engine
// turns into a user-visible reply instead of refusing to start.
func NewAdapter(cfg Config) (Adapter, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
			return NewOpenAIAdapter(cfg.OpenAIAPIKey, cfg.OpenAIModel), "openai", nil
		}
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg.HTTPURL, cfg.HTTPTimeout), "http", nil
		}
		return NewMockAdapter(), "mock", nil
	case "openai":
		return NewOpenAIAdapter(cfg.OpenAIAPIKey, cfg.OpenAIModel), "openai", nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, "", errors.New("brain HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg.HTTPURL, cfg.HTTPTimeout), "http", nil
	case "mock":
		return NewMockAdapter(), "mock", nil
	default:
		return nil, "", fmt.Errorf("unsupported brain provider %q", cfg.Mode)
	}
}
