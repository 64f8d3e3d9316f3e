package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter produces deterministic local replies when no real brain is
// configured, so the webhook and dev console work end to end offline.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", classifyTransport(ctx.Err())
	default:
	}

	last := lastUserMessage(req.Messages)
	if last == "" {
		return "Te escucho 🐾", nil
	}
	return fmt.Sprintf("(modo local) Me dijiste: %s", last), nil
}

func (a *MockAdapter) DescribeImage(ctx context.Context, req VisionRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", classifyTransport(ctx.Err())
	default:
	}
	return fmt.Sprintf("(modo local) Recibí una imagen %s de %d bytes.", req.ContentType, len(req.Data)), nil
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
