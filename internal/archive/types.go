package archive

import (
	"context"
	"time"
)

// TurnRecord is one archived transcript line. Source tells operators which
// path produced an assistant turn (heuristic rule, model, or fallback).
type TurnRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a write-mostly transcript log for operators. It is never read
// back into conversational state; the in-process store stays ephemeral.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	Recent(ctx context.Context, userID string, limit int) ([]TurnRecord, error)
	Close() error
}
