package port

import (
	"context"

	"github.com/wahajaslm/tarco/internal/domain"
)

// SessionStore is the durable, short-lived keeper of pending clarification
// state. Get on an absent, expired, or already-consumed id returns
// domain.ErrSessionNotFound.
//
// Consume is the exactly-once read: it atomically removes and returns the
// session so that two racing answers for one id produce one success and one
// not-found, never two successes.
type SessionStore interface {
	Put(ctx context.Context, session *domain.ClarificationSession) error
	Get(ctx context.Context, id string) (*domain.ClarificationSession, error)
	Consume(ctx context.Context, id string) (*domain.ClarificationSession, error)
	Delete(ctx context.Context, id string) error
}
