package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// SessionRepo implements port.SessionStore over PostgreSQL. Consume relies on
// DELETE ... RETURNING so two racing answers for one session id see exactly
// one success.
type SessionRepo struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewSessionRepo creates a new session store with the given time-to-live.
func NewSessionRepo(db *sqlx.DB, ttl time.Duration) *SessionRepo {
	return &SessionRepo{db: db, ttl: ttl}
}

var _ port.SessionStore = (*SessionRepo)(nil)

type sessionRow struct {
	ID            string          `db:"id"`
	OriginalQuery string          `db:"original_query"`
	Origin        string          `db:"origin"`
	Destination   string          `db:"destination"`
	Candidates    json.RawMessage `db:"candidates"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (row *sessionRow) toDomain() (*domain.ClarificationSession, error) {
	var candidates []domain.Candidate
	if len(row.Candidates) > 0 {
		if err := json.Unmarshal(row.Candidates, &candidates); err != nil {
			return nil, fmt.Errorf("decode session candidates: %w", err)
		}
	}
	return &domain.ClarificationSession{
		ID:                row.ID,
		OriginalQuery:     row.OriginalQuery,
		Origin:            row.Origin,
		Destination:       row.Destination,
		PendingCandidates: candidates,
		CreatedAt:         row.CreatedAt,
	}, nil
}

func (r *SessionRepo) Put(ctx context.Context, session *domain.ClarificationSession) error {
	candidates, err := json.Marshal(session.PendingCandidates)
	if err != nil {
		return fmt.Errorf("encode session candidates: %w", err)
	}
	query := `
		INSERT INTO clarification_sessions (id, original_query, origin, destination, candidates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		session.ID, session.OriginalQuery, session.Origin, session.Destination,
		candidates, session.CreatedAt)
	if err != nil {
		return storeErr("insert session", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	var row sessionRow
	query := `
		SELECT id, original_query, origin, destination, candidates, created_at
		FROM clarification_sessions
		WHERE id = $1 AND created_at > $2`
	err := r.db.GetContext(ctx, &row, query, id, time.Now().Add(-r.ttl))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, storeErr("get session", err)
	}
	return row.toDomain()
}

// Consume atomically removes and returns the session. Expired rows are
// deleted but reported as not found.
func (r *SessionRepo) Consume(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	var row sessionRow
	query := `
		DELETE FROM clarification_sessions
		WHERE id = $1
		RETURNING id, original_query, origin, destination, candidates, created_at`
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, storeErr("consume session", err)
	}
	if time.Since(row.CreatedAt) > r.ttl {
		return nil, domain.ErrSessionExpired
	}
	return row.toDomain()
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clarification_sessions WHERE id = $1`, id); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

// SweepExpired removes sessions older than the TTL. Called periodically by
// the server's background sweeper.
func (r *SessionRepo) SweepExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM clarification_sessions WHERE created_at <= $1`,
		time.Now().Add(-r.ttl))
	if err != nil {
		return 0, storeErr("sweep sessions", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
