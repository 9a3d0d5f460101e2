package postgres

import (
	"context"
	"errors"
	"fmt"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionRepo implements ports.PaymentSessionRepository.
type SessionRepo struct {
	pool Pool
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(pool Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create inserts a new payment session.
func (r *SessionRepo) Create(ctx context.Context, s *domain.PaymentSession) error {
	query := `INSERT INTO payment_sessions (id, client_id, token, amount, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.ClientID, s.Token, s.Amount, s.Status,
		s.ExpiresAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment session: %w", err)
	}
	return nil
}

// GetByID fetches a payment session by its UUID.
func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentSession, error) {
	query := `SELECT id, client_id, token, amount, status, expires_at, created_at, updated_at
		FROM payment_sessions WHERE id = $1`

	s := &domain.PaymentSession{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ClientID, &s.Token, &s.Amount, &s.Status,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment session by id: %w", err)
	}
	return s, nil
}

// UpdateStatus applies a terminal transition outside a wallet-mutating
// transaction (lazy expiry, delivery-failure cancel).
func (r *SessionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error {
	query := `UPDATE payment_sessions SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment session not found: %s", id)
	}
	return nil
}

// UpdateStatusIfPending transitions the session only if it is still
// PENDING and reports whether this caller won the transition. The guard
// in the WHERE clause is what serializes concurrent confirmations.
func (r *SessionRepo) UpdateStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.SessionStatus) (bool, error) {
	query := `UPDATE payment_sessions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("conditional session update: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
