package postgres

import (
	"context"
	"errors"
	"fmt"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LoginOtpRepo implements ports.LoginOtpRepository.
type LoginOtpRepo struct {
	pool Pool
}

// NewLoginOtpRepo creates a new LoginOtpRepo.
func NewLoginOtpRepo(pool Pool) *LoginOtpRepo {
	return &LoginOtpRepo{pool: pool}
}

// Create inserts a new login code.
func (r *LoginOtpRepo) Create(ctx context.Context, otp *domain.LoginOtp) error {
	query := `INSERT INTO login_otps (id, email, otp, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		otp.ID, otp.Email, otp.Otp, otp.ExpiresAt, otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert login otp: %w", err)
	}
	return nil
}

// GetLatestByEmailAndOtp returns the most recently created matching row.
// Multiple outstanding codes per email are allowed; the newest wins.
func (r *LoginOtpRepo) GetLatestByEmailAndOtp(ctx context.Context, email, otp string) (*domain.LoginOtp, error) {
	query := `SELECT id, email, otp, expires_at, created_at
		FROM login_otps WHERE email = $1 AND otp = $2
		ORDER BY created_at DESC LIMIT 1`

	o := &domain.LoginOtp{}
	err := r.pool.QueryRow(ctx, query, email, otp).Scan(
		&o.ID, &o.Email, &o.Otp, &o.ExpiresAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get login otp: %w", err)
	}
	return o, nil
}

// Delete removes a single code row by ID.
func (r *LoginOtpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM login_otps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete login otp: %w", err)
	}
	return nil
}

// DeleteByEmailAndOtp removes matching code rows. Compensating cleanup
// after a failed delivery.
func (r *LoginOtpRepo) DeleteByEmailAndOtp(ctx context.Context, email, otp string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM login_otps WHERE email = $1 AND otp = $2`, email, otp)
	if err != nil {
		return fmt.Errorf("delete login otp by email: %w", err)
	}
	return nil
}
