package postgres

import (
	"context"
	"errors"
	"fmt"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet within a database transaction so the client
// and its wallet commit together.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, client_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.ClientID, w.Balance, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByClientID fetches a wallet by client ID (non-locking read).
func (r *WalletRepo) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, client_id, balance, created_at, updated_at
		FROM wallets WHERE client_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&w.ID, &w.ClientID, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by client id: %w", err)
	}
	return w, nil
}

// GetByClientIDForUpdate fetches a wallet by client ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByClientIDForUpdate(ctx context.Context, tx pgx.Tx, clientID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, client_id, balance, created_at, updated_at
		FROM wallets WHERE client_id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, clientID).Scan(
		&w.ID, &w.ClientID, &w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// UpdateBalance updates a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}
