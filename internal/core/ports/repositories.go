package ports

import (
	"context"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	// Create inserts the client within a database transaction so that client
	// and wallet creation commit together.
	Create(ctx context.Context, tx pgx.Tx, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	// GetByDocumentOrEmail is the registration collision probe.
	GetByDocumentOrEmail(ctx context.Context, document, email string) (*domain.Client, error)
	GetByDocumentAndPhone(ctx context.Context, document, phone string) (*domain.Client, error)
	GetByEmailDocumentAndPhone(ctx context.Context, email, document, phone string) (*domain.Client, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Wallet, error)
	GetByClientIDForUpdate(ctx context.Context, tx pgx.Tx, clientID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// TransactionRepository defines persistence for the append-only ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	ListByClient(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// TransactionListParams holds filter + pagination for the wallet statement.
type TransactionListParams struct {
	ClientID uuid.UUID
	Type     *domain.TransactionType
	Page     int
	PageSize int
}

// PaymentSessionRepository defines persistence for payment sessions.
type PaymentSessionRepository interface {
	Create(ctx context.Context, session *domain.PaymentSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentSession, error)
	// UpdateStatus applies a terminal transition outside a wallet-mutating
	// transaction (lazy expiry, delivery-failure cancel).
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error
	// UpdateStatusIfPending is the compare-and-set serialization point for
	// confirmation: it transitions the session only if it is still PENDING
	// and reports whether this caller won the transition.
	UpdateStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.SessionStatus) (bool, error)
}

// LoginOtpRepository defines persistence for login one-time codes.
type LoginOtpRepository interface {
	Create(ctx context.Context, otp *domain.LoginOtp) error
	// GetLatestByEmailAndOtp returns the most recently created matching row,
	// or nil when no row matches.
	GetLatestByEmailAndOtp(ctx context.Context, email, otp string) (*domain.LoginOtp, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByEmailAndOtp is the compensating cleanup after a failed delivery.
	DeleteByEmailAndOtp(ctx context.Context, email, otp string) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
