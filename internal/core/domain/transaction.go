package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeRecharge TransactionType = "RECHARGE"
	TransactionTypePayment  TransactionType = "PAYMENT"
)

// Transaction is an immutable ledger entry documenting one balance
// mutation. Created in the same database transaction as the mutation,
// never updated or deleted.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"client_id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
