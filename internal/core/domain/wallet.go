package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a client's balance. Exactly one wallet exists per client,
// created together with the client. The balance is never negative and is
// only mutated through recharge/debit operations that append a Transaction
// in the same database transaction.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasEnough reports whether the wallet covers the given amount.
func (w *Wallet) HasEnough(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
