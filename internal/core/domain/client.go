package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a registered wallet holder. Clients are immutable after
// registration; document and email are unique across the system.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Document  string    `json:"document"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // stored lower-cased
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
