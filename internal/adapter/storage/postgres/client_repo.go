package postgres

import (
	"context"
	"errors"
	"fmt"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `id, document, name, email, phone, created_at, updated_at`

// ClientRepo implements ports.ClientRepository.
type ClientRepo struct {
	pool Pool
}

// NewClientRepo creates a new ClientRepo.
func NewClientRepo(pool Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

// Create inserts a new client within a database transaction.
func (r *ClientRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Client) error {
	query := `INSERT INTO clients (id, document, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.Document, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID fetches a client by its UUID.
func (r *ClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return r.scanClient(r.pool.QueryRow(ctx, query, id), "get client by id")
}

// GetByEmail fetches a client by email (lower-cased).
func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE email = $1`, clientColumns)
	return r.scanClient(r.pool.QueryRow(ctx, query, email), "get client by email")
}

// GetByDocumentOrEmail fetches a client whose document or email collides
// with the given pair. Used as the registration conflict probe.
func (r *ClientRepo) GetByDocumentOrEmail(ctx context.Context, document, email string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE document = $1 OR email = $2
		ORDER BY (document = $1) DESC LIMIT 1`, clientColumns)
	return r.scanClient(r.pool.QueryRow(ctx, query, document, email), "get client by document or email")
}

// GetByDocumentAndPhone fetches a client by the document+phone pair.
func (r *ClientRepo) GetByDocumentAndPhone(ctx context.Context, document, phone string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE document = $1 AND phone = $2`, clientColumns)
	return r.scanClient(r.pool.QueryRow(ctx, query, document, phone), "get client by document and phone")
}

// GetByEmailDocumentAndPhone fetches a client only when all three
// identifiers match the same row.
func (r *ClientRepo) GetByEmailDocumentAndPhone(ctx context.Context, email, document, phone string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE email = $1 AND document = $2 AND phone = $3`, clientColumns)
	return r.scanClient(r.pool.QueryRow(ctx, query, email, document, phone), "get client by email, document and phone")
}

func (r *ClientRepo) scanClient(row pgx.Row, op string) (*domain.Client, error) {
	c := &domain.Client{}
	err := row.Scan(&c.ID, &c.Document, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
