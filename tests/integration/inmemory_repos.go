package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Client Repo ---

type inMemoryClientRepo struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*domain.Client
}

func newInMemoryClientRepo() *inMemoryClientRepo {
	return &inMemoryClientRepo{clients: make(map[uuid.UUID]*domain.Client)}
}

func (r *inMemoryClientRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.clients {
		if existing.Document == c.Document || existing.Email == c.Email {
			return fmt.Errorf("client already exists")
		}
	}
	r.clients[c.ID] = c
	return nil
}

func (r *inMemoryClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *inMemoryClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *inMemoryClientRepo) GetByDocumentOrEmail(ctx context.Context, document, email string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// Document matches take precedence over email matches.
	var emailMatch *domain.Client
	for _, c := range r.clients {
		if c.Document == document {
			return c, nil
		}
		if c.Email == email {
			emailMatch = c
		}
	}
	return emailMatch, nil
}

func (r *inMemoryClientRepo) GetByDocumentAndPhone(ctx context.Context, document, phone string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.Document == document && c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *inMemoryClientRepo) GetByEmailDocumentAndPhone(ctx context.Context, email, document, phone string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.Email == email && c.Document == document && c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.ID] = w
	return nil
}

func (r *inMemoryWalletRepo) GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.ClientID == clientID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByClientIDForUpdate(ctx context.Context, tx pgx.Tx, clientID uuid.UUID) (*domain.Wallet, error) {
	return r.GetByClientID(ctx, clientID)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = balance
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, t)
	return nil
}

func (r *inMemoryTransactionRepo) ListByClient(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if t.ClientID != params.ClientID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Payment Session Repo ---

type inMemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.PaymentSession
}

func newInMemorySessionRepo() *inMemorySessionRepo {
	return &inMemorySessionRepo{sessions: make(map[uuid.UUID]*domain.PaymentSession)}
}

func (r *inMemorySessionRepo) Create(ctx context.Context, s *domain.PaymentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *inMemorySessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *inMemorySessionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session not found")
	}
	s.Status = status
	return nil
}

// UpdateStatusIfPending is the compare-and-set used to decide the winner
// among concurrent confirmations. Atomic under the repo mutex. When the
// surrounding transaction rolls back, the transition is undone, matching
// the database behavior.
func (r *inMemorySessionRepo) UpdateStatusIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.SessionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Status != domain.SessionStatusPending {
		return false, nil
	}
	s.Status = status
	if ltx, ok := tx.(*lockedTx); ok {
		ltx.onRollback(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			s.Status = domain.SessionStatusPending
		})
	}
	return true, nil
}

// --- In-Memory Login OTP Repo ---

type inMemoryLoginOtpRepo struct {
	mu   sync.RWMutex
	otps map[uuid.UUID]*domain.LoginOtp
}

func newInMemoryLoginOtpRepo() *inMemoryLoginOtpRepo {
	return &inMemoryLoginOtpRepo{otps: make(map[uuid.UUID]*domain.LoginOtp)}
}

func (r *inMemoryLoginOtpRepo) Create(ctx context.Context, o *domain.LoginOtp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otps[o.ID] = o
	return nil
}

func (r *inMemoryLoginOtpRepo) GetLatestByEmailAndOtp(ctx context.Context, email, otp string) (*domain.LoginOtp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.LoginOtp
	for _, o := range r.otps {
		if o.Email != email || o.Otp != otp {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *inMemoryLoginOtpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.otps, id)
	return nil
}

func (r *inMemoryLoginOtpRepo) DeleteByEmailAndOtp(ctx context.Context, email, otp string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.otps {
		if o.Email == email && o.Otp == otp {
			delete(r.otps, id)
		}
	}
	return nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serialises transactions with a global mutex so the
// read-modify-write sequences inside a transaction behave like they do
// under the real row locks.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockedTx{release: &t.mu}, nil
}

// lockedTx holds the transactor mutex until Commit or Rollback. Both may
// run (commit then deferred rollback), so settlement happens once. Repos
// may register undo functions that run only if the transaction rolls back.
type lockedTx struct {
	release     *sync.Mutex
	once        sync.Once
	rollbackFns []func()
}

func (t *lockedTx) onRollback(fn func()) {
	t.rollbackFns = append(t.rollbackFns, fn)
}

func (t *lockedTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *lockedTx) Commit(ctx context.Context) error {
	t.once.Do(func() {
		t.rollbackFns = nil
		t.release.Unlock()
	})
	return nil
}

func (t *lockedTx) Rollback(ctx context.Context) error {
	t.once.Do(func() {
		for i := len(t.rollbackFns) - 1; i >= 0; i-- {
			t.rollbackFns[i]()
		}
		t.rollbackFns = nil
		t.release.Unlock()
	})
	return nil
}
func (t *lockedTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockedTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockedTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockedTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockedTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockedTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockedTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockedTx) Conn() *pgx.Conn { return nil }

// --- Capturing Mailer ---

// captureMailer records every delivery so tests can read the codes that
// would have gone out by email. failNext makes the next send fail once.
type captureMailer struct {
	mu        sync.Mutex
	failNext  bool
	loginOtps []string
	payOtps   []string
	welcomes  int
	confirms  int
}

func (m *captureMailer) maybeFail() error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("smtp: connection refused")
	}
	return nil
}

func (m *captureMailer) SendWelcome(ctx context.Context, to string, data ports.WelcomeMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.maybeFail(); err != nil {
		return err
	}
	m.welcomes++
	return nil
}

func (m *captureMailer) SendLoginOtp(ctx context.Context, to string, data ports.LoginOtpMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.maybeFail(); err != nil {
		return err
	}
	m.loginOtps = append(m.loginOtps, data.Otp)
	return nil
}

func (m *captureMailer) SendPaymentOtp(ctx context.Context, to string, data ports.PaymentOtpMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.maybeFail(); err != nil {
		return err
	}
	m.payOtps = append(m.payOtps, data.Otp)
	return nil
}

func (m *captureMailer) SendPaymentConfirmed(ctx context.Context, to string, data ports.PaymentConfirmedMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.maybeFail(); err != nil {
		return err
	}
	m.confirms++
	return nil
}

func (m *captureMailer) lastLoginOtp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.loginOtps) == 0 {
		return ""
	}
	return m.loginOtps[len(m.loginOtps)-1]
}

func (m *captureMailer) lastPaymentOtp() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payOtps) == 0 {
		return ""
	}
	return m.payOtps[len(m.payOtps)-1]
}
