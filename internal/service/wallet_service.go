package service

import (
	"context"
	"fmt"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	clientRepo  ports.ClientRepository
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	minRecharge decimal.Decimal
	log         zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	clientRepo ports.ClientRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	minRecharge decimal.Decimal,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		clientRepo:  clientRepo,
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		minRecharge: minRecharge,
		log:         log,
	}
}

// Recharge credits the wallet of the client identified by document+phone.
// The balance update and the RECHARGE ledger entry commit atomically, with
// the wallet row locked for the duration.
func (s *WalletServiceImpl) Recharge(ctx context.Context, req ports.RechargeRequest) (*ports.RechargeResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount.LessThan(s.minRecharge) {
		return nil, apperror.ErrRechargeBelowMinimum(s.minRecharge.String())
	}

	client, err := s.clientRepo.GetByDocumentAndPhone(ctx, req.Document, req.Phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup client: %w", err))
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByClientIDForUpdate(ctx, dbTx, client.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	newBalance := wallet.Balance.Add(req.Amount)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	entry := &domain.Transaction{
		ID:        uuid.New(),
		ClientID:  client.ID,
		WalletID:  wallet.ID,
		Type:      domain.TransactionTypeRecharge,
		Amount:    req.Amount,
		CreatedAt: time.Now(),
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("client_id", client.ID.String()).
		Str("amount", req.Amount.String()).
		Str("new_balance", newBalance.String()).
		Msg("wallet recharged")

	return &ports.RechargeResult{
		ClientID:        client.ID,
		Name:            client.Name,
		NewBalance:      newBalance,
		RechargedAmount: req.Amount,
	}, nil
}

// GetBalance returns the current balance for the client identified by
// document+phone.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, document, phone string) (*ports.BalanceResult, error) {
	client, err := s.clientRepo.GetByDocumentAndPhone(ctx, document, phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup client: %w", err))
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound()
	}

	wallet, err := s.walletRepo.GetByClientID(ctx, client.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	return &ports.BalanceResult{
		ClientID: client.ID,
		Name:     client.Name,
		Document: client.Document,
		Balance:  wallet.Balance,
	}, nil
}

// HasEnoughBalance is a read-only sufficiency probe. A missing wallet
// answers false, not an error.
func (s *WalletServiceImpl) HasEnoughBalance(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal) (bool, error) {
	wallet, err := s.walletRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("lookup wallet: %w", err))
	}
	if wallet == nil {
		return false, nil
	}
	return wallet.HasEnough(amount), nil
}

// Debit decrements the balance and appends the PAYMENT ledger entry inside
// the caller's transaction. Sufficiency is re-verified under the row lock;
// a pre-flight check elsewhere does not count.
func (s *WalletServiceImpl) Debit(ctx context.Context, dbTx pgx.Tx, clientID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.walletRepo.GetByClientIDForUpdate(ctx, dbTx, clientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if !wallet.HasEnough(amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	newBalance := wallet.Balance.Sub(amount)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	entry := &domain.Transaction{
		ID:        uuid.New(),
		ClientID:  clientID,
		WalletID:  wallet.ID,
		Type:      domain.TransactionTypePayment,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}

	wallet.Balance = newBalance
	return wallet, nil
}

// ListTransactions returns a page of the client's ledger, newest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	items, total, err := s.txRepo.ListByClient(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return items, total, nil
}
