package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"
	"digital-wallet/pkg/mask"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService. A payment lives in a
// session that moves PENDING -> CONFIRMED | EXPIRED | CANCELLED exactly
// once; the confirmation transition and the wallet debit commit in the
// same database transaction.
type PaymentServiceImpl struct {
	clientRepo  ports.ClientRepository
	sessionRepo ports.PaymentSessionRepository
	walletSvc   ports.WalletService
	otpGen      ports.OtpGenerator
	mailer      ports.Mailer
	transactor  ports.DBTransactor
	sessionTTL  time.Duration
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	clientRepo ports.ClientRepository,
	sessionRepo ports.PaymentSessionRepository,
	walletSvc ports.WalletService,
	otpGen ports.OtpGenerator,
	mailer ports.Mailer,
	transactor ports.DBTransactor,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		walletSvc:   walletSvc,
		otpGen:      otpGen,
		mailer:      mailer,
		transactor:  transactor,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

// RequestPayment opens a PENDING session and delivers its confirmation
// code. The balance check here is advisory only; the binding check happens
// under the wallet lock at confirmation. If delivery fails the session is
// cancelled so an unconfirmable session never lingers as PENDING.
func (s *PaymentServiceImpl) RequestPayment(ctx context.Context, req ports.PaymentRequest) (*ports.PaymentSessionInfo, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	client, err := s.clientRepo.GetByDocumentAndPhone(ctx, req.Document, req.Phone)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup client: %w", err))
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound()
	}

	enough, err := s.walletSvc.HasEnoughBalance(ctx, client.ID, req.Amount)
	if err != nil {
		return nil, err
	}
	if !enough {
		return nil, apperror.ErrInsufficientFunds()
	}

	token, err := s.otpGen.Generate()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	now := time.Now()
	session := &domain.PaymentSession{
		ID:        uuid.New(),
		ClientID:  client.ID,
		Token:     token,
		Amount:    req.Amount,
		Status:    domain.SessionStatusPending,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create session: %w", err))
	}

	if err := s.mailer.SendPaymentOtp(ctx, client.Email, ports.PaymentOtpMail{
		Name:              client.Name,
		Otp:               token,
		Amount:            req.Amount,
		ExpirationMinutes: int(s.sessionTTL.Minutes()),
	}); err != nil {
		if cancelErr := s.sessionRepo.UpdateStatus(ctx, session.ID, domain.SessionStatusCancelled); cancelErr != nil {
			s.log.Error().Err(cancelErr).
				Str("session_id", session.ID.String()).
				Msg("cancel after delivery failure failed")
		}
		s.log.Warn().Err(err).
			Str("session_id", session.ID.String()).
			Str("email", mask.Email(client.Email)).
			Msg("payment otp delivery failed, session cancelled")
		return nil, apperror.ErrDeliveryFailed()
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("client_id", client.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("payment session opened")

	return &ports.PaymentSessionInfo{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		Message:   fmt.Sprintf("A confirmation code was sent to %s", mask.Email(client.Email)),
	}, nil
}

// ConfirmPayment settles a session. The PENDING->CONFIRMED transition is a
// compare-and-set inside the same transaction as the debit, so concurrent
// confirmations of one session produce exactly one debit; losers observe a
// terminal state. If the balance no longer covers the amount the debit is
// rolled back and the session is cancelled; funds spent elsewhere since the
// request kill the session rather than park it.
func (s *PaymentServiceImpl) ConfirmPayment(ctx context.Context, sessionID uuid.UUID, token string) (*ports.PaymentReceipt, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup session: %w", err))
	}
	if session == nil {
		return nil, apperror.ErrSessionNotFound()
	}

	if err := terminalStateError(session.Status); err != nil {
		return nil, err
	}

	if session.IsExpired(time.Now()) {
		if updErr := s.sessionRepo.UpdateStatus(ctx, session.ID, domain.SessionStatusExpired); updErr != nil {
			s.log.Error().Err(updErr).
				Str("session_id", session.ID.String()).
				Msg("lazy expiry update failed")
		}
		return nil, apperror.ErrSessionExpired()
	}

	if session.Token != token {
		return nil, apperror.ErrInvalidOtp()
	}

	client, err := s.clientRepo.GetByID(ctx, session.ClientID)
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

	won, err := s.sessionRepo.UpdateStatusIfPending(ctx, dbTx, session.ID, domain.SessionStatusConfirmed)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("confirm session: %w", err))
	}
	if !won {
		// Another caller reached a terminal state first. Report what it was.
		current, lookupErr := s.sessionRepo.GetByID(ctx, session.ID)
		if lookupErr != nil || current == nil {
			return nil, apperror.ErrSessionAlreadyConfirmed()
		}
		if err := terminalStateError(current.Status); err != nil {
			return nil, err
		}
		return nil, apperror.ErrSessionAlreadyConfirmed()
	}

	if _, err := s.walletSvc.Debit(ctx, dbTx, session.ClientID, session.Amount); err != nil {
		dbTx.Rollback(ctx) //nolint:errcheck
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "WLT_001" {
			if cancelErr := s.sessionRepo.UpdateStatus(ctx, session.ID, domain.SessionStatusCancelled); cancelErr != nil {
				s.log.Error().Err(cancelErr).
					Str("session_id", session.ID.String()).
					Msg("cancel after failed balance check failed")
			}
			s.log.Warn().
				Str("session_id", session.ID.String()).
				Str("client_id", session.ClientID.String()).
				Msg("insufficient balance at confirmation, session cancelled")
		}
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Receipt email is best effort; the payment is already settled.
	if err := s.mailer.SendPaymentConfirmed(ctx, client.Email, ports.PaymentConfirmedMail{
		Name:      client.Name,
		Amount:    session.Amount,
		SessionID: session.ID.String(),
		Date:      time.Now().Format(time.RFC3339),
	}); err != nil {
		s.log.Warn().Err(err).
			Str("session_id", session.ID.String()).
			Msg("confirmation email failed")
	}

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("client_id", client.ID.String()).
		Str("amount", session.Amount.String()).
		Msg("payment confirmed")

	return &ports.PaymentReceipt{
		SessionID:  session.ID,
		Amount:     session.Amount,
		ClientName: client.Name,
	}, nil
}

// GetSessionStatus returns the session projection. A PENDING session past
// its window is persisted as EXPIRED on read; there is no background
// sweeper.
func (s *PaymentServiceImpl) GetSessionStatus(ctx context.Context, sessionID uuid.UUID) (*ports.SessionStatusInfo, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup session: %w", err))
	}
	if session == nil {
		return nil, apperror.ErrSessionNotFound()
	}

	if session.Status == domain.SessionStatusPending && session.IsExpired(time.Now()) {
		if updErr := s.sessionRepo.UpdateStatus(ctx, session.ID, domain.SessionStatusExpired); updErr != nil {
			s.log.Error().Err(updErr).
				Str("session_id", session.ID.String()).
				Msg("lazy expiry update failed")
		}
		session.Status = domain.SessionStatusExpired
	}

	client, err := s.clientRepo.GetByID(ctx, session.ClientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup client: %w", err))
	}
	var clientName string
	if client != nil {
		clientName = client.Name
	}

	return &ports.SessionStatusInfo{
		SessionID:  session.ID,
		Status:     session.Status,
		Amount:     session.Amount,
		ClientName: clientName,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
	}, nil
}

func terminalStateError(status domain.SessionStatus) error {
	switch status {
	case domain.SessionStatusConfirmed:
		return apperror.ErrSessionAlreadyConfirmed()
	case domain.SessionStatusExpired:
		return apperror.ErrSessionExpired()
	case domain.SessionStatusCancelled:
		return apperror.ErrSessionCancelled()
	}
	return nil
}
