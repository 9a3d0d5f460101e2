package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"
	"digital-wallet/pkg/apperror"
	"digital-wallet/pkg/mask"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ClientServiceImpl implements ports.ClientService.
type ClientServiceImpl struct {
	clientRepo ports.ClientRepository
	walletRepo ports.WalletRepository
	otpRepo    ports.LoginOtpRepository
	otpGen     ports.OtpGenerator
	mailer     ports.Mailer
	transactor ports.DBTransactor
	otpTTL     time.Duration
	log        zerolog.Logger
}

// NewClientService creates a new ClientServiceImpl.
func NewClientService(
	clientRepo ports.ClientRepository,
	walletRepo ports.WalletRepository,
	otpRepo ports.LoginOtpRepository,
	otpGen ports.OtpGenerator,
	mailer ports.Mailer,
	transactor ports.DBTransactor,
	otpTTL time.Duration,
	log zerolog.Logger,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		walletRepo: walletRepo,
		otpRepo:    otpRepo,
		otpGen:     otpGen,
		mailer:     mailer,
		transactor: transactor,
		otpTTL:     otpTTL,
		log:        log,
	}
}

// Register creates a client together with its zero-balance wallet in one
// database transaction. Document and email conflicts are reported as
// distinct errors, document first when both collide.
func (s *ClientServiceImpl) Register(ctx context.Context, req ports.RegisterClientRequest) (*ports.ClientProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.clientRepo.GetByDocumentOrEmail(ctx, req.Document, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("collision probe: %w", err))
	}
	if existing != nil {
		if existing.Document == req.Document {
			return nil, apperror.ErrDocumentExists()
		}
		return nil, apperror.ErrEmailExists()
	}

	now := time.Now()
	client := &domain.Client{
		ID:        uuid.New(),
		Document:  req.Document,
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		ClientID:  client.ID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.clientRepo.Create(ctx, dbTx, client); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create client: %w", err))
	}
	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Welcome email is best effort; registration already succeeded.
	if err := s.mailer.SendWelcome(ctx, client.Email, ports.WelcomeMail{
		Name:     client.Name,
		Document: client.Document,
		Email:    client.Email,
	}); err != nil {
		s.log.Warn().Err(err).
			Str("email", mask.Email(client.Email)).
			Msg("welcome email failed")
	}

	s.log.Info().
		Str("client_id", client.ID.String()).
		Str("email", mask.Email(client.Email)).
		Msg("client registered")

	return &ports.ClientProfile{Client: client, Wallet: wallet}, nil
}

// RequestLoginOtp issues a login code for the client identified by the
// exact email+document+phone triple. The code is persisted before delivery
// and deleted again if delivery fails, so an undeliverable code is never
// confirmable.
func (s *ClientServiceImpl) RequestLoginOtp(ctx context.Context, req ports.LoginOtpRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	client, err := s.clientRepo.GetByEmailDocumentAndPhone(ctx, email, req.Document, req.Phone)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("lookup client: %w", err))
	}
	if client == nil {
		return "", apperror.ErrClientNotFound()
	}

	code, err := s.otpGen.Generate()
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate otp: %w", err))
	}

	now := time.Now()
	otp := &domain.LoginOtp{
		ID:        uuid.New(),
		Email:     client.Email,
		Otp:       code,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return "", apperror.InternalError(fmt.Errorf("store otp: %w", err))
	}

	if err := s.mailer.SendLoginOtp(ctx, client.Email, ports.LoginOtpMail{
		Name:              client.Name,
		Otp:               code,
		ExpirationMinutes: int(s.otpTTL.Minutes()),
	}); err != nil {
		// Compensate so the stored code cannot be confirmed later.
		if delErr := s.otpRepo.DeleteByEmailAndOtp(ctx, client.Email, code); delErr != nil {
			s.log.Error().Err(delErr).
				Str("email", mask.Email(client.Email)).
				Msg("compensating otp delete failed")
		}
		s.log.Warn().Err(err).
			Str("email", mask.Email(client.Email)).
			Msg("login otp delivery failed")
		return "", apperror.ErrDeliveryFailed()
	}

	s.log.Info().
		Str("client_id", client.ID.String()).
		Str("email", mask.Email(client.Email)).
		Msg("login otp issued")

	return fmt.Sprintf("A login code was sent to %s", mask.Email(client.Email)), nil
}

// ConfirmLoginOtp validates and consumes a login code. The most recently
// issued matching code wins; the row is deleted before the profile is
// returned so a code is usable exactly once. Expired codes are deleted on
// rejection.
func (s *ClientServiceImpl) ConfirmLoginOtp(ctx context.Context, email, otp string) (*ports.ClientProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	record, err := s.otpRepo.GetLatestByEmailAndOtp(ctx, email, otp)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup otp: %w", err))
	}
	if record == nil {
		return nil, apperror.ErrInvalidOtp()
	}

	if record.IsExpired(time.Now()) {
		if delErr := s.otpRepo.Delete(ctx, record.ID); delErr != nil {
			s.log.Error().Err(delErr).Msg("expired otp delete failed")
		}
		return nil, apperror.ErrOtpExpired()
	}

	// Consume before returning the profile: single use.
	if err := s.otpRepo.Delete(ctx, record.ID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("consume otp: %w", err))
	}

	client, err := s.clientRepo.GetByEmail(ctx, email)
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

	s.log.Info().
		Str("client_id", client.ID.String()).
		Str("email", mask.Email(client.Email)).
		Msg("login otp confirmed")

	return &ports.ClientProfile{Client: client, Wallet: wallet}, nil
}
