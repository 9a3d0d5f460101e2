package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports"
	"digital-wallet/internal/core/ports/mocks"
	"digital-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc         *PaymentServiceImpl
	clientRepo  *mocks.MockClientRepository
	sessionRepo *mocks.MockPaymentSessionRepository
	walletSvc   *mocks.MockWalletService
	otpGen      *mocks.MockOtpGenerator
	mailer      *mocks.MockMailer
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		clientRepo:  mocks.NewMockClientRepository(ctrl),
		sessionRepo: mocks.NewMockPaymentSessionRepository(ctrl),
		walletSvc:   mocks.NewMockWalletService(ctrl),
		otpGen:      mocks.NewMockOtpGenerator(ctrl),
		mailer:      mocks.NewMockMailer(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewPaymentService(
		d.clientRepo, d.sessionRepo, d.walletSvc,
		d.otpGen, d.mailer, d.transactor,
		5*time.Minute, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func testClient() *domain.Client {
	return &domain.Client{
		ID:       uuid.New(),
		Document: "12345678",
		Name:     "Jane Roe",
		Email:    "jane@example.com",
		Phone:    "555123456",
	}
}

// ==================== RequestPayment Tests ====================

func TestPaymentService_RequestPayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	amount := decimal.RequireFromString("150.00")

	d.clientRepo.EXPECT().GetByDocumentAndPhone(ctx, client.Document, client.Phone).Return(client, nil)
	d.walletSvc.EXPECT().HasEnoughBalance(ctx, client.ID, amount).Return(true, nil)
	d.otpGen.EXPECT().Generate().Return("042137", nil)

	var created *domain.PaymentSession
	d.sessionRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.PaymentSession) error {
			created = s
			return nil
		},
	)
	d.mailer.EXPECT().SendPaymentOtp(ctx, client.Email, gomock.Any()).Return(nil)

	info, err := d.svc.RequestPayment(ctx, ports.PaymentRequest{
		Document: client.Document,
		Phone:    client.Phone,
		Amount:   amount,
	})
	require.NoError(t, err)
	require.NotNil(t, info)

	require.NotNil(t, created)
	assert.Equal(t, created.ID, info.SessionID)
	assert.Equal(t, domain.SessionStatusPending, created.Status)
	assert.Equal(t, "042137", created.Token)
	assert.True(t, created.Amount.Equal(amount))
	assert.Contains(t, info.Message, "j***e@example.com")
}

func TestPaymentService_RequestPayment_InvalidAmount(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.RequestPayment(context.Background(), ports.PaymentRequest{
		Document: "12345678",
		Phone:    "555123456",
		Amount:   decimal.Zero,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_002", appErr.Code)
}

func TestPaymentService_RequestPayment_ClientNotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.clientRepo.EXPECT().GetByDocumentAndPhone(ctx, "999", "000").Return(nil, nil)

	_, err := d.svc.RequestPayment(ctx, ports.PaymentRequest{
		Document: "999", Phone: "000", Amount: decimal.NewFromInt(10),
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CLI_001", appErr.Code)
}

func TestPaymentService_RequestPayment_InsufficientBalance(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	amount := decimal.NewFromInt(5000)

	d.clientRepo.EXPECT().GetByDocumentAndPhone(ctx, client.Document, client.Phone).Return(client, nil)
	d.walletSvc.EXPECT().HasEnoughBalance(ctx, client.ID, amount).Return(false, nil)

	_, err := d.svc.RequestPayment(ctx, ports.PaymentRequest{
		Document: client.Document, Phone: client.Phone, Amount: amount,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_001", appErr.Code)
}

func TestPaymentService_RequestPayment_DeliveryFailureCancelsSession(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	amount := decimal.NewFromInt(100)

	d.clientRepo.EXPECT().GetByDocumentAndPhone(ctx, client.Document, client.Phone).Return(client, nil)
	d.walletSvc.EXPECT().HasEnoughBalance(ctx, client.ID, amount).Return(true, nil)
	d.otpGen.EXPECT().Generate().Return("123456", nil)

	var sessionID uuid.UUID
	d.sessionRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.PaymentSession) error {
			sessionID = s.ID
			return nil
		},
	)
	d.mailer.EXPECT().SendPaymentOtp(ctx, client.Email, gomock.Any()).Return(assert.AnError)
	d.sessionRepo.EXPECT().UpdateStatus(ctx, gomock.Any(), domain.SessionStatusCancelled).DoAndReturn(
		func(_ context.Context, id uuid.UUID, _ domain.SessionStatus) error {
			assert.Equal(t, sessionID, id)
			return nil
		},
	)

	_, err := d.svc.RequestPayment(ctx, ports.PaymentRequest{
		Document: client.Document, Phone: client.Phone, Amount: amount,
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OTP_003", appErr.Code)
}

// ==================== ConfirmPayment Tests ====================

func pendingSession(clientID uuid.UUID, amount decimal.Decimal) *domain.PaymentSession {
	now := time.Now()
	return &domain.PaymentSession{
		ID:        uuid.New(),
		ClientID:  clientID,
		Token:     "042137",
		Amount:    amount,
		Status:    domain.SessionStatusPending,
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPaymentService_ConfirmPayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	amount := decimal.RequireFromString("150.00")
	session := pendingSession(client.ID, amount)
	tx := &mockTx{}

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.sessionRepo.EXPECT().UpdateStatusIfPending(ctx, tx, session.ID, domain.SessionStatusConfirmed).Return(true, nil)
	d.walletSvc.EXPECT().Debit(ctx, tx, client.ID, amount).Return(&domain.Wallet{
		ID:       uuid.New(),
		ClientID: client.ID,
		Balance:  decimal.RequireFromString("850.00"),
	}, nil)
	d.mailer.EXPECT().SendPaymentConfirmed(ctx, client.Email, gomock.Any()).Return(nil)

	receipt, err := d.svc.ConfirmPayment(ctx, session.ID, "042137")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, session.ID, receipt.SessionID)
	assert.True(t, receipt.Amount.Equal(amount))
	assert.Equal(t, client.Name, receipt.ClientName)
}

func TestPaymentService_ConfirmPayment_SessionNotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	d.sessionRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.ConfirmPayment(ctx, id, "123456")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestPaymentService_ConfirmPayment_TerminalStates(t *testing.T) {
	cases := []struct {
		name     string
		status   domain.SessionStatus
		wantCode string
	}{
		{"already confirmed", domain.SessionStatusConfirmed, "PAY_002"},
		{"expired", domain.SessionStatusExpired, "PAY_003"},
		{"cancelled", domain.SessionStatusCancelled, "PAY_004"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := setupPaymentService(t)
			defer d.ctrl.Finish()

			ctx := context.Background()
			session := pendingSession(uuid.New(), decimal.NewFromInt(100))
			session.Status = tc.status

			d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)

			_, err := d.svc.ConfirmPayment(ctx, session.ID, session.Token)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.wantCode, appErr.Code)
		})
	}
}

func TestPaymentService_ConfirmPayment_LazyExpiry(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	session := pendingSession(uuid.New(), decimal.NewFromInt(100))
	session.ExpiresAt = time.Now().Add(-time.Minute)

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.sessionRepo.EXPECT().UpdateStatus(ctx, session.ID, domain.SessionStatusExpired).Return(nil)

	_, err := d.svc.ConfirmPayment(ctx, session.ID, session.Token)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_003", appErr.Code)
}

func TestPaymentService_ConfirmPayment_WrongToken(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	session := pendingSession(uuid.New(), decimal.NewFromInt(100))

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)

	_, err := d.svc.ConfirmPayment(ctx, session.ID, "000000")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OTP_001", appErr.Code)
}

func TestPaymentService_ConfirmPayment_LostCASReportsTerminalState(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))
	tx := &mockTx{}

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.sessionRepo.EXPECT().UpdateStatusIfPending(ctx, tx, session.ID, domain.SessionStatusConfirmed).Return(false, nil)

	confirmed := *session
	confirmed.Status = domain.SessionStatusConfirmed
	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(&confirmed, nil)

	_, err := d.svc.ConfirmPayment(ctx, session.ID, session.Token)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_002", appErr.Code)
}

func TestPaymentService_ConfirmPayment_InsufficientFundsCancelsSession(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))
	tx := &mockTx{}

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.sessionRepo.EXPECT().UpdateStatusIfPending(ctx, tx, session.ID, domain.SessionStatusConfirmed).Return(true, nil)
	d.walletSvc.EXPECT().Debit(ctx, tx, client.ID, session.Amount).Return(nil, apperror.ErrInsufficientFunds())
	d.sessionRepo.EXPECT().UpdateStatus(ctx, session.ID, domain.SessionStatusCancelled).Return(nil)

	_, err := d.svc.ConfirmPayment(ctx, session.ID, session.Token)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_001", appErr.Code)
}

func TestPaymentService_ConfirmPayment_RetryAfterWrongToken(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))
	tx := &mockTx{}

	// Wrong code is rejected before any state change.
	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	_, err := d.svc.ConfirmPayment(ctx, session.ID, "000000")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OTP_001", appErr.Code)

	// The session stayed PENDING, so the correct code still settles it.
	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.sessionRepo.EXPECT().UpdateStatusIfPending(ctx, tx, session.ID, domain.SessionStatusConfirmed).Return(true, nil)
	d.walletSvc.EXPECT().Debit(ctx, tx, client.ID, session.Amount).Return(&domain.Wallet{ClientID: client.ID}, nil)
	d.mailer.EXPECT().SendPaymentConfirmed(ctx, client.Email, gomock.Any()).Return(nil)

	receipt, err := d.svc.ConfirmPayment(ctx, session.ID, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, receipt.SessionID)
}

// ==================== GetSessionStatus Tests ====================

func TestPaymentService_GetSessionStatus_PendingWithinWindow(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)

	info, err := d.svc.GetSessionStatus(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusPending, info.Status)
	assert.Equal(t, client.Name, info.ClientName)
}

func TestPaymentService_GetSessionStatus_ExpiresLazily(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))
	session.ExpiresAt = time.Now().Add(-time.Second)

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.sessionRepo.EXPECT().UpdateStatus(ctx, session.ID, domain.SessionStatusExpired).Return(nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(client, nil)

	info, err := d.svc.GetSessionStatus(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusExpired, info.Status)
}

func TestPaymentService_GetSessionStatus_NotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	d.sessionRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.GetSessionStatus(ctx, id)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAY_001", appErr.Code)
}

func TestPaymentService_GetSessionStatus_ClientLookupErrorPropagates(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	client := testClient()
	session := pendingSession(client.ID, decimal.NewFromInt(100))

	d.sessionRepo.EXPECT().GetByID(ctx, session.ID).Return(session, nil)
	d.clientRepo.EXPECT().GetByID(ctx, client.ID).Return(nil, errors.New("connection reset"))

	_, err := d.svc.GetSessionStatus(ctx, session.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
