package service

import (
	"context"
	"testing"
	"time"

	"digital-wallet/internal/core/domain"
	"digital-wallet/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func TestAuditService_Log_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, zerolog.Nop())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) error {
			if log.Action != domain.AuditActionPaymentConfirm {
				t.Errorf("expected PAYMENT_CONFIRM, got %s", log.Action)
			}
			close(done)
			return nil
		},
	)

	clientID := uuid.New()
	svc.Log(context.Background(), &domain.AuditLog{
		ID:           uuid.New(),
		ClientID:     &clientID,
		Action:       domain.AuditActionPaymentConfirm,
		ResourceType: "payment_session",
		ResourceID:   uuid.New().String(),
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now(),
	})

	select {
	case <-done:
		// OK
	case <-time.After(2 * time.Second):
		t.Fatal("audit log not persisted in time")
	}
}

func TestAuditService_Log_NilRepoOnlyLogs(t *testing.T) {
	svc := NewAuditService(nil, zerolog.Nop())

	// Must not panic.
	svc.Log(context.Background(), &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionRegister,
		IPAddress: "127.0.0.1",
		CreatedAt: time.Now(),
	})
	time.Sleep(50 * time.Millisecond)
}
