package postgres

import (
	"context"
	"testing"
	"time"

	"digital-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func otpColumns() []string {
	return []string{"id", "email", "otp", "expires_at", "created_at"}
}

func TestLoginOtpRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLoginOtpRepo(mock)
	otp := &domain.LoginOtp{
		ID:        uuid.New(),
		Email:     "jane@example.com",
		Otp:       "031415",
		ExpiresAt: time.Now().Add(5 * time.Minute),
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO login_otps").
		WithArgs(otp.ID, otp.Email, otp.Otp, otp.ExpiresAt, otp.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), otp)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginOtpRepo_GetLatestByEmailAndOtp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLoginOtpRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM login_otps WHERE email .+ ORDER BY created_at DESC LIMIT 1").
		WithArgs("jane@example.com", "031415").
		WillReturnRows(pgxmock.NewRows(otpColumns()).AddRow(
			id, "jane@example.com", "031415", now.Add(5*time.Minute), now,
		))

	result, err := repo.GetLatestByEmailAndOtp(context.Background(), "jane@example.com", "031415")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, id, result.ID)
	assert.Equal(t, "031415", result.Otp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginOtpRepo_GetLatestByEmailAndOtp_NoMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLoginOtpRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM login_otps WHERE email").
		WithArgs("jane@example.com", "000000").
		WillReturnRows(pgxmock.NewRows(otpColumns()))

	result, err := repo.GetLatestByEmailAndOtp(context.Background(), "jane@example.com", "000000")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginOtpRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLoginOtpRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM login_otps WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginOtpRepo_DeleteByEmailAndOtp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLoginOtpRepo(mock)

	mock.ExpectExec("DELETE FROM login_otps WHERE email").
		WithArgs("jane@example.com", "772001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.DeleteByEmailAndOtp(context.Background(), "jane@example.com", "772001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
