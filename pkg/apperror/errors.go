package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Clients (CLI) ----

func ErrClientNotFound() *AppError {
	return New("CLI_001", "Client not found or the provided data does not match", http.StatusNotFound)
}

func ErrDocumentExists() *AppError {
	return New("CLI_002", "A client with this document already exists", http.StatusConflict)
}

func ErrEmailExists() *AppError {
	return New("CLI_003", "A client with this email already exists", http.StatusConflict)
}

// ---- Wallet Ledger (WLT) ----

func ErrInsufficientFunds() *AppError {
	return New("WLT_001", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("WLT_002", "Invalid amount", http.StatusBadRequest)
}

func ErrRechargeBelowMinimum(minimum string) *AppError {
	return New("WLT_003", fmt.Sprintf("Minimum recharge amount is %s", minimum), http.StatusBadRequest)
}

func ErrWalletNotFound() *AppError {
	return New("WLT_004", "Client has no wallet associated", http.StatusNotFound)
}

// ---- One-Time Codes (OTP) ----

func ErrInvalidOtp() *AppError {
	return New("OTP_001", "Invalid or expired confirmation code", http.StatusUnauthorized)
}

func ErrOtpExpired() *AppError {
	return New("OTP_002", "The confirmation code has expired. Request a new one.", http.StatusGone)
}

func ErrDeliveryFailed() *AppError {
	return New("OTP_003", "Could not deliver the confirmation code. Try again.", http.StatusBadGateway)
}

// ---- Payment Sessions (PAY) ----

func ErrSessionNotFound() *AppError {
	return New("PAY_001", "Payment session not found", http.StatusNotFound)
}

func ErrSessionAlreadyConfirmed() *AppError {
	return New("PAY_002", "This payment session was already confirmed", http.StatusConflict)
}

func ErrSessionExpired() *AppError {
	return New("PAY_003", "The payment session has expired. Request a new payment.", http.StatusGone)
}

func ErrSessionCancelled() *AppError {
	return New("PAY_004", "This payment session was cancelled", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 input validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
