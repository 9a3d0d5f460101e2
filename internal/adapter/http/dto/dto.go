package dto

// RegisterClientRequest is the request body for client registration.
type RegisterClientRequest struct {
	Document string `json:"document" binding:"required,min=5,max=20,digits"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Phone    string `json:"phone" binding:"required,min=7,max=20,digits"`
}

// RegisterClientResponse is the response body for successful registration.
type RegisterClientResponse struct {
	ClientID string  `json:"client_id"`
	Document string  `json:"document"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Balance  float64 `json:"balance"`
}

// LoginOtpRequest is the request body for requesting a login code.
// All three identifiers must match one client.
type LoginOtpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Document string `json:"document" binding:"required,digits"`
	Phone    string `json:"phone" binding:"required,digits"`
}

// LoginOtpResponse acknowledges the login code delivery.
type LoginOtpResponse struct {
	Message string `json:"message"`
}

// LoginConfirmRequest is the request body for confirming a login code.
type LoginConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required,len=6,digits"`
}

// LoginConfirmResponse is the response body for a successful login.
type LoginConfirmResponse struct {
	Token    string  `json:"token"`
	Expiry   int64   `json:"expiry"` // Unix timestamp
	ClientID string  `json:"client_id"`
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
}

// RechargeRequest is the request body for a wallet recharge.
type RechargeRequest struct {
	Document string  `json:"document" binding:"required,digits"`
	Phone    string  `json:"phone" binding:"required,digits"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// RechargeResponse is the response body for a successful recharge.
type RechargeResponse struct {
	ClientID        string  `json:"client_id"`
	Name            string  `json:"name"`
	RechargedAmount float64 `json:"recharged_amount"`
	NewBalance      float64 `json:"new_balance"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	ClientID string  `json:"client_id"`
	Name     string  `json:"name"`
	Document string  `json:"document"`
	Balance  float64 `json:"balance"`
}

// PaymentRequest is the request body for opening a payment session.
type PaymentRequest struct {
	Document string  `json:"document" binding:"required,digits"`
	Phone    string  `json:"phone" binding:"required,digits"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// PaymentSessionResponse is returned when a payment session is opened.
type PaymentSessionResponse struct {
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at"`
	Message   string `json:"message"`
}

// PaymentConfirmRequest is the request body for confirming a payment.
type PaymentConfirmRequest struct {
	Token string `json:"token" binding:"required,len=6,digits"`
}

// PaymentReceiptResponse is the response body for a confirmed payment.
type PaymentReceiptResponse struct {
	SessionID  string  `json:"session_id"`
	Amount     float64 `json:"amount"`
	ClientName string  `json:"client_name"`
	Status     string  `json:"status"`
}

// SessionStatusResponse is the current session projection.
type SessionStatusResponse struct {
	SessionID  string  `json:"session_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	ClientName string  `json:"client_name"`
	ExpiresAt  string  `json:"expires_at"`
	CreatedAt  string  `json:"created_at"`
}

// TransactionResponse is one ledger entry in the wallet statement.
type TransactionResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// TransactionListResponse wraps the paginated wallet statement.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
