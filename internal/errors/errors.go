// Package errors provides custom error types for the Thaifolio ledger and API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid passphrase", StatusCode: http.StatusUnauthorized}
	ErrAuthDisabled       = &AppError{Code: "AUTH_DISABLED", Message: "Owner authentication is not configured", StatusCode: http.StatusNotFound}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrRateLimited    = &AppError{Code: "RATE_LIMITED", Message: "Too many requests, please try again later", StatusCode: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Ledger errors. Every one of these leaves the asset list unchanged.
var (
	ErrInsufficientFunds     = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient funds", StatusCode: http.StatusBadRequest}
	ErrWalletNotFound        = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found", StatusCode: http.StatusNotFound}
	ErrAssetNotFound         = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrInvalidQuantity       = &AppError{Code: "INVALID_QUANTITY", Message: "Invalid quantity", StatusCode: http.StatusBadRequest}
	ErrInvalidFormat         = &AppError{Code: "INVALID_FORMAT", Message: "Invalid import format", StatusCode: http.StatusBadRequest}
	ErrMissingRequiredField  = &AppError{Code: "MISSING_REQUIRED_FIELD", Message: "A required field is missing", StatusCode: http.StatusBadRequest}
	ErrFundingSourceRequired = &AppError{Code: "FUNDING_SOURCE_REQUIRED", Message: "A funding wallet is required for this purchase", StatusCode: http.StatusBadRequest}
	ErrCurrencyMismatch      = &AppError{Code: "CURRENCY_MISMATCH", Message: "Wallet currency does not match the operation", StatusCode: http.StatusBadRequest}
)

// Gateway errors.
var (
	ErrMarketDataUnavailable = &AppError{Code: "MARKET_DATA_UNAVAILABLE", Message: "Market data service is unavailable", StatusCode: http.StatusBadGateway}
	ErrAnalysisUnavailable   = &AppError{Code: "ANALYSIS_UNAVAILABLE", Message: "Analysis service is unavailable", StatusCode: http.StatusBadGateway}
	ErrSymbolNotFound        = &AppError{Code: "SYMBOL_NOT_FOUND", Message: "Symbol not found", StatusCode: http.StatusNotFound}
)
