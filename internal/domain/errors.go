package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

// ErrRequestProcessed is returned when a deposit or withdrawal request is
// dispositioned a second time. The first disposition always wins.
func ErrRequestProcessed() *AppError {
	return &AppError{Code: "CONFLICT", Message: "request already processed", Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInsufficientBalance() *AppError {
	return &AppError{Code: "INSUFFICIENT_BALANCE", Message: "insufficient Z-Credit balance", Status: 400}
}

// ErrNegativeBalance is returned when a debit would take the wallet below
// zero and the caller did not set the allow-negative override.
func ErrNegativeBalance() *AppError {
	return &AppError{Code: "NEGATIVE_BALANCE_BLOCKED", Message: "operation would make balance negative", Status: 400}
}

func ErrIncompleteProfile() *AppError {
	return &AppError{Code: "INCOMPLETE_PROFILE", Message: "complete your display name and contact number first", Status: 422}
}

func ErrTournamentFull() *AppError {
	return &AppError{Code: "TOURNAMENT_FULL", Message: "tournament has no open slots", Status: 422}
}

func ErrOutOfStock() *AppError {
	return &AppError{Code: "OUT_OF_STOCK", Message: "product is out of stock", Status: 422}
}

func ErrRateLimited(msg string) *AppError {
	return &AppError{Code: "RATE_LIMITED", Message: msg, Status: 429}
}

func ErrAccountLocked(msg string) *AppError {
	return &AppError{Code: "ACCOUNT_LOCKED", Message: msg, Status: 423}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
