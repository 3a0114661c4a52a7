package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus tracks the deposit/withdrawal review lifecycle.
// submitted is the only non-terminal state; verified, paid and rejected are
// terminal and never transition again.
type RequestStatus string

const (
	RequestSubmitted RequestStatus = "submitted"
	RequestVerified  RequestStatus = "verified" // deposit approved, credit applied
	RequestPaid      RequestStatus = "paid"     // withdrawal approved, payout applied
	RequestRejected  RequestStatus = "rejected"
)

// Terminal reports whether no further transition is permitted.
func (s RequestStatus) Terminal() bool {
	return s == RequestVerified || s == RequestPaid || s == RequestRejected
}

// BankAccount holds the sender or recipient bank details on a request.
// All fields are sanitized before persistence.
type BankAccount struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	HolderName    string  `json:"holder_name"`
	IBAN          *string `json:"iban,omitempty"`
}

// DepositRequest represents a deposit_requests row: a user's claim of having
// transferred PKR, pending admin verification. AmountPKR is in paisa.
//
// CreditedAmount and TransactionID are set together with the transition to
// verified; the admin-entered credit may differ from the naive conversion.
type DepositRequest struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	AmountPKR       int64         `json:"amount_pkr"`
	Currency        string        `json:"currency"`
	Sender          BankAccount   `json:"sender"`
	TransferredAt   *time.Time    `json:"transferred_at,omitempty"`
	ReceiptURL      *string       `json:"receipt_url,omitempty"`
	Status          RequestStatus `json:"status"`
	CreditedAmount  *int64        `json:"credited_amount,omitempty"` // centi-ZC
	TransactionID   *uuid.UUID    `json:"transaction_id,omitempty"`
	ReviewedBy      *uuid.UUID    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// RequestReviewStats aggregates one side of a user's request history
// (deposits or withdrawals). The admin queue scores each pending request
// from these counts.
type RequestReviewStats struct {
	Pending            int   // open requests by the same user
	RejectedLast30Days int   // rejections reviewed in the last 30 days
	ApprovedCount      int   // lifetime approved requests
	ApprovedAvg        int64 // average approved amount, 0 when none
}

// WithdrawalRequest represents a withdrawal_requests row. AmountZC is in
// centi-ZC, always positive; the payout ledger entry negates it.
type WithdrawalRequest struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	AmountZC        int64         `json:"amount_zc"`
	Recipient       BankAccount   `json:"recipient"`
	Status          RequestStatus `json:"status"`
	TransactionID   *uuid.UUID    `json:"transaction_id,omitempty"`
	ReviewedBy      *uuid.UUID    `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
