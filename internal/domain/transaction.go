package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType enumerates all ledger transaction types.
type TransactionType string

const (
	TxDepositCredit    TransactionType = "deposit_credit"
	TxWithdrawalPayout TransactionType = "withdrawal_payout"
	TxAdjust           TransactionType = "adjust"
	TxTournamentEntry  TransactionType = "tournament_entry"
	TxPrizePayout      TransactionType = "prize_payout"
	TxShopRedemption   TransactionType = "shop_redemption"
)

// TransactionStatus tags a ledger entry. Only approved entries count toward
// the wallet balance.
type TransactionStatus string

const (
	TxStatusPending  TransactionStatus = "pending"
	TxStatusApproved TransactionStatus = "approved"
	TxStatusRejected TransactionStatus = "rejected"
)

// Transaction represents a ledger_transactions row. The ledger is
// append-only: corrections are new offsetting entries, never edits.
//
// Amount is signed centi-ZC: positive credits, negative debits.
type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Type         TransactionType   `json:"type"`
	Amount       int64             `json:"amount"`
	Status       TransactionStatus `json:"status"`
	BalanceAfter int64             `json:"balance_after"`
	Reference    *string           `json:"reference,omitempty"`
	Reason       *string           `json:"reason,omitempty"`
	CreatedBy    *uuid.UUID        `json:"created_by,omitempty"`
	Metadata     json.RawMessage   `json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
}

// PostEntryParams is the input to the atomic PostEntry operation.
type PostEntryParams struct {
	UserID        uuid.UUID
	Type          TransactionType
	Amount        int64 // signed delta applied to the wallet
	Reference     *string
	Reason        *string
	CreatedBy     *uuid.UUID
	AllowNegative bool
	Metadata      json.RawMessage
}
