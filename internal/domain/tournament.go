package domain

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus tracks the tournament publishing lifecycle.
type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentOpen      TournamentStatus = "open"
	TournamentLive      TournamentStatus = "live"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

// Tournament represents a tournaments row. EntryFee and PrizePool are in
// centi-ZC; EntryFee zero means a free tournament.
type Tournament struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Game        string           `json:"game"`
	Description string           `json:"description,omitempty"`
	CoverURL    *string          `json:"cover_url,omitempty"`
	EntryFee    int64            `json:"entry_fee"`
	PrizePool   int64            `json:"prize_pool"`
	Slots       int              `json:"slots"`
	Status      TournamentStatus `json:"status"`
	StartsAt    time.Time        `json:"starts_at"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Registration represents a tournament_registrations row. It is created in
// the same database transaction as the entry-fee debit; the two never exist
// without each other.
type Registration struct {
	ID            uuid.UUID  `json:"id"`
	TournamentID  uuid.UUID  `json:"tournament_id"`
	CaptainID     uuid.UUID  `json:"captain_id"`
	TeamName      string     `json:"team_name"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"` // nil for free tournaments
	CreatedAt     time.Time  `json:"created_at"`
}
