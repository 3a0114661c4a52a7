package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the single authorization axis for the platform.
type Role string

const (
	RolePlayer    Role = "player"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RolePlayer, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a users row. The same table backs players and staff;
// the role column decides what the account may do.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	WhatsApp     string    `json:"whatsapp,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the account can enter paid tournaments.
// Tournament entry requires a display name and a reachable contact number.
func (u *User) ProfileComplete() bool {
	return u.DisplayName != "" && u.WhatsApp != ""
}

// Wallet is the precomputed balance view for one user, maintained by the
// ledger engine. Balance is in centi-ZC and always equals the sum of the
// user's approved ledger transactions.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
