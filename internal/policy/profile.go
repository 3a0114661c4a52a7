package policy

import "github.com/zarena/platform/internal/domain"

// ProfileStatus holds the results of profile completeness checks.
type ProfileStatus struct {
	HasDisplayName bool `json:"has_display_name"`
	HasContact     bool `json:"has_contact"`
}

// EvaluateProfilePolicy checks whether an account may enter paid flows
// (tournament registration, shop redemption). This is a blocking policy —
// all checks must pass.
func EvaluateProfilePolicy(user *domain.User) ProfileStatus {
	return ProfileStatus{
		HasDisplayName: user.DisplayName != "",
		HasContact:     user.WhatsApp != "",
	}
}

// IsComplete returns true if all profile checks pass.
func (s ProfileStatus) IsComplete() bool {
	return s.HasDisplayName && s.HasContact
}
