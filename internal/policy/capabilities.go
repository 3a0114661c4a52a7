package policy

import "github.com/zarena/platform/internal/domain"

// Capability is a named permission checked by the authorization middleware.
type Capability func(domain.Role) bool

// CanManageWallet covers deposit/withdrawal dispositions, manual adjustments
// and conversion rate changes.
func CanManageWallet(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanManageUsers covers role changes and user search.
func CanManageUsers(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanManageContent covers news and guide publishing.
func CanManageContent(role domain.Role) bool {
	return role == domain.RoleModerator || role == domain.RoleAdmin
}

// CanManageTournaments covers tournament creation and lifecycle changes.
func CanManageTournaments(role domain.Role) bool {
	return role == domain.RoleModerator || role == domain.RoleAdmin
}

// CanManageShop covers product catalog management.
func CanManageShop(role domain.Role) bool {
	return role == domain.RoleAdmin
}
