package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zarena/platform/internal/domain"
)

func TestCapabilities_WalletManagementIsAdminOnly(t *testing.T) {
	assert.True(t, CanManageWallet(domain.RoleAdmin))
	assert.False(t, CanManageWallet(domain.RoleModerator))
	assert.False(t, CanManageWallet(domain.RolePlayer))
}

func TestCapabilities_ContentAllowsModerators(t *testing.T) {
	assert.True(t, CanManageContent(domain.RoleAdmin))
	assert.True(t, CanManageContent(domain.RoleModerator))
	assert.False(t, CanManageContent(domain.RolePlayer))
}

func TestCapabilities_TournamentsAllowModerators(t *testing.T) {
	assert.True(t, CanManageTournaments(domain.RoleModerator))
	assert.False(t, CanManageTournaments(domain.RolePlayer))
}

func TestCapabilities_UsersAndShopAreAdminOnly(t *testing.T) {
	assert.False(t, CanManageUsers(domain.RoleModerator))
	assert.False(t, CanManageShop(domain.RoleModerator))
	assert.True(t, CanManageUsers(domain.RoleAdmin))
	assert.True(t, CanManageShop(domain.RoleAdmin))
}

func TestEvaluateDepositAmount_AllowsAtMinimum(t *testing.T) {
	result := EvaluateDepositAmount(DefaultSubmissionLimits(), 18_000)
	assert.True(t, result.Allowed)
}

func TestEvaluateDepositAmount_BlocksBelowMinimum(t *testing.T) {
	result := EvaluateDepositAmount(DefaultSubmissionLimits(), 17_999)
	assert.False(t, result.Allowed)
	assert.Equal(t, "deposit_min", result.BreachedLimit)
	assert.Equal(t, int64(18_000), result.LimitValue)
}

func TestEvaluateDepositAmount_BlocksOverMaximum(t *testing.T) {
	policy := DefaultSubmissionLimits()
	policy.DepositMaxPKR = 1_000_000
	result := EvaluateDepositAmount(policy, 1_000_001)
	assert.False(t, result.Allowed)
	assert.Equal(t, "deposit_max", result.BreachedLimit)
}

func TestEvaluateWithdrawalAmount_AllowsAtMinimum(t *testing.T) {
	result := EvaluateWithdrawalAmount(DefaultSubmissionLimits(), 10_000)
	assert.True(t, result.Allowed)
}

func TestEvaluateWithdrawalAmount_BlocksBelowMinimum(t *testing.T) {
	result := EvaluateWithdrawalAmount(DefaultSubmissionLimits(), 9_999)
	assert.False(t, result.Allowed)
	assert.Equal(t, "withdrawal_min", result.BreachedLimit)
}

func TestEvaluateProfilePolicy_CompleteProfile(t *testing.T) {
	user := &domain.User{DisplayName: "Raze", WhatsApp: "+923001234567"}
	assert.True(t, EvaluateProfilePolicy(user).IsComplete())
}

func TestEvaluateProfilePolicy_MissingContactBlocks(t *testing.T) {
	user := &domain.User{DisplayName: "Raze"}
	status := EvaluateProfilePolicy(user)
	assert.False(t, status.IsComplete())
	assert.True(t, status.HasDisplayName)
	assert.False(t, status.HasContact)
}

func TestEvaluatePayoutRoute_DefaultAllowsAll(t *testing.T) {
	result := EvaluatePayoutRoute(DefaultPayoutRoutingPolicy(), "Meezan Bank")
	assert.True(t, result.Allowed)
}

func TestEvaluatePayoutRoute_BlockedBankWins(t *testing.T) {
	policy := PayoutRoutingPolicy{BlockedBanks: []string{"Shady Bank"}}
	result := EvaluatePayoutRoute(policy, "shady bank")
	assert.False(t, result.Allowed)
}

func TestEvaluatePayoutRoute_AllowlistExcludesOthers(t *testing.T) {
	policy := PayoutRoutingPolicy{AllowedBanks: []string{"HBL", "Meezan Bank"}}
	assert.True(t, EvaluatePayoutRoute(policy, "hbl").Allowed)
	assert.False(t, EvaluatePayoutRoute(policy, "UBL").Allowed)
}

func TestEvaluateRequestRisk_CleanHistoryIsLow(t *testing.T) {
	result := EvaluateRequestRisk(RequestRiskSignals{AccountAgeDays: 200})
	assert.Equal(t, RiskLow, result.Level)
}

func TestEvaluateRequestRisk_NewAccountLargeFirstRequestIsHigh(t *testing.T) {
	result := EvaluateRequestRisk(RequestRiskSignals{
		AccountAgeDays: 0,
		FirstRequest:   true,
		LargeAmount:    true,
		PendingRequests: 4,
	})
	assert.Equal(t, RiskHigh, result.Level)
	assert.Contains(t, result.Flags, "new_account")
	assert.Contains(t, result.Flags, "large_amount")
}

func TestEvaluateRequestRisk_PriorRejectionIsMedium(t *testing.T) {
	result := EvaluateRequestRisk(RequestRiskSignals{
		AccountAgeDays:   90,
		RecentRejections: 1,
		LargeAmount:      true,
	})
	assert.Equal(t, RiskMedium, result.Level)
}
