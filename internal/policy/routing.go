package policy

import "strings"

// PayoutRoutingPolicy defines which banks withdrawals may be routed to.
type PayoutRoutingPolicy struct {
	AllowedBanks []string `json:"allowed_banks,omitempty"` // empty = all allowed
	BlockedBanks []string `json:"blocked_banks,omitempty"`
}

// DefaultPayoutRoutingPolicy returns a policy that allows all banks.
func DefaultPayoutRoutingPolicy() PayoutRoutingPolicy {
	return PayoutRoutingPolicy{}
}

// PayoutRouteEvaluation holds the result of a routing check.
type PayoutRouteEvaluation struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// EvaluatePayoutRoute checks if a recipient bank is allowed. Bank names are
// compared case-insensitively.
func EvaluatePayoutRoute(policy PayoutRoutingPolicy, bankName string) PayoutRouteEvaluation {
	for _, blocked := range policy.BlockedBanks {
		if strings.EqualFold(blocked, bankName) {
			return PayoutRouteEvaluation{Allowed: false, Reason: "bank blocked: " + bankName}
		}
	}

	if len(policy.AllowedBanks) > 0 {
		found := false
		for _, allowed := range policy.AllowedBanks {
			if strings.EqualFold(allowed, bankName) {
				found = true
				break
			}
		}
		if !found {
			return PayoutRouteEvaluation{Allowed: false, Reason: "bank not in allowed list: " + bankName}
		}
	}

	return PayoutRouteEvaluation{Allowed: true}
}
