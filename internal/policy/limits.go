package policy

// SubmissionLimitPolicy defines the amount bounds for wallet requests.
// Amounts are in hundredths (paisa for PKR, centi-ZC for ZC); a zero max
// means unlimited.
type SubmissionLimitPolicy struct {
	DepositMinPKR   int64 `json:"deposit_min_pkr"`
	DepositMaxPKR   int64 `json:"deposit_max_pkr,omitempty"`
	WithdrawalMinZC int64 `json:"withdrawal_min_zc"`
	WithdrawalMaxZC int64 `json:"withdrawal_max_zc,omitempty"`
}

// DefaultSubmissionLimits returns the platform defaults (180 PKR minimum
// deposit, 100 ZC minimum withdrawal, no maximums).
func DefaultSubmissionLimits() SubmissionLimitPolicy {
	return SubmissionLimitPolicy{
		DepositMinPKR:   18_000,
		WithdrawalMinZC: 10_000,
	}
}

// LimitEvaluation holds the result of an amount bounds check.
type LimitEvaluation struct {
	Allowed       bool   `json:"allowed"`
	BreachedLimit string `json:"breached_limit,omitempty"`
	LimitValue    int64  `json:"limit_value,omitempty"`
	RequestedAmt  int64  `json:"requested_amount,omitempty"`
}

// EvaluateDepositAmount checks a deposit claim against the policy bounds.
func EvaluateDepositAmount(policy SubmissionLimitPolicy, amountPKR int64) LimitEvaluation {
	if amountPKR < policy.DepositMinPKR {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "deposit_min",
			LimitValue:    policy.DepositMinPKR,
			RequestedAmt:  amountPKR,
		}
	}
	if policy.DepositMaxPKR > 0 && amountPKR > policy.DepositMaxPKR {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "deposit_max",
			LimitValue:    policy.DepositMaxPKR,
			RequestedAmt:  amountPKR,
		}
	}
	return LimitEvaluation{Allowed: true}
}

// EvaluateWithdrawalAmount checks a withdrawal request against the policy bounds.
func EvaluateWithdrawalAmount(policy SubmissionLimitPolicy, amountZC int64) LimitEvaluation {
	if amountZC < policy.WithdrawalMinZC {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "withdrawal_min",
			LimitValue:    policy.WithdrawalMinZC,
			RequestedAmt:  amountZC,
		}
	}
	if policy.WithdrawalMaxZC > 0 && amountZC > policy.WithdrawalMaxZC {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "withdrawal_max",
			LimitValue:    policy.WithdrawalMaxZC,
			RequestedAmt:  amountZC,
		}
	}
	return LimitEvaluation{Allowed: true}
}
