package policy

// RiskLevel classifies a wallet request for the review queue.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RequestRiskSignals holds the raw inputs for request risk evaluation.
type RequestRiskSignals struct {
	PendingRequests  int  `json:"pending_requests"`   // open requests by the same user
	RecentRejections int  `json:"recent_rejections"`  // rejections in the last 30 days
	AccountAgeDays   int  `json:"account_age_days"`   // days since registration
	FirstRequest     bool `json:"first_request"`      // no prior approved request
	LargeAmount      bool `json:"large_amount"`       // amount well above the user's average
}

// RequestRiskResult holds the evaluated risk, surfaced in the admin queue.
type RequestRiskResult struct {
	Level RiskLevel `json:"level"`
	Score int       `json:"score"`
	Flags []string  `json:"flags,omitempty"`
}

// EvaluateRequestRisk computes a review-priority score from request signals.
func EvaluateRequestRisk(signals RequestRiskSignals) RequestRiskResult {
	var score int
	var flags []string

	if signals.PendingRequests > 3 {
		score += 25
		flags = append(flags, "many_pending")
	}

	if signals.RecentRejections > 2 {
		score += 30
		flags = append(flags, "recent_rejections")
	} else if signals.RecentRejections > 0 {
		score += 15
		flags = append(flags, "prior_rejection")
	}

	if signals.AccountAgeDays < 2 {
		score += 20
		flags = append(flags, "new_account")
	}

	if signals.FirstRequest {
		score += 10
		flags = append(flags, "first_request")
	}

	if signals.LargeAmount {
		score += 25
		flags = append(flags, "large_amount")
	}

	level := RiskLow
	if score >= 60 {
		level = RiskHigh
	} else if score >= 30 {
		level = RiskMedium
	}

	return RequestRiskResult{Level: level, Score: score, Flags: flags}
}
