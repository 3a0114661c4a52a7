package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
)

// QueuedDeposit is one admin review queue entry: the pending request plus a
// review-priority risk computed from the submitter's history.
type QueuedDeposit struct {
	domain.DepositRequest
	Risk policy.RequestRiskResult `json:"risk"`
}

// QueuedWithdrawal is the withdrawal counterpart of QueuedDeposit.
type QueuedWithdrawal struct {
	domain.WithdrawalRequest
	Risk policy.RequestRiskResult `json:"risk"`
}

// PendingDeposits returns the admin review queue, oldest first, each entry
// risk-scored against the submitter's deposit history.
func (s *Service) PendingDeposits(ctx context.Context, limit int) ([]QueuedDeposit, error) {
	reqs, err := s.deposits.ListByStatus(ctx, s.db, domain.RequestSubmitted, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}

	sc := s.newQueueScorer()
	queue := make([]QueuedDeposit, 0, len(reqs))
	for _, req := range reqs {
		risk, err := sc.depositRisk(ctx, req.UserID, req.AmountPKR)
		if err != nil {
			return nil, err
		}
		queue = append(queue, QueuedDeposit{DepositRequest: req, Risk: risk})
	}
	return queue, nil
}

// PendingWithdrawals returns the admin review queue, oldest first, each entry
// risk-scored against the submitter's withdrawal history.
func (s *Service) PendingWithdrawals(ctx context.Context, limit int) ([]QueuedWithdrawal, error) {
	reqs, err := s.withdrawals.ListByStatus(ctx, s.db, domain.RequestSubmitted, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}

	sc := s.newQueueScorer()
	queue := make([]QueuedWithdrawal, 0, len(reqs))
	for _, req := range reqs {
		risk, err := sc.withdrawalRisk(ctx, req.UserID, req.AmountZC)
		if err != nil {
			return nil, err
		}
		queue = append(queue, QueuedWithdrawal{WithdrawalRequest: req, Risk: risk})
	}
	return queue, nil
}

// queueScorer memoizes per-user lookups within one queue listing, so a user
// with several pending requests costs one stats query and one user fetch.
type queueScorer struct {
	svc     *Service
	ageDays map[uuid.UUID]int
	stats   map[uuid.UUID]domain.RequestReviewStats
}

func (s *Service) newQueueScorer() *queueScorer {
	return &queueScorer{
		svc:     s,
		ageDays: make(map[uuid.UUID]int),
		stats:   make(map[uuid.UUID]domain.RequestReviewStats),
	}
}

func (sc *queueScorer) depositRisk(ctx context.Context, userID uuid.UUID, amount int64) (policy.RequestRiskResult, error) {
	return sc.risk(ctx, userID, amount, sc.svc.deposits.ReviewStats)
}

func (sc *queueScorer) withdrawalRisk(ctx context.Context, userID uuid.UUID, amount int64) (policy.RequestRiskResult, error) {
	return sc.risk(ctx, userID, amount, sc.svc.withdrawals.ReviewStats)
}

func (sc *queueScorer) risk(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	statsFn func(context.Context, repository.DBTX, uuid.UUID) (domain.RequestReviewStats, error),
) (policy.RequestRiskResult, error) {
	stats, ok := sc.stats[userID]
	if !ok {
		var err error
		stats, err = statsFn(ctx, sc.svc.db, userID)
		if err != nil {
			return policy.RequestRiskResult{}, domain.ErrInternal("request review stats", err)
		}
		sc.stats[userID] = stats
	}

	age, err := sc.accountAge(ctx, userID)
	if err != nil {
		return policy.RequestRiskResult{}, err
	}

	return policy.EvaluateRequestRisk(policy.RequestRiskSignals{
		PendingRequests:  stats.Pending,
		RecentRejections: stats.RejectedLast30Days,
		AccountAgeDays:   age,
		FirstRequest:     stats.ApprovedCount == 0,
		LargeAmount:      stats.ApprovedCount > 0 && amount > 2*stats.ApprovedAvg,
	}), nil
}

func (sc *queueScorer) accountAge(ctx context.Context, userID uuid.UUID) (int, error) {
	if age, ok := sc.ageDays[userID]; ok {
		return age, nil
	}
	user, err := sc.svc.users.FindByID(ctx, sc.svc.db, userID)
	if err != nil {
		return 0, domain.ErrInternal("load request submitter", err)
	}
	age := 0
	if user != nil {
		age = int(time.Since(user.CreatedAt).Hours() / 24)
	}
	sc.ageDays[userID] = age
	return age, nil
}
