package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
)

// SubmitWithdrawalInput holds the player's withdrawal request.
type SubmitWithdrawalInput struct {
	AmountZC  string             `json:"amount_zc"`
	Recipient domain.BankAccount `json:"recipient"`

	// From the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

// SubmitWithdrawal records a withdrawal request for admin review. The balance
// is checked at submission so obviously unfundable requests never reach the
// queue; nothing is debited until the payout.
func (s *Service) SubmitWithdrawal(ctx context.Context, userID uuid.UUID, input SubmitWithdrawalInput) (req *domain.WithdrawalRequest, retErr error) {
	idemKey := guard.SubmissionKey("withdrawal", userID, input.IdempotencyKey)
	if result := s.submissions.Check(ctx, idemKey); !result.Allowed {
		return nil, domain.ErrConflict(result.Reason)
	}
	defer func() {
		if retErr != nil {
			s.submissions.Release(idemKey)
		}
	}()

	amount, err := domain.ParseAmount(input.AmountZC)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if eval := policy.EvaluateWithdrawalAmount(s.limits, amount); !eval.Allowed {
		return nil, domain.ErrValidation(fmt.Sprintf(
			"withdrawal amount out of bounds (%s): minimum is %s ZC",
			eval.BreachedLimit, domain.FormatAmount(s.limits.WithdrawalMinZC)))
	}

	if result := s.withdrawalLimiter.Check(ctx, guard.WithdrawalKey(userID)); !result.Allowed {
		return nil, domain.ErrRateLimited(result.Reason)
	}

	recipient, err := domain.SanitizeBankAccount(input.Recipient)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if route := policy.EvaluatePayoutRoute(s.routing, recipient.BankName); !route.Allowed {
		return nil, domain.ErrValidation(route.Reason)
	}

	wallet, err := s.wallets.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID.String())
	}
	if wallet.Balance < amount {
		return nil, domain.ErrInsufficientBalance()
	}

	req = &domain.WithdrawalRequest{
		ID:        uuid.New(),
		UserID:    userID,
		AmountZC:  amount,
		Recipient: recipient,
		Status:    domain.RequestSubmitted,
	}

	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.withdrawals.Insert(ctx, db, req); err != nil {
			return domain.ErrInternal("create withdrawal request", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewRequestSubmittedEvent("withdrawal", req.ID, userID, amount))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal request submitted",
		"request_id", req.ID, "user_id", userID, "amount_zc", domain.FormatAmount(amount))
	return req, nil
}

// PayoutWithdrawal marks a request paid and debits the wallet in one
// transaction. The balance is re-checked under the wallet lock: it may have
// dropped since submission, and a payout never drives the balance negative.
func (s *Service) PayoutWithdrawal(ctx context.Context, adminID, requestID uuid.UUID) (*domain.WithdrawalRequest, error) {
	var paid *domain.WithdrawalRequest
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		req, err := s.withdrawals.GetForUpdate(ctx, db, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound("withdrawal request", requestID.String())
		}
		if req.Status.Terminal() {
			return domain.ErrRequestProcessed()
		}

		entry, _, err := s.engine.PayoutWithdrawal(ctx, db, ledger.PayoutWithdrawalParams{
			UserID:    req.UserID,
			Amount:    req.AmountZC,
			RequestID: req.ID,
			AdminID:   adminID,
		})
		if err != nil {
			return err
		}

		rows, err := s.withdrawals.MarkPaid(ctx, db, req.ID, entry.ID, adminID)
		if err != nil {
			return domain.ErrInternal("mark withdrawal paid", err)
		}
		if rows == 0 {
			return domain.ErrRequestProcessed()
		}

		if err := s.outbox.Insert(ctx, db, domain.NewRequestDisposedEvent(
			"withdrawal", req.ID, req.UserID, adminID, domain.RequestPaid)); err != nil {
			return domain.ErrInternal("insert disposed event", err)
		}

		req.Status = domain.RequestPaid
		req.TransactionID = &entry.ID
		req.ReviewedBy = &adminID
		paid = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal request paid",
		"request_id", paid.ID, "user_id", paid.UserID,
		"amount_zc", domain.FormatAmount(paid.AmountZC), "reviewed_by", adminID)
	return paid, nil
}

// RejectWithdrawal moves a submitted request to rejected with a mandatory
// reason. No balance movement: nothing was reserved at submission.
func (s *Service) RejectWithdrawal(ctx context.Context, adminID, requestID uuid.UUID, reason string) (*domain.WithdrawalRequest, error) {
	reason = domain.SanitizeText(reason)
	if reason == "" {
		return nil, domain.ErrValidation("rejection reason is required")
	}

	var rejected *domain.WithdrawalRequest
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		req, err := s.withdrawals.GetForUpdate(ctx, db, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound("withdrawal request", requestID.String())
		}
		if req.Status.Terminal() {
			return domain.ErrRequestProcessed()
		}

		rows, err := s.withdrawals.MarkRejected(ctx, db, requestID, adminID, reason)
		if err != nil {
			return domain.ErrInternal("mark withdrawal rejected", err)
		}
		if rows == 0 {
			return domain.ErrRequestProcessed()
		}

		if err := s.outbox.Insert(ctx, db, domain.NewRequestDisposedEvent(
			"withdrawal", req.ID, req.UserID, adminID, domain.RequestRejected)); err != nil {
			return domain.ErrInternal("insert disposed event", err)
		}

		req.Status = domain.RequestRejected
		req.RejectionReason = &reason
		req.ReviewedBy = &adminID
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal request rejected",
		"request_id", requestID, "reviewed_by", adminID, "reason", reason)
	return rejected, nil
}

// ListUserWithdrawals returns the player's own withdrawal history.
func (s *Service) ListUserWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error) {
	return s.withdrawals.ListByUser(ctx, s.db, userID, normalizeLimit(limit))
}

// GetWithdrawal returns one request; players may only see their own.
func (s *Service) GetWithdrawal(ctx context.Context, requestID uuid.UUID) (*domain.WithdrawalRequest, error) {
	req, err := s.withdrawals.FindByID(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound("withdrawal request", requestID.String())
	}
	return req, nil
}
