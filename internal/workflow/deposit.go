package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
)

// SubmitDepositInput holds the player's deposit claim. AmountPKR is the
// user-entered decimal string; it is parsed server-side so the 2-decimal
// contract is enforced here, not in the client.
type SubmitDepositInput struct {
	AmountPKR     string             `json:"amount_pkr"`
	Sender        domain.BankAccount `json:"sender"`
	TransferredAt *time.Time         `json:"transferred_at,omitempty"`
	ReceiptURL    string             `json:"receipt_url,omitempty"`

	// From the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

// SubmitDeposit records a deposit claim for admin review. Nothing is
// credited here; the wallet moves only on approval.
func (s *Service) SubmitDeposit(ctx context.Context, userID uuid.UUID, input SubmitDepositInput) (req *domain.DepositRequest, retErr error) {
	idemKey := guard.SubmissionKey("deposit", userID, input.IdempotencyKey)
	if result := s.submissions.Check(ctx, idemKey); !result.Allowed {
		return nil, domain.ErrConflict(result.Reason)
	}
	defer func() {
		if retErr != nil {
			s.submissions.Release(idemKey)
		}
	}()

	amount, err := domain.ParseAmount(input.AmountPKR)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if eval := policy.EvaluateDepositAmount(s.limits, amount); !eval.Allowed {
		return nil, domain.ErrValidation(fmt.Sprintf(
			"deposit amount out of bounds (%s): minimum is %s PKR",
			eval.BreachedLimit, domain.FormatAmount(s.limits.DepositMinPKR)))
	}

	if result := s.depositLimiter.Check(ctx, guard.DepositKey(userID)); !result.Allowed {
		return nil, domain.ErrRateLimited(result.Reason)
	}

	sender, err := domain.SanitizeBankAccount(input.Sender)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	req = &domain.DepositRequest{
		ID:            uuid.New(),
		UserID:        userID,
		AmountPKR:     amount,
		Currency:      "PKR",
		Sender:        sender,
		TransferredAt: input.TransferredAt,
		Status:        domain.RequestSubmitted,
	}
	if url := strings.TrimSpace(input.ReceiptURL); url != "" {
		req.ReceiptURL = &url
	}

	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.deposits.Insert(ctx, db, req); err != nil {
			return domain.ErrInternal("create deposit request", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewRequestSubmittedEvent("deposit", req.ID, userID, amount))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit request submitted",
		"request_id", req.ID, "user_id", userID, "amount_pkr", domain.FormatAmount(amount))
	return req, nil
}

// ApproveDepositInput holds the admin's verification decision. CreditedZC is
// the explicit amount to credit; the admin decides it against the live rate,
// the server never back-computes it from the claimed PKR.
type ApproveDepositInput struct {
	RequestID  uuid.UUID `json:"request_id"`
	CreditedZC string    `json:"credited_zc"`
}

// ApproveDeposit verifies a deposit request and credits the wallet in one
// transaction. A request already out of submitted state fails with
// "request already processed" regardless of which terminal state it is in.
func (s *Service) ApproveDeposit(ctx context.Context, adminID uuid.UUID, input ApproveDepositInput) (*domain.DepositRequest, error) {
	credit, err := domain.ParseAmount(input.CreditedZC)
	if err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if credit <= 0 {
		return nil, domain.ErrValidation("credited amount must be positive")
	}

	var approved *domain.DepositRequest
	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		req, err := s.deposits.GetForUpdate(ctx, db, input.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound("deposit request", input.RequestID.String())
		}
		if req.Status.Terminal() {
			return domain.ErrRequestProcessed()
		}

		entry, _, err := s.engine.CreditDeposit(ctx, db, ledger.CreditDepositParams{
			UserID:    req.UserID,
			Amount:    credit,
			RequestID: req.ID,
			AdminID:   adminID,
		})
		if err != nil {
			return err
		}

		rows, err := s.deposits.MarkVerified(ctx, db, req.ID, credit, entry.ID, adminID)
		if err != nil {
			return domain.ErrInternal("mark deposit verified", err)
		}
		if rows == 0 {
			return domain.ErrRequestProcessed()
		}

		if err := s.outbox.Insert(ctx, db, domain.NewRequestDisposedEvent(
			"deposit", req.ID, req.UserID, adminID, domain.RequestVerified)); err != nil {
			return domain.ErrInternal("insert disposed event", err)
		}

		req.Status = domain.RequestVerified
		req.CreditedAmount = &credit
		req.TransactionID = &entry.ID
		req.ReviewedBy = &adminID
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit request verified",
		"request_id", approved.ID, "user_id", approved.UserID,
		"credited_zc", domain.FormatAmount(credit), "reviewed_by", adminID)
	return approved, nil
}

// RejectDeposit moves a submitted request to rejected. The reason is
// mandatory and shown to the player verbatim.
func (s *Service) RejectDeposit(ctx context.Context, adminID, requestID uuid.UUID, reason string) (*domain.DepositRequest, error) {
	reason = domain.SanitizeText(reason)
	if reason == "" {
		return nil, domain.ErrValidation("rejection reason is required")
	}

	var rejected *domain.DepositRequest
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		req, err := s.deposits.GetForUpdate(ctx, db, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound("deposit request", requestID.String())
		}
		if req.Status.Terminal() {
			return domain.ErrRequestProcessed()
		}

		rows, err := s.deposits.MarkRejected(ctx, db, requestID, adminID, reason)
		if err != nil {
			return domain.ErrInternal("mark deposit rejected", err)
		}
		if rows == 0 {
			return domain.ErrRequestProcessed()
		}

		if err := s.outbox.Insert(ctx, db, domain.NewRequestDisposedEvent(
			"deposit", req.ID, req.UserID, adminID, domain.RequestRejected)); err != nil {
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

	s.logger.Info("deposit request rejected",
		"request_id", requestID, "reviewed_by", adminID, "reason", reason)
	return rejected, nil
}

// ListUserDeposits returns the player's own deposit history, newest first.
func (s *Service) ListUserDeposits(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DepositRequest, error) {
	return s.deposits.ListByUser(ctx, s.db, userID, normalizeLimit(limit))
}

// GetDeposit returns one request; players may only see their own.
func (s *Service) GetDeposit(ctx context.Context, requestID uuid.UUID) (*domain.DepositRequest, error) {
	req, err := s.deposits.FindByID(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound("deposit request", requestID.String())
	}
	return req, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
