package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository/repotest"
)

type fixture struct {
	svc         *Service
	users       *repotest.FakeUserRepo
	wallets     *repotest.FakeWalletRepo
	txs         *repotest.FakeTransactionRepo
	deposits    *repotest.FakeDepositRepo
	withdrawals *repotest.FakeWithdrawalRepo
	outbox      *repotest.FakeOutboxRepo
	userID      uuid.UUID
	adminID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	wallets := repotest.NewFakeWalletRepo()
	txs := &repotest.FakeTransactionRepo{}
	deposits := repotest.NewFakeDepositRepo()
	withdrawals := repotest.NewFakeWithdrawalRepo()
	outbox := &repotest.FakeOutboxRepo{}
	users := repotest.NewFakeUserRepo()
	engine := ledger.NewEngine(wallets, txs, outbox)

	svc := NewService(Config{
		Tx:                &repotest.FakeTransactor{},
		Users:             users,
		Deposits:          deposits,
		Withdrawals:       withdrawals,
		Wallets:           wallets,
		Outbox:            outbox,
		Engine:            engine,
		DepositLimiter:    guard.NewRateLimiter(3, time.Minute),
		WithdrawalLimiter: guard.NewRateLimiter(3, time.Minute),
		Limits:            policy.DefaultSubmissionLimits(),
		Routing:           policy.DefaultPayoutRoutingPolicy(),
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	userID := uuid.New()
	wallets.Seed(userID, 0)
	return &fixture{
		svc:         svc,
		users:       users,
		wallets:     wallets,
		txs:         txs,
		deposits:    deposits,
		withdrawals: withdrawals,
		outbox:      outbox,
		userID:      userID,
		adminID:     uuid.New(),
	}
}

func validSender() domain.BankAccount {
	return domain.BankAccount{
		BankName:      "Meezan Bank",
		AccountNumber: "12345678901234",
		HolderName:    "Ali Khan",
	}
}

func TestSubmitDeposit_CreatesSubmittedRequest(t *testing.T) {
	f := newFixture(t)

	req, err := f.svc.SubmitDeposit(context.Background(), f.userID, SubmitDepositInput{
		AmountPKR: "500.00",
		Sender:    validSender(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestSubmitted, req.Status)
	assert.Equal(t, int64(50_000), req.AmountPKR)
	assert.Equal(t, "zarena.request.submitted", f.outbox.LastEventType())

	// Submission never touches the wallet.
	wallet, err := f.wallets.FindByUserID(context.Background(), nil, f.userID)
	require.NoError(t, err)
	assert.Zero(t, wallet.Balance)
}

func TestSubmitDeposit_BelowMinimumRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDeposit(context.Background(), f.userID, SubmitDepositInput{
		AmountPKR: "179.99",
		Sender:    validSender(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "180.00")
}

func TestSubmitDeposit_TooManyDecimalsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitDeposit(context.Background(), f.userID, SubmitDepositInput{
		AmountPKR: "500.123",
		Sender:    validSender(),
	})
	assert.Error(t, err)
}

func TestSubmitDeposit_FourthSubmissionRateLimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
			AmountPKR: "500", Sender: validSender(),
		})
		require.NoError(t, err)
	}

	_, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "500", Sender: validSender(),
	})
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RATE_LIMITED", appErr.Code)
}

func TestSubmitDeposit_SanitizesBankFields(t *testing.T) {
	f := newFixture(t)

	req, err := f.svc.SubmitDeposit(context.Background(), f.userID, SubmitDepositInput{
		AmountPKR: "500",
		Sender: domain.BankAccount{
			BankName:      `Meezan <script>"Bank"`,
			AccountNumber: "12345678901234",
			HolderName:    "Ali; Khan & Sons",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Meezan scriptBank", req.Sender.BankName)
	assert.Equal(t, "Ali Khan Sons", req.Sender.HolderName)
}

func TestSubmitDeposit_BadAccountNumberRejected(t *testing.T) {
	f := newFixture(t)

	sender := validSender()
	sender.AccountNumber = "1234"
	_, err := f.svc.SubmitDeposit(context.Background(), f.userID, SubmitDepositInput{
		AmountPKR: "500", Sender: sender,
	})
	assert.Error(t, err)
}

func TestApproveDeposit_CreditsAdminEnteredAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)

	// Admin credits 10 ZC, not the naive 900/90 conversion of some stale rate.
	approved, err := f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{
		RequestID: req.ID, CreditedZC: "10.00",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestVerified, approved.Status)
	require.NotNil(t, approved.CreditedAmount)
	assert.Equal(t, int64(1_000), *approved.CreditedAmount)
	require.NotNil(t, approved.TransactionID)

	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), wallet.Balance)

	// The ledger entry links back through the request's transaction_id.
	entry, err := f.txs.FindByID(ctx, nil, *approved.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxDepositCredit, entry.Type)
	require.NotNil(t, entry.Reference)
	assert.Equal(t, req.ID.String(), *entry.Reference)
}

func TestApproveDeposit_SecondDispositionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{RequestID: req.ID, CreditedZC: "10"})
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{RequestID: req.ID, CreditedZC: "10"})
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "request already processed", appErr.Message)

	// Only one credit happened.
	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), wallet.Balance)
}

func TestApproveDeposit_AfterRejectConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)

	_, err = f.svc.RejectDeposit(ctx, f.adminID, req.ID, "receipt unreadable")
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{RequestID: req.ID, CreditedZC: "10"})
	require.Error(t, err)

	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Zero(t, wallet.Balance)
}

func TestApproveDeposit_ZeroCreditRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{RequestID: req.ID, CreditedZC: "0"})
	assert.Error(t, err)
}

func TestRejectDeposit_RequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)

	_, err = f.svc.RejectDeposit(ctx, f.adminID, req.ID, "  ")
	assert.Error(t, err)

	rejected, err := f.svc.RejectDeposit(ctx, f.adminID, req.ID, "no matching transfer found")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
}

func TestSubmitWithdrawal_RequiresFundedBalance(t *testing.T) {
	f := newFixture(t)

	// Balance is zero; 100 ZC minimum is met but unfunded.
	_, err := f.svc.SubmitWithdrawal(context.Background(), f.userID, SubmitWithdrawalInput{
		AmountZC: "100", Recipient: validSender(),
	})
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)
}

func TestSubmitWithdrawal_BelowMinimumRejected(t *testing.T) {
	f := newFixture(t)
	f.wallets.Wallets[f.userID].Balance = 100_000

	_, err := f.svc.SubmitWithdrawal(context.Background(), f.userID, SubmitWithdrawalInput{
		AmountZC: "99.99", Recipient: validSender(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100.00")
}

func TestPayoutWithdrawal_DebitsAndLinksEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 50_000

	req, err := f.svc.SubmitWithdrawal(ctx, f.userID, SubmitWithdrawalInput{
		AmountZC: "300", Recipient: validSender(),
	})
	require.NoError(t, err)

	paid, err := f.svc.PayoutWithdrawal(ctx, f.adminID, req.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.RequestPaid, paid.Status)
	require.NotNil(t, paid.TransactionID)

	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), wallet.Balance)
}

func TestPayoutWithdrawal_BalanceDroppedSinceSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 50_000

	req, err := f.svc.SubmitWithdrawal(ctx, f.userID, SubmitWithdrawalInput{
		AmountZC: "300", Recipient: validSender(),
	})
	require.NoError(t, err)

	// Balance drains between submission and review.
	f.wallets.Wallets[f.userID].Balance = 10_000

	_, err = f.svc.PayoutWithdrawal(ctx, f.adminID, req.ID)
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)

	// The request stays reviewable.
	current, err := f.svc.GetWithdrawal(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestSubmitted, current.Status)
}

func TestPayoutWithdrawal_SecondDispositionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 50_000

	req, err := f.svc.SubmitWithdrawal(ctx, f.userID, SubmitWithdrawalInput{
		AmountZC: "300", Recipient: validSender(),
	})
	require.NoError(t, err)

	_, err = f.svc.PayoutWithdrawal(ctx, f.adminID, req.ID)
	require.NoError(t, err)
	_, err = f.svc.PayoutWithdrawal(ctx, f.adminID, req.ID)
	require.Error(t, err)

	// Only one debit.
	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), wallet.Balance)
}

func TestRejectWithdrawal_NoBalanceMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 50_000

	req, err := f.svc.SubmitWithdrawal(ctx, f.userID, SubmitWithdrawalInput{
		AmountZC: "300", Recipient: validSender(),
	})
	require.NoError(t, err)

	rejected, err := f.svc.RejectWithdrawal(ctx, f.adminID, req.ID, "account name mismatch")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, rejected.Status)

	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), wallet.Balance)
	assert.Empty(t, f.txs.Entries)
}

func TestManualAdjust_CreditAndDebit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 10_000

	entry, err := f.svc.ManualAdjust(ctx, f.adminID, ManualAdjustInput{
		UserID: f.userID, Amount: "50", Reason: "tournament prize correction",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), entry.Amount)
	assert.Equal(t, int64(15_000), entry.BalanceAfter)

	entry, err = f.svc.ManualAdjust(ctx, f.adminID, ManualAdjustInput{
		UserID: f.userID, Amount: "-30", Reason: "duplicate prize clawback",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3_000), entry.Amount)
	assert.Equal(t, int64(12_000), entry.BalanceAfter)
}

func TestManualAdjust_NegativeGuardAndOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Wallets[f.userID].Balance = 1_000

	_, err := f.svc.ManualAdjust(ctx, f.adminID, ManualAdjustInput{
		UserID: f.userID, Amount: "-20", Reason: "clawback",
	})
	require.Error(t, err)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NEGATIVE_BALANCE_BLOCKED", appErr.Code)

	entry, err := f.svc.ManualAdjust(ctx, f.adminID, ManualAdjustInput{
		UserID: f.userID, Amount: "-20", Reason: "clawback", AllowNegative: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-1_000), entry.BalanceAfter)
}

func TestBalanceInvariant_SumOfApprovedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "900", Sender: validSender(),
	})
	require.NoError(t, err)
	_, err = f.svc.ApproveDeposit(ctx, f.adminID, ApproveDepositInput{RequestID: req.ID, CreditedZC: "10"})
	require.NoError(t, err)

	_, err = f.svc.ManualAdjust(ctx, f.adminID, ManualAdjustInput{
		UserID: f.userID, Amount: "-4", Reason: "fee correction",
	})
	require.NoError(t, err)

	sum, err := f.txs.SumApproved(ctx, nil, f.userID)
	require.NoError(t, err)
	wallet, err := f.wallets.FindByUserID(ctx, nil, f.userID)
	require.NoError(t, err)
	assert.Equal(t, wallet.Balance, sum)
}

func TestSubmitDeposit_DuplicateIdempotencyKeyConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := SubmitDepositInput{
		AmountPKR:      "500.00",
		Sender:         validSender(),
		IdempotencyKey: "dep-abc",
	}
	_, err := f.svc.SubmitDeposit(ctx, f.userID, input)
	require.NoError(t, err)

	_, err = f.svc.SubmitDeposit(ctx, f.userID, input)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestSubmitDeposit_FailedSubmissionReleasesIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := SubmitDepositInput{
		AmountPKR:      "179.99",
		Sender:         validSender(),
		IdempotencyKey: "dep-retry",
	}
	_, err := f.svc.SubmitDeposit(ctx, f.userID, bad)
	require.Error(t, err)

	good := bad
	good.AmountPKR = "500.00"
	_, err = f.svc.SubmitDeposit(ctx, f.userID, good)
	require.NoError(t, err)
}

func (f *fixture) seedUser(createdAt time.Time) {
	f.users.Users[f.userID] = &domain.User{
		ID:        f.userID,
		Username:  "ali_raza",
		Email:     "ali@example.com",
		Role:      domain.RolePlayer,
		CreatedAt: createdAt,
	}
}

func TestPendingDeposits_NewAccountFirstRequestScoresMedium(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(time.Now())

	req, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "500.00", Sender: validSender(),
	})
	require.NoError(t, err)

	queue, err := f.svc.PendingDeposits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	assert.Equal(t, req.ID, queue[0].ID)
	assert.Equal(t, policy.RiskMedium, queue[0].Risk.Level)
	assert.Contains(t, queue[0].Risk.Flags, "new_account")
	assert.Contains(t, queue[0].Risk.Flags, "first_request")
}

func TestPendingDeposits_EstablishedUserScoresLow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(time.Now().AddDate(0, -3, 0))

	// A verified prior deposit of the same size: not a first request, not
	// large relative to history.
	prior := uuid.New()
	f.deposits.Requests[prior] = &domain.DepositRequest{
		ID: prior, UserID: f.userID, AmountPKR: 50_000,
		Status: domain.RequestVerified, CreatedAt: time.Now().AddDate(0, -1, 0),
	}

	_, err := f.svc.SubmitDeposit(ctx, f.userID, SubmitDepositInput{
		AmountPKR: "500.00", Sender: validSender(),
	})
	require.NoError(t, err)

	queue, err := f.svc.PendingDeposits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	assert.Equal(t, policy.RiskLow, queue[0].Risk.Level)
	assert.Zero(t, queue[0].Risk.Score)
	assert.Empty(t, queue[0].Risk.Flags)
}

func TestPendingWithdrawals_FlagsRejectionHistoryAndLargeAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(time.Now().AddDate(0, -3, 0))
	f.wallets.Wallets[f.userID].Balance = 100_000

	reviewedAt := time.Now().AddDate(0, 0, -5)
	rejected := uuid.New()
	f.withdrawals.Requests[rejected] = &domain.WithdrawalRequest{
		ID: rejected, UserID: f.userID, AmountZC: 20_000,
		Status: domain.RequestRejected, ReviewedAt: &reviewedAt,
		CreatedAt: reviewedAt,
	}
	paid := uuid.New()
	f.withdrawals.Requests[paid] = &domain.WithdrawalRequest{
		ID: paid, UserID: f.userID, AmountZC: 20_000,
		Status: domain.RequestPaid, CreatedAt: time.Now().AddDate(0, -1, 0),
	}

	// 500 ZC against a 200 ZC approved average triggers the large-amount flag.
	_, err := f.svc.SubmitWithdrawal(ctx, f.userID, SubmitWithdrawalInput{
		AmountZC: "500.00", Recipient: validSender(),
	})
	require.NoError(t, err)

	queue, err := f.svc.PendingWithdrawals(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	assert.Equal(t, policy.RiskMedium, queue[0].Risk.Level)
	assert.Contains(t, queue[0].Risk.Flags, "prior_rejection")
	assert.Contains(t, queue[0].Risk.Flags, "large_amount")
	assert.NotContains(t, queue[0].Risk.Flags, "first_request")
}

func TestSubmitWithdrawal_DuplicateIdempotencyKeyConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.wallets.Seed(f.userID, 100_000)

	input := SubmitWithdrawalInput{
		AmountZC:       "200.00",
		Recipient:      validSender(),
		IdempotencyKey: "wd-abc",
	}
	_, err := f.svc.SubmitWithdrawal(ctx, f.userID, input)
	require.NoError(t, err)

	_, err = f.svc.SubmitWithdrawal(ctx, f.userID, input)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}
