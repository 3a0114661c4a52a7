//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/zarena/platform/test/integration/testutil"
)

func TestBalanceReflectsLedger(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	env.DirectCredit(userID, 50_000) // 500.00 ZC

	resp := env.AuthGET("/wallet/balance", token)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var balance struct {
		Balance       int64   `json:"balance"`
		BalanceZC     string  `json:"balance_zc"`
		EquivalentPKR float64 `json:"equivalent_pkr"`
		RatePKR       float64 `json:"rate_pkr"`
	}
	testutil.DecodeJSON(t, resp, &balance)
	if balance.Balance != 50_000 {
		t.Errorf("expected balance 50000, got %d", balance.Balance)
	}
	if balance.BalanceZC != "500.00" {
		t.Errorf("expected 500.00 ZC, got %s", balance.BalanceZC)
	}
	// no rate configured: fallback of 90 PKR per ZC
	if balance.EquivalentPKR != 45_000 {
		t.Errorf("expected 45000 PKR equivalent, got %f", balance.EquivalentPKR)
	}
}

func TestTransactionHistoryPagination(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	for i := 0; i < 5; i++ {
		env.DirectCredit(userID, 1_000)
	}

	resp := env.AuthGET("/wallet/transactions?limit=3", token)
	testutil.AssertStatus(t, resp, http.StatusOK)

	var page struct {
		Transactions []struct {
			Amount       int64 `json:"amount"`
			BalanceAfter int64 `json:"balance_after"`
		} `json:"transactions"`
		NextCursor *string `json:"next_cursor"`
	}
	testutil.DecodeJSON(t, resp, &page)
	if len(page.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(page.Transactions))
	}
	if page.NextCursor == nil {
		t.Fatal("expected a next cursor with more rows available")
	}

	resp = env.AuthGET("/wallet/transactions?limit=3&cursor="+*page.NextCursor, token)
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.DecodeJSON(t, resp, &page)
	if len(page.Transactions) != 2 {
		t.Errorf("expected 2 remaining transactions, got %d", len(page.Transactions))
	}
}

func submitDeposit(env *testutil.TestEnv, token, amountPKR string) *http.Response {
	return env.AuthPOST("/requests/deposits", map[string]interface{}{
		"amount_pkr": amountPKR,
		"sender": map[string]string{
			"bank_name":      "HBL",
			"account_number": "12345678901234",
			"holder_name":    "Ali Raza",
		},
	}, token)
}

func TestDepositApprovalFlow(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	resp := submitDeposit(env, token, "9000.00")
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var req struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	testutil.DecodeJSON(t, resp, &req)
	if req.Status != "submitted" {
		t.Fatalf("expected submitted, got %s", req.Status)
	}
	// nothing credited yet
	testutil.AssertBalance(t, env, userID, 0)

	// admin sees it in the pending queue
	resp = env.AuthGET("/admin/requests/deposits", adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var pending []struct {
		ID   uuid.UUID `json:"id"`
		Risk struct {
			Level string   `json:"level"`
			Flags []string `json:"flags"`
		} `json:"risk"`
	}
	testutil.DecodeJSON(t, resp, &pending)
	if len(pending) != 1 || pending[0].ID != req.ID {
		t.Fatalf("expected request %s in pending queue, got %v", req.ID, pending)
	}
	// a brand-new account's first deposit is scored for review priority
	if pending[0].Risk.Level == "" {
		t.Error("expected a risk level on the queued request")
	}
	if !slices.Contains(pending[0].Risk.Flags, "first_request") {
		t.Errorf("expected first_request flag, got %v", pending[0].Risk.Flags)
	}

	// approve with an explicit credit (9000 PKR at 90 = 100 ZC)
	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/deposits/%s/approve", req.ID),
		map[string]string{"credited_zc": "100.00"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	testutil.AssertBalance(t, env, userID, 10_000)
	if n := testutil.CountTransactions(t, env, userID); n != 1 {
		t.Errorf("expected 1 ledger entry, got %d", n)
	}

	// second approval loses: request already processed
	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/deposits/%s/approve", req.ID),
		map[string]string{"credited_zc": "100.00"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertBalance(t, env, userID, 10_000)
}

// Two admins race to approve the same deposit. The row lock plus the
// conditional status flip let exactly one win; the loser gets a conflict and
// the wallet is credited once.
func TestConcurrentApprovalsCreditOnce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	resp := submitDeposit(env, token, "9000.00")
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &req)

	url := fmt.Sprintf("%s/admin/requests/deposits/%s/approve", env.Server.URL, req.ID)

	start := make(chan struct{})
	codes := make(chan int, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			httpReq, err := http.NewRequest(http.MethodPost, url, strings.NewReader(`{"credited_zc":"100.00"}`))
			if err != nil {
				errs <- err
				return
			}
			httpReq.Header.Set("Content-Type", "application/json")
			httpReq.Header.Set("Authorization", "Bearer "+adminToken)
			r, err := http.DefaultClient.Do(httpReq)
			if err != nil {
				errs <- err
				return
			}
			r.Body.Close()
			codes <- r.StatusCode
		}()
	}
	close(start)

	var got []int
	for len(got) < 2 {
		select {
		case code := <-codes:
			got = append(got, code)
		case err := <-errs:
			t.Fatal(err)
		}
	}
	slices.Sort(got)
	if got[0] != http.StatusOK || got[1] != http.StatusConflict {
		t.Fatalf("expected one 200 and one 409, got %v", got)
	}

	testutil.AssertBalance(t, env, userID, 10_000)
	if n := testutil.CountTransactions(t, env, userID); n != 1 {
		t.Errorf("expected exactly one ledger entry, got %d", n)
	}
}

func TestDepositRejectionLeavesBalanceUntouched(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	resp := submitDeposit(env, token, "9000.00")
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &req)

	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/deposits/%s/reject", req.ID),
		map[string]string{"reason": "no matching bank transfer found"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	testutil.AssertBalance(t, env, userID, 0)
	if n := testutil.CountTransactions(t, env, userID); n != 0 {
		t.Errorf("expected no ledger entries, got %d", n)
	}

	// rejection is terminal; approval afterwards conflicts
	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/deposits/%s/approve", req.ID),
		map[string]string{"credited_zc": "100.00"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusConflict)
}

func TestDepositBelowMinimumRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	resp := submitDeposit(env, token, "100.00") // below the 180 PKR floor
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

func submitWithdrawal(env *testutil.TestEnv, token, amountZC string) *http.Response {
	return env.AuthPOST("/requests/withdrawals", map[string]interface{}{
		"amount_zc": amountZC,
		"recipient": map[string]string{
			"bank_name":      "Meezan",
			"account_number": "98765432109876",
			"holder_name":    "Ali Raza",
		},
	}, token)
}

func TestWithdrawalPayoutFlow(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	env.DirectCredit(userID, 50_000)

	resp := submitWithdrawal(env, token, "200.00")
	testutil.AssertStatus(t, resp, http.StatusCreated)
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &req)

	// submission reserves nothing
	testutil.AssertBalance(t, env, userID, 50_000)

	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/withdrawals/%s/payout", req.ID), nil, adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)
	testutil.AssertBalance(t, env, userID, 30_000)

	// double payout conflicts and debits nothing further
	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/withdrawals/%s/payout", req.ID), nil, adminToken)
	testutil.AssertStatus(t, resp, http.StatusConflict)
	testutil.AssertBalance(t, env, userID, 30_000)
}

func TestWithdrawalInsufficientBalance(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	env.DirectCredit(userID, 5_000) // 50 ZC

	resp := submitWithdrawal(env, token, "200.00")
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "INSUFFICIENT_BALANCE")
}

func TestWithdrawalRejectIsRefundFree(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	env.DirectCredit(userID, 50_000)

	resp := submitWithdrawal(env, token, "200.00")
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &req)

	resp = env.AuthPOST(fmt.Sprintf("/admin/requests/withdrawals/%s/reject", req.ID),
		map[string]string{"reason": "bank details do not match"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)

	// nothing was reserved, so nothing moves
	testutil.AssertBalance(t, env, userID, 50_000)
}

func TestRequestOwnership(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	otherToken, _ := env.RegisterPlayer("sara_khan", "sara@example.com", "password123")

	resp := submitDeposit(env, token, "9000.00")
	var req struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &req)

	// the owner can read it
	resp = env.AuthGET(fmt.Sprintf("/requests/deposits/%s", req.ID), token)
	testutil.AssertStatus(t, resp, http.StatusOK)

	// another player gets a 404, not a 403, to avoid existence leaks
	resp = env.AuthGET(fmt.Sprintf("/requests/deposits/%s", req.ID), otherToken)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestManualAdjustAndAudit(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, userID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")
	adminToken, _ := env.StaffUser("admin")

	resp := env.AuthPOST("/admin/wallets/adjust", map[string]interface{}{
		"user_id": userID,
		"amount":  "150.00",
		"reason":  "goodwill credit for outage",
	}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusCreated)
	testutil.AssertBalance(t, env, userID, 15_000)

	// negative adjustment below zero is blocked without the override
	resp = env.AuthPOST("/admin/wallets/adjust", map[string]interface{}{
		"user_id": userID,
		"amount":  "-200.00",
		"reason":  "clawback",
	}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "NEGATIVE_BALANCE_BLOCKED")

	// with the override it goes through
	resp = env.AuthPOST("/admin/wallets/adjust", map[string]interface{}{
		"user_id":        userID,
		"amount":         "-200.00",
		"reason":         "clawback",
		"allow_negative": true,
	}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusCreated)
	testutil.AssertBalance(t, env, userID, -5_000)

	// the audit walks the ledger and confirms the balance matches
	resp = env.AuthGET(fmt.Sprintf("/admin/wallets/%s/audit", userID), adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var audit struct {
		AllPassed bool `json:"all_passed"`
	}
	testutil.DecodeJSON(t, resp, &audit)
	if !audit.AllPassed {
		t.Error("expected all audit invariants to pass after engine-only writes")
	}
}
