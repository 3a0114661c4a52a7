//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/zarena/platform/test/integration/testutil"
)

func TestMissingOrGarbageTokenRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/wallet/balance")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, resp, "UNAUTHORIZED")

	resp = env.AuthGET("/wallet/balance", "not-a-jwt")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	// a structurally valid token signed with the wrong key
	resp = env.AuthGET("/wallet/balance",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJkZWFkYmVlZiJ9.invalid")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestPlayerCannotReachAdminRoutes(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/admin/requests/deposits"},
		{"GET", "/admin/users"},
		{"POST", "/admin/tournaments"},
		{"GET", "/admin/shop/products"},
		{"GET", "/admin/content"},
		{"PUT", "/admin/rates"},
	}
	for _, p := range paths {
		var resp *http.Response
		switch p.method {
		case "GET":
			resp = env.AuthGET(p.path, token)
		case "POST":
			resp = env.AuthPOST(p.path, map[string]string{}, token)
		case "PUT":
			resp = env.AuthPUT(p.path, map[string]string{}, token)
		}
		testutil.AssertStatus(t, resp, http.StatusForbidden)
		testutil.AssertErrorCode(t, resp, "FORBIDDEN")
	}
}

func TestModeratorCapabilitySplit(t *testing.T) {
	env := testutil.NewTestEnv(t)
	modToken, _ := env.StaffUser("moderator")

	// moderators run tournaments and content
	resp := env.AuthGET("/admin/content", modToken)
	testutil.AssertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.AuthPOST("/admin/tournaments", map[string]interface{}{
		"title": "Mod Cup", "game": "Dota 2",
		"entry_fee_zc": "0.00", "prize_zc": "0.00", "slots": 4,
	}, modToken)
	if resp.StatusCode == http.StatusForbidden {
		t.Errorf("moderator should be able to create tournaments")
	}
	resp.Body.Close()

	// but never touch money, users, the shop, or rates
	denied := []struct {
		method string
		path   string
	}{
		{"GET", "/admin/requests/withdrawals"},
		{"POST", "/admin/wallets/adjust"},
		{"GET", "/admin/users"},
		{"POST", "/admin/shop/products"},
		{"PUT", "/admin/rates"},
	}
	for _, p := range denied {
		var r *http.Response
		switch p.method {
		case "GET":
			r = env.AuthGET(p.path, modToken)
		case "POST":
			r = env.AuthPOST(p.path, map[string]string{}, modToken)
		case "PUT":
			r = env.AuthPUT(p.path, map[string]string{}, modToken)
		}
		testutil.AssertStatus(t, r, http.StatusForbidden)
		r.Body.Close()
	}
}

func TestAdminRoleChange(t *testing.T) {
	env := testutil.NewTestEnv(t)
	adminToken, adminID := env.StaffUser("admin")
	_, playerID := env.RegisterPlayer("ali_raza", "ali@example.com", "password123")

	resp := env.AuthPUT(fmt.Sprintf("/admin/users/%s/role", playerID),
		map[string]string{"role": "moderator"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var updated struct {
		Role string `json:"role"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	if updated.Role != "moderator" {
		t.Errorf("expected moderator, got %s", updated.Role)
	}

	// admins cannot demote themselves
	resp = env.AuthPUT(fmt.Sprintf("/admin/users/%s/role", adminID),
		map[string]string{"role": "player"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	resp = env.AuthPUT(fmt.Sprintf("/admin/users/%s/role", playerID),
		map[string]string{"role": "superuser"}, adminToken)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestCORSPreflight(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.OPTIONS("/auth/login")
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("expected Access-Control-Allow-Headers on preflight")
	}
}
