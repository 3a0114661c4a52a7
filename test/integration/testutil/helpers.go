//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPlayer creates a new player account and returns the auth token and user ID.
func (env *TestEnv) RegisterPlayer(username, email, password string) (token string, userID uuid.UUID) {
	env.t.Helper()
	resp := env.POST("/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("RegisterPlayer: expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("RegisterPlayer: decode: %v", err)
	}
	return result.Token, result.User.ID
}

// LoginPlayer authenticates by username or email and returns the auth token.
func (env *TestEnv) LoginPlayer(identifier, password string) string {
	env.t.Helper()
	resp := env.POST("/auth/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("LoginPlayer: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("LoginPlayer: decode: %v", err)
	}
	return result.Token
}

// CompleteProfile fills in the display name and contact number so the
// account passes the paid-tournament profile gate.
func (env *TestEnv) CompleteProfile(token string) {
	env.t.Helper()
	resp := env.AuthPATCH("/users/me", map[string]string{
		"display_name": "Test Player",
		"whatsapp":     "+923001234567",
	}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("CompleteProfile: expected 200, got %d", resp.StatusCode)
	}
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("POST", path, body, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	return env.do("GET", path, nil, token)
}

// AuthPOST performs an authenticated POST request.
func (env *TestEnv) AuthPOST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("POST", path, body, token)
}

// AuthPATCH performs an authenticated PATCH request.
func (env *TestEnv) AuthPATCH(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("PATCH", path, body, token)
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("PUT", path, body, token)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	return env.do("DELETE", path, nil, token)
}

// OPTIONS performs an OPTIONS request.
func (env *TestEnv) OPTIONS(path string) *http.Response {
	env.t.Helper()
	return env.do("OPTIONS", path, nil, "")
}

func (env *TestEnv) do(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// DirectCredit credits a wallet directly through the ledger tables, the same
// shape the engine writes (balance update + entry + outbox in one tx). Used
// to fund wallets without going through the deposit approval flow.
func (env *TestEnv) DirectCredit(userID uuid.UUID, amount int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := env.Pool.Begin(ctx)
	if err != nil {
		env.t.Fatalf("DirectCredit: begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SELECT user_id FROM wallets WHERE user_id = $1 FOR UPDATE", userID)
	if err != nil {
		env.t.Fatalf("DirectCredit: lock: %v", err)
	}

	var balanceAfter int64
	err = tx.QueryRow(ctx,
		"UPDATE wallets SET balance = balance + $2, updated_at = now() WHERE user_id = $1 RETURNING balance",
		userID, amount).Scan(&balanceAfter)
	if err != nil {
		env.t.Fatalf("DirectCredit: update balance: %v", err)
	}

	reason := "test funding"
	_, err = tx.Exec(ctx, `
		INSERT INTO ledger_transactions (user_id, type, amount, status, balance_after, reason, metadata)
		VALUES ($1, 'adjust', $2, 'approved', $3, $4, '{}')`,
		userID, amount, balanceAfter, reason)
	if err != nil {
		env.t.Fatalf("DirectCredit: insert tx: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO event_outbox (event_id, aggregate_type, aggregate_id, event_type, partition_key, headers, payload, occurred_at)
		VALUES ($1, 'wallet', $2, 'zarena.wallet.transaction_posted', $2, '{}', '{}', now())`,
		uuid.New(), userID.String())
	if err != nil {
		env.t.Fatalf("DirectCredit: insert outbox: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		env.t.Fatalf("DirectCredit: commit: %v", err)
	}
}

// StaffUser inserts a staff account with the given role and returns a token
// and the user ID. Role changes normally flow through the admin endpoint;
// tests need one pre-existing admin to bootstrap from.
func (env *TestEnv) StaffUser(role string) (token string, userID uuid.UUID) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte("staff-password-1"), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("StaffUser: hash: %v", err)
	}

	username := fmt.Sprintf("staff_%s", uuid.New().String()[:8])
	user := &domain.User{
		Username: username,
		Email:    username + "@zarena.test",
		Role:     domain.Role(role),
	}
	err = env.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, display_name, role, whatsapp)
		VALUES ($1, $2, $3, 'Staff Member', $4, '+923009999999')
		RETURNING id`,
		user.Username, user.Email, string(hash), role).Scan(&user.ID)
	if err != nil {
		env.t.Fatalf("StaffUser: insert: %v", err)
	}

	_, err = env.Pool.Exec(ctx, "INSERT INTO wallets (user_id) VALUES ($1)", user.ID)
	if err != nil {
		env.t.Fatalf("StaffUser: wallet: %v", err)
	}

	token, err = env.JWTMgr.GenerateToken(user)
	if err != nil {
		env.t.Fatalf("StaffUser: token: %v", err)
	}
	return token, user.ID
}
