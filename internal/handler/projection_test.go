package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/projection"
)

func projectionServer(t *testing.T) (*httptest.Server, projection.Store) {
	t.Helper()
	store := projection.NewInMemoryStore()
	srv := httptest.NewServer(NewProjectionHandler(store).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func TestProjectionBalance_ServesAppliedSnapshot(t *testing.T) {
	srv, store := projectionServer(t)
	userID := uuid.New()

	err := projection.ApplyTransaction(context.Background(), store, &domain.Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         domain.TxDepositCredit,
		Amount:       50_000,
		BalanceAfter: 50_000,
	})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/projections/balance/" + userID.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got projection.BalanceProjection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, userID.String(), got.UserID)
	assert.Equal(t, int64(50_000), got.Balance)
	assert.Equal(t, "500.00", got.BalanceZC)
}

func TestProjectionBalance_CacheMissIsNotFound(t *testing.T) {
	srv, _ := projectionServer(t)

	resp, err := http.Get(srv.URL + "/projections/balance/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectionBalance_InvalidatedEntryIsNotFound(t *testing.T) {
	srv, store := projectionServer(t)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, projection.ApplyTransaction(ctx, store, &domain.Transaction{
		UserID: userID, BalanceAfter: 1_000,
	}))
	require.NoError(t, projection.InvalidateBalance(ctx, store, userID.String()))

	resp, err := http.Get(srv.URL + "/projections/balance/" + userID.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectionBalance_BadUserIDRejected(t *testing.T) {
	srv, _ := projectionServer(t)

	resp, err := http.Get(srv.URL + "/projections/balance/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
