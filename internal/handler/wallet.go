package handler

import (
	"net/http"
	"strconv"

	"github.com/zarena/platform/internal/conversion"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// WalletHandler handles wallet balance and transaction history endpoints.
type WalletHandler struct {
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	rates        *conversion.Service
	db           repository.DBTX
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets repository.WalletRepository, transactions repository.TransactionRepository, rates *conversion.Service, db repository.DBTX) *WalletHandler {
	return &WalletHandler{wallets: wallets, transactions: transactions, rates: rates, db: db}
}

// balanceResponse is the shape of GET /wallet/balance. BalanceZC is the
// display string of the centi-ZC balance; the PKR equivalent is computed at
// the current rate, which may be the fallback.
type balanceResponse struct {
	Balance        int64   `json:"balance"`
	BalanceZC      string  `json:"balance_zc"`
	EquivalentPKR  float64 `json:"equivalent_pkr"`
	RatePKR        float64 `json:"rate_pkr"`
	RateIsFallback bool    `json:"rate_is_fallback,omitempty"`
}

// GetBalance handles GET /wallet/balance.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	wallet, err := h.wallets.FindByUserID(r.Context(), h.db, userID)
	if err != nil {
		RespondError(w, domain.ErrInternal("find wallet", err))
		return
	}
	if wallet == nil {
		RespondError(w, domain.ErrNotFound("wallet", userID.String()))
		return
	}

	quote := h.rates.CurrentRate(r.Context())
	zc := float64(wallet.Balance) / 100

	RespondJSON(w, http.StatusOK, balanceResponse{
		Balance:        wallet.Balance,
		BalanceZC:      domain.FormatAmount(wallet.Balance),
		EquivalentPKR:  conversion.ToPkr(zc, quote.Rate),
		RatePKR:        quote.Rate,
		RateIsFallback: quote.IsFallback,
	})
}

// txListResponse wraps a transaction page with its continuation cursor.
type txListResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextCursor   *string              `json:"next_cursor,omitempty"`
}

// GetTransactions handles GET /wallet/transactions with an optional status
// filter and cursor-based pagination.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var status *domain.TransactionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.TransactionStatus(s)
		status = &st
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	txs, err := h.transactions.ListByUser(r.Context(), h.db, userID, status, cursor, limit+1)
	if err != nil {
		RespondError(w, domain.ErrInternal("list transactions", err))
		return
	}

	resp := txListResponse{Transactions: txs}
	if len(txs) > limit {
		resp.Transactions = txs[:limit]
		nextID := txs[limit].ID.String()
		resp.NextCursor = &nextID
	}

	RespondJSON(w, http.StatusOK, resp)
}
