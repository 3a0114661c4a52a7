// Package repotest provides in-memory repository fakes for unit testing the
// ledger engine, workflows and services without a database. Fakes ignore the
// DBTX argument; the FakeTransactor passes a nil handle through.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// FakeTransactor runs fn directly. Calls counts invocations; when BeginErr is
// set, WithinTx fails before fn runs. A returned error from fn is treated as
// a rollback: RolledBack is incremented.
type FakeTransactor struct {
	Calls      int
	RolledBack int
	BeginErr   error
}

func (t *FakeTransactor) WithinTx(ctx context.Context, fn func(db repository.DBTX) error) error {
	if t.BeginErr != nil {
		return t.BeginErr
	}
	t.Calls++
	if err := fn(nil); err != nil {
		t.RolledBack++
		return err
	}
	return nil
}

// FakeUserRepo is an in-memory UserRepository.
type FakeUserRepo struct {
	Users map[uuid.UUID]*domain.User
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{Users: make(map[uuid.UUID]*domain.User)}
}

func (r *FakeUserRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.User, error) {
	u, ok := r.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *FakeUserRepo) FindByUsername(ctx context.Context, db repository.DBTX, username string) (*domain.User, error) {
	for _, u := range r.Users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) FindByEmail(ctx context.Context, db repository.DBTX, email string) (*domain.User, error) {
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepo) Create(ctx context.Context, db repository.DBTX, user *domain.User) error {
	for _, u := range r.Users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return domain.ErrConflict("username or email already taken")
		}
	}
	cp := *user
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.Users[cp.ID] = &cp
	return nil
}

func (r *FakeUserRepo) UpdateProfile(ctx context.Context, db repository.DBTX, id uuid.UUID, displayName, whatsapp string, avatarURL *string) error {
	u, ok := r.Users[id]
	if !ok {
		return domain.ErrNotFound("user", id.String())
	}
	u.DisplayName = displayName
	u.WhatsApp = whatsapp
	if avatarURL != nil {
		u.AvatarURL = *avatarURL
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *FakeUserRepo) UpdateRole(ctx context.Context, db repository.DBTX, id uuid.UUID, role domain.Role) error {
	u, ok := r.Users[id]
	if !ok {
		return domain.ErrNotFound("user", id.String())
	}
	u.Role = role
	return nil
}

func (r *FakeUserRepo) Search(ctx context.Context, db repository.DBTX, query string, limit int) ([]domain.User, error) {
	var out []domain.User
	q := strings.ToLower(query)
	for _, u := range r.Users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// FakeWalletRepo is an in-memory WalletRepository.
type FakeWalletRepo struct {
	Wallets map[uuid.UUID]*domain.Wallet
	Locked  []uuid.UUID // records LockForUpdate order
}

func NewFakeWalletRepo() *FakeWalletRepo {
	return &FakeWalletRepo{Wallets: make(map[uuid.UUID]*domain.Wallet)}
}

// Seed creates a wallet with the given balance.
func (r *FakeWalletRepo) Seed(userID uuid.UUID, balance int64) {
	r.Wallets[userID] = &domain.Wallet{UserID: userID, Balance: balance, UpdatedAt: time.Now()}
}

func (r *FakeWalletRepo) FindByUserID(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	w, ok := r.Wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *FakeWalletRepo) Create(ctx context.Context, db repository.DBTX, userID uuid.UUID) error {
	if _, ok := r.Wallets[userID]; ok {
		return domain.ErrConflict("wallet already exists")
	}
	r.Seed(userID, 0)
	return nil
}

func (r *FakeWalletRepo) LockForUpdate(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	r.Locked = append(r.Locked, userID)
	return r.FindByUserID(ctx, db, userID)
}

func (r *FakeWalletRepo) ApplyDelta(ctx context.Context, db repository.DBTX, userID uuid.UUID, delta int64) (*domain.Wallet, error) {
	w, ok := r.Wallets[userID]
	if !ok {
		return nil, nil
	}
	w.Balance += delta
	w.UpdatedAt = time.Now()
	cp := *w
	return &cp, nil
}

// FakeTransactionRepo is an in-memory TransactionRepository.
type FakeTransactionRepo struct {
	Entries   []domain.Transaction
	InsertErr error
}

func (r *FakeTransactionRepo) Insert(ctx context.Context, db repository.DBTX, params domain.PostEntryParams, balanceAfter int64) (*domain.Transaction, error) {
	if r.InsertErr != nil {
		return nil, r.InsertErr
	}
	tx := domain.Transaction{
		ID:           uuid.New(),
		UserID:       params.UserID,
		Type:         params.Type,
		Amount:       params.Amount,
		Status:       domain.TxStatusApproved,
		BalanceAfter: balanceAfter,
		Reference:    params.Reference,
		Reason:       params.Reason,
		CreatedBy:    params.CreatedBy,
		Metadata:     params.Metadata,
		CreatedAt:    time.Now(),
	}
	r.Entries = append(r.Entries, tx)
	cp := tx
	return &cp, nil
}

func (r *FakeTransactionRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Transaction, error) {
	for i := range r.Entries {
		if r.Entries[i].ID == id {
			cp := r.Entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeTransactionRepo) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, status *domain.TransactionStatus, cursor *string, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(r.Entries) - 1; i >= 0; i-- {
		e := r.Entries[i]
		if e.UserID != userID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *FakeTransactionRepo) SumApproved(ctx context.Context, db repository.DBTX, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, e := range r.Entries {
		if e.UserID == userID && e.Status == domain.TxStatusApproved {
			sum += e.Amount
		}
	}
	return sum, nil
}

// FakeDepositRepo is an in-memory DepositRepository.
type FakeDepositRepo struct {
	Requests map[uuid.UUID]*domain.DepositRequest
}

func NewFakeDepositRepo() *FakeDepositRepo {
	return &FakeDepositRepo{Requests: make(map[uuid.UUID]*domain.DepositRequest)}
}

func (r *FakeDepositRepo) Insert(ctx context.Context, db repository.DBTX, req *domain.DepositRequest) error {
	cp := *req
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.Requests[cp.ID] = &cp
	return nil
}

func (r *FakeDepositRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.DepositRequest, error) {
	req, ok := r.Requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *FakeDepositRepo) GetForUpdate(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.DepositRequest, error) {
	return r.FindByID(ctx, db, id)
}

func (r *FakeDepositRepo) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, limit int) ([]domain.DepositRequest, error) {
	var out []domain.DepositRequest
	for _, req := range r.Requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	sortByCreatedDesc(out, func(d domain.DepositRequest) time.Time { return d.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeDepositRepo) ListByStatus(ctx context.Context, db repository.DBTX, status domain.RequestStatus, limit int) ([]domain.DepositRequest, error) {
	var out []domain.DepositRequest
	for _, req := range r.Requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	sortByCreatedDesc(out, func(d domain.DepositRequest) time.Time { return d.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeDepositRepo) ReviewStats(ctx context.Context, db repository.DBTX, userID uuid.UUID) (domain.RequestReviewStats, error) {
	var stats domain.RequestReviewStats
	cutoff := time.Now().AddDate(0, 0, -30)
	var approvedSum int64
	for _, req := range r.Requests {
		if req.UserID != userID {
			continue
		}
		switch req.Status {
		case domain.RequestSubmitted:
			stats.Pending++
		case domain.RequestRejected:
			if req.ReviewedAt != nil && req.ReviewedAt.After(cutoff) {
				stats.RejectedLast30Days++
			}
		case domain.RequestVerified:
			stats.ApprovedCount++
			approvedSum += req.AmountPKR
		}
	}
	if stats.ApprovedCount > 0 {
		stats.ApprovedAvg = approvedSum / int64(stats.ApprovedCount)
	}
	return stats, nil
}

func (r *FakeDepositRepo) MarkVerified(ctx context.Context, db repository.DBTX, id uuid.UUID, creditedAmount int64, txID, reviewerID uuid.UUID) (int64, error) {
	req, ok := r.Requests[id]
	if !ok || req.Status != domain.RequestSubmitted {
		return 0, nil
	}
	now := time.Now()
	req.Status = domain.RequestVerified
	req.CreditedAmount = &creditedAmount
	req.TransactionID = &txID
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	return 1, nil
}

func (r *FakeDepositRepo) MarkRejected(ctx context.Context, db repository.DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error) {
	req, ok := r.Requests[id]
	if !ok || req.Status != domain.RequestSubmitted {
		return 0, nil
	}
	now := time.Now()
	req.Status = domain.RequestRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.RejectionReason = &reason
	return 1, nil
}

// FakeWithdrawalRepo is an in-memory WithdrawalRepository.
type FakeWithdrawalRepo struct {
	Requests map[uuid.UUID]*domain.WithdrawalRequest
}

func NewFakeWithdrawalRepo() *FakeWithdrawalRepo {
	return &FakeWithdrawalRepo{Requests: make(map[uuid.UUID]*domain.WithdrawalRequest)}
}

func (r *FakeWithdrawalRepo) Insert(ctx context.Context, db repository.DBTX, req *domain.WithdrawalRequest) error {
	cp := *req
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.Requests[cp.ID] = &cp
	return nil
}

func (r *FakeWithdrawalRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	req, ok := r.Requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *FakeWithdrawalRepo) GetForUpdate(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	return r.FindByID(ctx, db, id)
}

func (r *FakeWithdrawalRepo) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, limit int) ([]domain.WithdrawalRequest, error) {
	var out []domain.WithdrawalRequest
	for _, req := range r.Requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	sortByCreatedDesc(out, func(w domain.WithdrawalRequest) time.Time { return w.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeWithdrawalRepo) ListByStatus(ctx context.Context, db repository.DBTX, status domain.RequestStatus, limit int) ([]domain.WithdrawalRequest, error) {
	var out []domain.WithdrawalRequest
	for _, req := range r.Requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	sortByCreatedDesc(out, func(w domain.WithdrawalRequest) time.Time { return w.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeWithdrawalRepo) ReviewStats(ctx context.Context, db repository.DBTX, userID uuid.UUID) (domain.RequestReviewStats, error) {
	var stats domain.RequestReviewStats
	cutoff := time.Now().AddDate(0, 0, -30)
	var approvedSum int64
	for _, req := range r.Requests {
		if req.UserID != userID {
			continue
		}
		switch req.Status {
		case domain.RequestSubmitted:
			stats.Pending++
		case domain.RequestRejected:
			if req.ReviewedAt != nil && req.ReviewedAt.After(cutoff) {
				stats.RejectedLast30Days++
			}
		case domain.RequestPaid:
			stats.ApprovedCount++
			approvedSum += req.AmountZC
		}
	}
	if stats.ApprovedCount > 0 {
		stats.ApprovedAvg = approvedSum / int64(stats.ApprovedCount)
	}
	return stats, nil
}

func (r *FakeWithdrawalRepo) MarkPaid(ctx context.Context, db repository.DBTX, id uuid.UUID, txID, reviewerID uuid.UUID) (int64, error) {
	req, ok := r.Requests[id]
	if !ok || req.Status != domain.RequestSubmitted {
		return 0, nil
	}
	now := time.Now()
	req.Status = domain.RequestPaid
	req.TransactionID = &txID
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	return 1, nil
}

func (r *FakeWithdrawalRepo) MarkRejected(ctx context.Context, db repository.DBTX, id uuid.UUID, reviewerID uuid.UUID, reason string) (int64, error) {
	req, ok := r.Requests[id]
	if !ok || req.Status != domain.RequestSubmitted {
		return 0, nil
	}
	now := time.Now()
	req.Status = domain.RequestRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	req.RejectionReason = &reason
	return 1, nil
}

// FakeRateRepo is an in-memory RateRepository. Latest returns the last
// inserted rate.
type FakeRateRepo struct {
	Rates     []domain.ConversionRate
	LatestErr error
}

func (r *FakeRateRepo) Latest(ctx context.Context, db repository.DBTX) (*domain.ConversionRate, error) {
	if r.LatestErr != nil {
		return nil, r.LatestErr
	}
	if len(r.Rates) == 0 {
		return nil, nil
	}
	cp := r.Rates[len(r.Rates)-1]
	return &cp, nil
}

func (r *FakeRateRepo) Insert(ctx context.Context, db repository.DBTX, rate *domain.ConversionRate) error {
	cp := *rate
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.Rates = append(r.Rates, cp)
	return nil
}

// FakeTournamentRepo is an in-memory TournamentRepository.
type FakeTournamentRepo struct {
	Tournaments   map[uuid.UUID]*domain.Tournament
	Registrations []domain.Registration
}

func NewFakeTournamentRepo() *FakeTournamentRepo {
	return &FakeTournamentRepo{Tournaments: make(map[uuid.UUID]*domain.Tournament)}
}

func (r *FakeTournamentRepo) Create(ctx context.Context, db repository.DBTX, t *domain.Tournament) error {
	cp := *t
	r.Tournaments[cp.ID] = &cp
	return nil
}

func (r *FakeTournamentRepo) Update(ctx context.Context, db repository.DBTX, t *domain.Tournament) error {
	if _, ok := r.Tournaments[t.ID]; !ok {
		return domain.ErrNotFound("tournament", t.ID.String())
	}
	cp := *t
	r.Tournaments[cp.ID] = &cp
	return nil
}

func (r *FakeTournamentRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Tournament, error) {
	t, ok := r.Tournaments[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *FakeTournamentRepo) GetForUpdate(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Tournament, error) {
	return r.FindByID(ctx, db, id)
}

func (r *FakeTournamentRepo) List(ctx context.Context, db repository.DBTX, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	var out []domain.Tournament
	for _, t := range r.Tournaments {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	sortByCreatedDesc(out, func(t domain.Tournament) time.Time { return t.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeTournamentRepo) CountRegistrations(ctx context.Context, db repository.DBTX, tournamentID uuid.UUID) (int, error) {
	n := 0
	for _, reg := range r.Registrations {
		if reg.TournamentID == tournamentID {
			n++
		}
	}
	return n, nil
}

func (r *FakeTournamentRepo) HasRegistration(ctx context.Context, db repository.DBTX, tournamentID, captainID uuid.UUID) (bool, error) {
	for _, reg := range r.Registrations {
		if reg.TournamentID == tournamentID && reg.CaptainID == captainID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeTournamentRepo) InsertRegistration(ctx context.Context, db repository.DBTX, reg *domain.Registration) error {
	r.Registrations = append(r.Registrations, *reg)
	return nil
}

func (r *FakeTournamentRepo) ListRegistrations(ctx context.Context, db repository.DBTX, tournamentID uuid.UUID) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, reg := range r.Registrations {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	return out, nil
}

// FakeProductRepo is an in-memory ProductRepository.
type FakeProductRepo struct {
	Products map[uuid.UUID]*domain.Product
	Orders   []domain.Order
}

func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{Products: make(map[uuid.UUID]*domain.Product)}
}

func (r *FakeProductRepo) Create(ctx context.Context, db repository.DBTX, p *domain.Product) error {
	cp := *p
	r.Products[cp.ID] = &cp
	return nil
}

func (r *FakeProductRepo) Update(ctx context.Context, db repository.DBTX, p *domain.Product) error {
	if _, ok := r.Products[p.ID]; !ok {
		return domain.ErrNotFound("product", p.ID.String())
	}
	cp := *p
	r.Products[cp.ID] = &cp
	return nil
}

func (r *FakeProductRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *FakeProductRepo) GetForUpdate(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, db, id)
}

func (r *FakeProductRepo) List(ctx context.Context, db repository.DBTX, activeOnly bool, limit int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.Products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	sortByCreatedDesc(out, func(p domain.Product) time.Time { return p.CreatedAt })
	return clip(out, limit), nil
}

func (r *FakeProductRepo) DecrementStock(ctx context.Context, db repository.DBTX, id uuid.UUID) (int64, error) {
	p, ok := r.Products[id]
	if !ok || p.Stock <= 0 {
		return 0, nil
	}
	p.Stock--
	return 1, nil
}

func (r *FakeProductRepo) InsertOrder(ctx context.Context, db repository.DBTX, o *domain.Order) error {
	r.Orders = append(r.Orders, *o)
	return nil
}

func (r *FakeProductRepo) ListOrdersByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, limit int) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return clip(out, limit), nil
}

// FakePostRepo is an in-memory PostRepository.
type FakePostRepo struct {
	Posts map[uuid.UUID]*domain.Post
}

func NewFakePostRepo() *FakePostRepo {
	return &FakePostRepo{Posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *FakePostRepo) Create(ctx context.Context, db repository.DBTX, p *domain.Post) error {
	for _, existing := range r.Posts {
		if existing.Slug == p.Slug {
			return domain.ErrConflict("slug already in use")
		}
	}
	cp := *p
	r.Posts[cp.ID] = &cp
	return nil
}

func (r *FakePostRepo) Update(ctx context.Context, db repository.DBTX, p *domain.Post) error {
	if _, ok := r.Posts[p.ID]; !ok {
		return domain.ErrNotFound("post", p.ID.String())
	}
	cp := *p
	r.Posts[cp.ID] = &cp
	return nil
}

func (r *FakePostRepo) Delete(ctx context.Context, db repository.DBTX, id uuid.UUID) error {
	if _, ok := r.Posts[id]; !ok {
		return domain.ErrNotFound("post", id.String())
	}
	delete(r.Posts, id)
	return nil
}

func (r *FakePostRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Post, error) {
	p, ok := r.Posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *FakePostRepo) FindBySlug(ctx context.Context, db repository.DBTX, slug string) (*domain.Post, error) {
	for _, p := range r.Posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakePostRepo) List(ctx context.Context, db repository.DBTX, kind *domain.PostKind, publishedOnly bool, limit int) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range r.Posts {
		if kind != nil && p.Kind != *kind {
			continue
		}
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	sortByCreatedDesc(out, func(p domain.Post) time.Time { return p.CreatedAt })
	return clip(out, limit), nil
}

// FakeOutboxRepo records outbox drafts for assertion.
type FakeOutboxRepo struct {
	Drafts    []domain.OutboxDraft
	InsertErr error
}

func (r *FakeOutboxRepo) Insert(ctx context.Context, db repository.DBTX, draft domain.OutboxDraft) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.Drafts = append(r.Drafts, draft)
	return nil
}

// LastEventType returns the type of the most recent draft, or "".
func (r *FakeOutboxRepo) LastEventType() string {
	if len(r.Drafts) == 0 {
		return ""
	}
	return string(r.Drafts[len(r.Drafts)-1].EventType)
}

// ErrBoom is a sentinel for simulating storage failures in tests.
var ErrBoom = errors.New("boom")

func sortByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
