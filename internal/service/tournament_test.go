package service

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
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository/repotest"
)

type tournamentFixture struct {
	svc         *TournamentService
	tournaments *repotest.FakeTournamentRepo
	users       *repotest.FakeUserRepo
	wallets     *repotest.FakeWalletRepo
	entries     *repotest.FakeTransactionRepo
	outbox      *repotest.FakeOutboxRepo
	tx          *repotest.FakeTransactor
	staffID     uuid.UUID
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	f := &tournamentFixture{
		tournaments: repotest.NewFakeTournamentRepo(),
		users:       repotest.NewFakeUserRepo(),
		wallets:     repotest.NewFakeWalletRepo(),
		entries:     &repotest.FakeTransactionRepo{},
		outbox:      &repotest.FakeOutboxRepo{},
		tx:          &repotest.FakeTransactor{},
		staffID:     uuid.New(),
	}
	engine := ledger.NewEngine(f.wallets, f.entries, f.outbox)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewTournamentService(nil, f.tx, f.tournaments, f.users, f.outbox, engine, logger)
	return f
}

// seedCaptain creates a registration-ready player with a funded wallet.
func (f *tournamentFixture) seedCaptain(t *testing.T, balance int64) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Username:    "cap_" + uuid.NewString()[:8],
		Email:       uuid.NewString()[:8] + "@example.com",
		DisplayName: "Captain",
		WhatsApp:    "+923001234567",
		Role:        domain.RolePlayer,
	}
	require.NoError(t, f.users.Create(context.Background(), nil, u))
	f.wallets.Seed(u.ID, balance)
	return u
}

func (f *tournamentFixture) seedOpenTournament(t *testing.T, entryFee int64, slots int) *domain.Tournament {
	t.Helper()
	created, err := f.svc.Create(context.Background(), f.staffID, CreateTournamentInput{
		Title:      "Valorant Weekly Cup",
		Game:       "Valorant",
		EntryFeeZC: domain.FormatAmount(entryFee),
		PrizeZC:    "500.00",
		Slots:      slots,
		StartsAt:   time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	status := string(domain.TournamentOpen)
	opened, err := f.svc.Update(context.Background(), created.ID, UpdateTournamentInput{Status: &status})
	require.NoError(t, err)
	return opened
}

func TestCreateTournamentStartsAsDraft(t *testing.T) {
	f := newTournamentFixture(t)

	created, err := f.svc.Create(context.Background(), f.staffID, CreateTournamentInput{
		Title:      "PUBG Mobile Showdown",
		Game:       "PUBG Mobile",
		EntryFeeZC: "25.50",
		PrizeZC:    "1000.00",
		Slots:      16,
		StartsAt:   time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TournamentDraft, created.Status)
	assert.Equal(t, int64(2_550), created.EntryFee)
	assert.Equal(t, int64(100_000), created.PrizePool)
	assert.Equal(t, f.staffID, created.CreatedBy)
}

func TestTournamentLifecycleTransitions(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 0, 8)
	ctx := context.Background()

	live := string(domain.TournamentLive)
	updated, err := f.svc.Update(ctx, tour.ID, UpdateTournamentInput{Status: &live})
	require.NoError(t, err)
	assert.Equal(t, domain.TournamentLive, updated.Status)

	// completed only happens through settlement
	completed := string(domain.TournamentCompleted)
	_, err = f.svc.Update(ctx, tour.ID, UpdateTournamentInput{Status: &completed})
	assert.Error(t, err)

	cancelled := string(domain.TournamentCancelled)
	updated, err = f.svc.Update(ctx, tour.ID, UpdateTournamentInput{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, domain.TournamentCancelled, updated.Status)

	// cancelled is terminal
	reopen := string(domain.TournamentOpen)
	_, err = f.svc.Update(ctx, tour.ID, UpdateTournamentInput{Status: &reopen})
	assert.Error(t, err)
}

func TestRegisterPaidTournamentDebitsEntryFee(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 2_500, 8)
	captain := f.seedCaptain(t, 10_000)

	reg, err := f.svc.Register(context.Background(), captain.ID, RegisterTeamInput{
		TournamentID: tour.ID,
		TeamName:     "Team Phoenix",
	})
	require.NoError(t, err)
	require.NotNil(t, reg.TransactionID)

	wallet, _ := f.wallets.FindByUserID(context.Background(), nil, captain.ID)
	assert.Equal(t, int64(7_500), wallet.Balance)

	require.Len(t, f.entries.Entries, 1)
	entry := f.entries.Entries[0]
	assert.Equal(t, domain.TxTournamentEntry, entry.Type)
	assert.Equal(t, int64(-2_500), entry.Amount)
	assert.Equal(t, *reg.TransactionID, entry.ID)

	assert.Equal(t, string(domain.EventTeamRegistered), f.outbox.LastEventType())
}

func TestRegisterFreeTournamentSkipsLedger(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 0, 8)
	captain := f.seedCaptain(t, 0)

	reg, err := f.svc.Register(context.Background(), captain.ID, RegisterTeamInput{
		TournamentID: tour.ID,
		TeamName:     "Free Agents",
	})
	require.NoError(t, err)
	assert.Nil(t, reg.TransactionID)
	assert.Empty(t, f.entries.Entries)
}

func TestRegisterInsufficientBalanceRejected(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 5_000, 8)
	captain := f.seedCaptain(t, 4_999)

	_, err := f.svc.Register(context.Background(), captain.ID, RegisterTeamInput{
		TournamentID: tour.ID,
		TeamName:     "Broke Squad",
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_BALANCE", appErr.Code)

	// rolled back: no registration, no debit
	assert.Empty(t, f.tournaments.Registrations)
	assert.Equal(t, 1, f.tx.RolledBack)
}

func TestRegisterIncompleteProfileRejected(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 0, 8)

	u := &domain.User{
		ID:       uuid.New(),
		Username: "no_profile",
		Email:    "np@example.com",
		Role:     domain.RolePlayer,
	}
	require.NoError(t, f.users.Create(context.Background(), nil, u))

	_, err := f.svc.Register(context.Background(), u.ID, RegisterTeamInput{
		TournamentID: tour.ID,
		TeamName:     "Ghosts",
	})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INCOMPLETE_PROFILE", appErr.Code)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 0, 8)
	captain := f.seedCaptain(t, 0)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, captain.ID, RegisterTeamInput{TournamentID: tour.ID, TeamName: "First"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, captain.ID, RegisterTeamInput{TournamentID: tour.ID, TeamName: "Second"})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Len(t, f.tournaments.Registrations, 1)
}

func TestRegisterFullTournamentRejected(t *testing.T) {
	f := newTournamentFixture(t)
	tour := f.seedOpenTournament(t, 0, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		captain := f.seedCaptain(t, 0)
		_, err := f.svc.Register(ctx, captain.ID, RegisterTeamInput{TournamentID: tour.ID, TeamName: "Team"})
		require.NoError(t, err)
	}

	late := f.seedCaptain(t, 0)
	_, err := f.svc.Register(ctx, late.ID, RegisterTeamInput{TournamentID: tour.ID, TeamName: "Late"})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TOURNAMENT_FULL", appErr.Code)
}

func TestRegisterClosedTournamentRejected(t *testing.T) {
	f := newTournamentFixture(t)
	captain := f.seedCaptain(t, 0)

	created, err := f.svc.Create(context.Background(), f.staffID, CreateTournamentInput{
		Title:      "Draft Cup",
		Game:       "Dota 2",
		EntryFeeZC: "0",
		PrizeZC:    "0",
		Slots:      8,
		StartsAt:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), captain.ID, RegisterTeamInput{
		TournamentID: created.ID,
		TeamName:     "Early Birds",
	})
	assert.Error(t, err, "draft tournament should not accept registrations")
}
