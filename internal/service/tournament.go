package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
)

// TournamentService manages the tournament lifecycle and registrations.
type TournamentService struct {
	db          repository.DBTX
	tx          repository.Transactor
	tournaments repository.TournamentRepository
	users       repository.UserRepository
	outbox      repository.OutboxRepository
	engine      *ledger.Engine
	logger      *slog.Logger
}

// NewTournamentService creates a TournamentService.
func NewTournamentService(
	db repository.DBTX,
	tx repository.Transactor,
	tournaments repository.TournamentRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		db:          db,
		tx:          tx,
		tournaments: tournaments,
		users:       users,
		outbox:      outbox,
		engine:      engine,
		logger:      logger,
	}
}

// CreateTournamentInput holds the staff-supplied tournament fields. Amounts
// arrive as decimal ZC strings.
type CreateTournamentInput struct {
	Title       string    `json:"title"`
	Game        string    `json:"game"`
	Description string    `json:"description"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	EntryFeeZC  string    `json:"entry_fee_zc"`
	PrizeZC     string    `json:"prize_zc"`
	Slots       int       `json:"slots"`
	StartsAt    time.Time `json:"starts_at"`
}

// Create creates a tournament in draft status.
func (s *TournamentService) Create(ctx context.Context, staffID uuid.UUID, input CreateTournamentInput) (*domain.Tournament, error) {
	title := domain.SanitizeText(input.Title)
	game := domain.SanitizeText(input.Game)
	if title == "" {
		return nil, domain.ErrValidation("title is required")
	}
	if game == "" {
		return nil, domain.ErrValidation("game is required")
	}
	if input.Slots <= 0 {
		return nil, domain.ErrValidation("slots must be positive")
	}

	entryFee, err := domain.ParseAmount(input.EntryFeeZC)
	if err != nil {
		return nil, domain.ErrValidation("entry fee: " + err.Error())
	}
	prize, err := domain.ParseAmount(input.PrizeZC)
	if err != nil {
		return nil, domain.ErrValidation("prize pool: " + err.Error())
	}

	t := &domain.Tournament{
		ID:          uuid.New(),
		Title:       title,
		Game:        game,
		Description: domain.SanitizeText(input.Description),
		CoverURL:    input.CoverURL,
		EntryFee:    entryFee,
		PrizePool:   prize,
		Slots:       input.Slots,
		Status:      domain.TournamentDraft,
		StartsAt:    input.StartsAt,
		CreatedBy:   staffID,
	}
	if err := s.tournaments.Create(ctx, s.db, t); err != nil {
		return nil, domain.ErrInternal("create tournament", err)
	}

	s.logger.Info("tournament created", "tournament_id", t.ID, "title", t.Title, "created_by", staffID)
	return t, nil
}

// UpdateTournamentInput holds the editable tournament fields. Nil pointers
// leave the current value in place.
type UpdateTournamentInput struct {
	Title       *string    `json:"title,omitempty"`
	Game        *string    `json:"game,omitempty"`
	Description *string    `json:"description,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	EntryFeeZC  *string    `json:"entry_fee_zc,omitempty"`
	PrizeZC     *string    `json:"prize_zc,omitempty"`
	Slots       *int       `json:"slots,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
}

// Update applies partial edits to a tournament, including status moves along
// the draft → open → live → completed lifecycle (or to cancelled).
func (s *TournamentService) Update(ctx context.Context, id uuid.UUID, input UpdateTournamentInput) (*domain.Tournament, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := domain.SanitizeText(*input.Title)
		if title == "" {
			return nil, domain.ErrValidation("title is required")
		}
		t.Title = title
	}
	if input.Game != nil {
		game := domain.SanitizeText(*input.Game)
		if game == "" {
			return nil, domain.ErrValidation("game is required")
		}
		t.Game = game
	}
	if input.Description != nil {
		t.Description = domain.SanitizeText(*input.Description)
	}
	if input.CoverURL != nil {
		t.CoverURL = input.CoverURL
	}
	if input.EntryFeeZC != nil {
		fee, err := domain.ParseAmount(*input.EntryFeeZC)
		if err != nil {
			return nil, domain.ErrValidation("entry fee: " + err.Error())
		}
		t.EntryFee = fee
	}
	if input.PrizeZC != nil {
		prize, err := domain.ParseAmount(*input.PrizeZC)
		if err != nil {
			return nil, domain.ErrValidation("prize pool: " + err.Error())
		}
		t.PrizePool = prize
	}
	if input.Slots != nil {
		if *input.Slots <= 0 {
			return nil, domain.ErrValidation("slots must be positive")
		}
		t.Slots = *input.Slots
	}
	if input.Status != nil {
		next := domain.TournamentStatus(*input.Status)
		if next == domain.TournamentCompleted {
			return nil, domain.ErrValidation("tournaments are completed through settlement, not a status update")
		}
		if !validTournamentTransition(t.Status, next) {
			return nil, domain.ErrValidation("cannot move tournament from " + string(t.Status) + " to " + string(next))
		}
		t.Status = next
	}
	if input.StartsAt != nil {
		t.StartsAt = *input.StartsAt
	}

	if err := s.tournaments.Update(ctx, s.db, t); err != nil {
		return nil, domain.ErrInternal("update tournament", err)
	}
	return t, nil
}

func validTournamentTransition(from, to domain.TournamentStatus) bool {
	switch from {
	case domain.TournamentDraft:
		return to == domain.TournamentOpen || to == domain.TournamentCancelled
	case domain.TournamentOpen:
		return to == domain.TournamentLive || to == domain.TournamentCancelled
	case domain.TournamentLive:
		return to == domain.TournamentCompleted || to == domain.TournamentCancelled
	}
	return false
}

// Get returns one tournament by ID.
func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (*domain.Tournament, error) {
	t, err := s.tournaments.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find tournament", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("tournament", id.String())
	}
	return t, nil
}

// List returns tournaments, optionally filtered to one lifecycle status.
func (s *TournamentService) List(ctx context.Context, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	ts, err := s.tournaments.List(ctx, s.db, status, normalizeListLimit(limit))
	if err != nil {
		return nil, domain.ErrInternal("list tournaments", err)
	}
	return ts, nil
}

// Registrations returns the registered teams for a tournament.
func (s *TournamentService) Registrations(ctx context.Context, tournamentID uuid.UUID) ([]domain.Registration, error) {
	if _, err := s.Get(ctx, tournamentID); err != nil {
		return nil, err
	}
	regs, err := s.tournaments.ListRegistrations(ctx, s.db, tournamentID)
	if err != nil {
		return nil, domain.ErrInternal("list registrations", err)
	}
	return regs, nil
}

// RegisterInput holds a captain's registration request.
type RegisterTeamInput struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	TeamName     string    `json:"team_name"`
}

// Register enters a team into an open tournament. The tournament row is
// locked so slot counting cannot race, and for paid tournaments the
// entry-fee debit commits in the same transaction as the registration row.
func (s *TournamentService) Register(ctx context.Context, captainID uuid.UUID, input RegisterTeamInput) (*domain.Registration, error) {
	teamName := domain.SanitizeText(input.TeamName)
	if teamName == "" {
		return nil, domain.ErrValidation("team name is required")
	}

	captain, err := s.users.FindByID(ctx, s.db, captainID)
	if err != nil {
		return nil, domain.ErrInternal("find captain", err)
	}
	if captain == nil {
		return nil, domain.ErrNotFound("user", captainID.String())
	}
	if !policy.EvaluateProfilePolicy(captain).IsComplete() {
		return nil, domain.ErrIncompleteProfile()
	}

	var reg *domain.Registration
	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		t, err := s.tournaments.GetForUpdate(ctx, db, input.TournamentID)
		if err != nil {
			return domain.ErrInternal("lock tournament", err)
		}
		if t == nil {
			return domain.ErrNotFound("tournament", input.TournamentID.String())
		}
		if t.Status != domain.TournamentOpen {
			return domain.ErrValidation("tournament is not open for registration")
		}

		dup, err := s.tournaments.HasRegistration(ctx, db, t.ID, captainID)
		if err != nil {
			return domain.ErrInternal("check registration", err)
		}
		if dup {
			return domain.ErrConflict("already registered for this tournament")
		}

		count, err := s.tournaments.CountRegistrations(ctx, db, t.ID)
		if err != nil {
			return domain.ErrInternal("count registrations", err)
		}
		if count >= t.Slots {
			return domain.ErrTournamentFull()
		}

		reg = &domain.Registration{
			ID:           uuid.New(),
			TournamentID: t.ID,
			CaptainID:    captainID,
			TeamName:     teamName,
		}

		if t.EntryFee > 0 {
			entry, _, err := s.engine.ChargeEntryFee(ctx, db, ledger.ChargeEntryFeeParams{
				UserID:       captainID,
				Fee:          t.EntryFee,
				TournamentID: t.ID,
			})
			if err != nil {
				return err
			}
			reg.TransactionID = &entry.ID
		}

		if err := s.tournaments.InsertRegistration(ctx, db, reg); err != nil {
			return domain.ErrInternal("insert registration", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewTeamRegisteredEvent(reg))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered",
		"tournament_id", reg.TournamentID, "captain_id", captainID, "team", reg.TeamName)
	return reg, nil
}
