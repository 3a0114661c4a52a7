// Package settlement distributes tournament prize pools. Settling is the
// only path from live to completed: the status change and every prize credit
// commit in one database transaction.
package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/repository"
)

// Podium share percentages by number of placements paid.
var podiumShares = map[int][]int64{
	1: {100},
	2: {60, 40},
	3: {50, 30, 20},
}

// MaxPlacements is the deepest podium the platform pays out.
const MaxPlacements = 3

// SplitPrizePool divides a prize pool (centi-ZC) across placements using the
// podium shares. Integer division remainders go to first place so the shares
// always sum to the full pool.
func SplitPrizePool(pool int64, places int) ([]int64, error) {
	if pool <= 0 {
		return nil, fmt.Errorf("prize pool must be positive, got %d", pool)
	}
	shares, ok := podiumShares[places]
	if !ok {
		return nil, fmt.Errorf("unsupported placement count %d (max %d)", places, MaxPlacements)
	}

	out := make([]int64, places)
	var distributed int64
	for i, pct := range shares {
		out[i] = pool * pct / 100
		distributed += out[i]
	}
	out[0] += pool - distributed
	return out, nil
}

// TournamentSettlement completes a live tournament and credits prize shares
// to the winning captains.
type TournamentSettlement struct {
	db          repository.DBTX
	tx          repository.Transactor
	tournaments repository.TournamentRepository
	outbox      repository.OutboxRepository
	engine      *ledger.Engine
	logger      *slog.Logger
}

// NewTournamentSettlement creates a tournament settlement handler.
func NewTournamentSettlement(
	db repository.DBTX,
	tx repository.Transactor,
	tournaments repository.TournamentRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *TournamentSettlement {
	return &TournamentSettlement{db: db, tx: tx, tournaments: tournaments, outbox: outbox, engine: engine, logger: logger}
}

// SettleInput names the winning captains in placement order (index 0 is
// first place).
type SettleInput struct {
	TournamentID uuid.UUID
	SettledBy    uuid.UUID
	Winners      []uuid.UUID
}

// Settle marks a live tournament completed and pays out the prize pool.
// Free-prize tournaments (pool zero) complete without ledger entries.
func (s *TournamentSettlement) Settle(ctx context.Context, input SettleInput) (*domain.Tournament, error) {
	if len(input.Winners) == 0 {
		return nil, domain.ErrValidation("at least one winner is required")
	}
	if len(input.Winners) > MaxPlacements {
		return nil, domain.ErrValidation(fmt.Sprintf("at most %d placements are paid", MaxPlacements))
	}
	seen := make(map[uuid.UUID]bool, len(input.Winners))
	for _, w := range input.Winners {
		if seen[w] {
			return nil, domain.ErrValidation("duplicate winner " + w.String())
		}
		seen[w] = true
	}

	var settled *domain.Tournament
	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		t, err := s.tournaments.GetForUpdate(ctx, db, input.TournamentID)
		if err != nil {
			return fmt.Errorf("lock tournament: %w", err)
		}
		if t == nil {
			return domain.ErrNotFound("tournament", input.TournamentID.String())
		}
		if t.Status != domain.TournamentLive {
			return domain.ErrValidation(fmt.Sprintf("tournament is %s, only live tournaments can be settled", t.Status))
		}

		for _, w := range input.Winners {
			registered, err := s.tournaments.HasRegistration(ctx, db, t.ID, w)
			if err != nil {
				return fmt.Errorf("check registration: %w", err)
			}
			if !registered {
				return domain.ErrValidation("winner " + w.String() + " is not registered for this tournament")
			}
		}

		if t.PrizePool > 0 {
			shares, err := SplitPrizePool(t.PrizePool, len(input.Winners))
			if err != nil {
				return domain.ErrValidation(err.Error())
			}
			for i, w := range input.Winners {
				if _, _, err := s.engine.CreditPrize(ctx, db, ledger.CreditPrizeParams{
					UserID:       w,
					Amount:       shares[i],
					TournamentID: t.ID,
					Placement:    i + 1,
					SettledBy:    input.SettledBy,
				}); err != nil {
					return fmt.Errorf("credit placement %d: %w", i+1, err)
				}
			}
		}

		t.Status = domain.TournamentCompleted
		if err := s.tournaments.Update(ctx, db, t); err != nil {
			return fmt.Errorf("complete tournament: %w", err)
		}

		if err := s.outbox.Insert(ctx, db, domain.NewTournamentSettledEvent(t.ID, input.SettledBy, input.Winners, t.PrizePool)); err != nil {
			return fmt.Errorf("outbox: %w", err)
		}

		settled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament settled",
		"tournament_id", settled.ID,
		"winners", len(input.Winners),
		"prize_pool", settled.PrizePool,
		"settled_by", input.SettledBy,
	)
	return settled, nil
}
