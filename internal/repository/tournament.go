package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/infra"
)

type tournamentRepo struct{}

// NewTournamentRepository returns a pgx-backed TournamentRepository.
func NewTournamentRepository() TournamentRepository {
	return &tournamentRepo{}
}

const tournamentColumns = `id, title, game, description, cover_url, entry_fee, prize_pool, slots, status, starts_at, created_by, created_at, updated_at`

func (r *tournamentRepo) Create(ctx context.Context, db DBTX, t *domain.Tournament) error {
	_, err := db.Exec(ctx, `
		INSERT INTO tournaments
		  (id, title, game, description, cover_url, entry_fee, prize_pool, slots, status, starts_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Title, t.Game, t.Description, t.CoverURL,
		infra.Int64ToNumeric(t.EntryFee), infra.Int64ToNumeric(t.PrizePool),
		t.Slots, string(t.Status), t.StartsAt, t.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *tournamentRepo) Update(ctx context.Context, db DBTX, t *domain.Tournament) error {
	tag, err := db.Exec(ctx, `
		UPDATE tournaments
		SET title = $2, game = $3, description = $4, cover_url = $5, entry_fee = $6,
		    prize_pool = $7, slots = $8, status = $9, starts_at = $10, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Title, t.Game, t.Description, t.CoverURL,
		infra.Int64ToNumeric(t.EntryFee), infra.Int64ToNumeric(t.PrizePool),
		t.Slots, string(t.Status), t.StartsAt)
	if err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("tournament", t.ID.String())
	}
	return nil
}

func (r *tournamentRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Tournament, error) {
	row := db.QueryRow(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id)
	return scanTournament(row)
}

func (r *tournamentRepo) GetForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Tournament, error) {
	row := db.QueryRow(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, id)
	return scanTournament(row)
}

func (r *tournamentRepo) List(ctx context.Context, db DBTX, status *domain.TournamentStatus, limit int) ([]domain.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var statusStr *string
	if status != nil {
		s := string(*status)
		statusStr = &s
	}
	rows, err := db.Query(ctx, `
		SELECT `+tournamentColumns+` FROM tournaments
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY starts_at DESC LIMIT $2`, statusStr, limit)
	if err != nil {
		return nil, fmt.Errorf("query tournaments: %w", err)
	}
	defer rows.Close()

	var ts []domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, *t)
	}
	return ts, rows.Err()
}

func (r *tournamentRepo) CountRegistrations(ctx context.Context, db DBTX, tournamentID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM tournament_registrations WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (r *tournamentRepo) HasRegistration(ctx context.Context, db DBTX, tournamentID, captainID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM tournament_registrations
			WHERE tournament_id = $1 AND captain_id = $2)`, tournamentID, captainID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *tournamentRepo) InsertRegistration(ctx context.Context, db DBTX, reg *domain.Registration) error {
	_, err := db.Exec(ctx, `
		INSERT INTO tournament_registrations (id, tournament_id, captain_id, team_name, transaction_id)
		VALUES ($1, $2, $3, $4, $5)`,
		reg.ID, reg.TournamentID, reg.CaptainID, reg.TeamName, reg.TransactionID)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *tournamentRepo) ListRegistrations(ctx context.Context, db DBTX, tournamentID uuid.UUID) ([]domain.Registration, error) {
	rows, err := db.Query(ctx, `
		SELECT id, tournament_id, captain_id, team_name, transaction_id, created_at
		FROM tournament_registrations
		WHERE tournament_id = $1
		ORDER BY created_at ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.ID, &reg.TournamentID, &reg.CaptainID, &reg.TeamName, &reg.TransactionID, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func scanTournament(row pgx.Row) (*domain.Tournament, error) {
	var t domain.Tournament
	var feeNum, prizeNum pgtype.Numeric
	err := row.Scan(&t.ID, &t.Title, &t.Game, &t.Description, &t.CoverURL,
		&feeNum, &prizeNum, &t.Slots, &t.Status, &t.StartsAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tournament: %w", err)
	}

	var convErr error
	t.EntryFee, convErr = infra.NumericToInt64(feeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert entry_fee: %w", convErr)
	}
	t.PrizePool, convErr = infra.NumericToInt64(prizeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert prize_pool: %w", convErr)
	}
	return &t, nil
}
