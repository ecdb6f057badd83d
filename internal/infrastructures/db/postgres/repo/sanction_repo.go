package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozzus/club-sanctions/internal/domain/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Repository, error) {
	poolCfg, err := buildPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: pool}, nil
}

func buildPoolConfig(dsn string) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx pool config: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	return poolCfg, nil
}

func (r *Repository) Close() {
	r.db.Close()
}

const upsertSanctionQuery = `
	INSERT INTO sanctions (
		page_id,
		kind,
		sanction_id,
		club_group,
		quantity,
		suspension_days,
		formation,
		fines,
		sanction_date,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	ON CONFLICT (page_id) DO UPDATE SET
		kind = EXCLUDED.kind,
		sanction_id = EXCLUDED.sanction_id,
		club_group = EXCLUDED.club_group,
		quantity = EXCLUDED.quantity,
		suspension_days = EXCLUDED.suspension_days,
		formation = EXCLUDED.formation,
		fines = EXCLUDED.fines,
		sanction_date = EXCLUDED.sanction_date,
		updated_at = now()
	RETURNING (xmax = 0) AS inserted
`

// UpsertSanctions mirrors sanctions keyed by page id. It stops at the first failing row.
func (r *Repository) UpsertSanctions(ctx context.Context, kind models.SanctionKind, sanctions []models.Sanction) (models.MirrorResult, error) {
	result := models.MirrorResult{Total: len(sanctions)}

	for _, s := range sanctions {
		date, err := sanctionDate(s)
		if err != nil {
			return result, err
		}

		var inserted bool
		err = r.db.QueryRow(ctx, upsertSanctionQuery,
			s.PageID,
			string(kind),
			s.SanctionID,
			s.ClubGroup,
			s.Quantity,
			s.SuspensionDays,
			s.Formation,
			s.Fines,
			date,
		).Scan(&inserted)
		if err != nil {
			return result, fmt.Errorf("upsert sanction %s: %w", s.PageID, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// sanctionDate maps an unset date to NULL.
func sanctionDate(s models.Sanction) (*time.Time, error) {
	if s.Date == "" {
		return nil, nil
	}

	date, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date of sanction %s: %w", s.PageID, err)
	}
	return &date, nil
}
