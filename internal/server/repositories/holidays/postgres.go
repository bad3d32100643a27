package holidays

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jaehyuklim/lunchpilot/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, month string) ([]string, bool, error) {
	var joined string
	err := r.db.QueryRowContext(ctx, `SELECT dates FROM holidays WHERE month = $1`, month).Scan(&joined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	if joined == "" {
		return nil, true, nil
	}
	return strings.Split(joined, ","), true, nil
}

func (r *PostgresRepository) Save(ctx context.Context, month string, dates []string) error {
	query :=
		`INSERT INTO holidays (month, dates)
		 VALUES ($1, $2)
		 ON CONFLICT (month) DO UPDATE SET dates = excluded.dates, fetched_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, month, strings.Join(dates, ","))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
