package verifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/dbx"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, code *models.VerificationCode) error {
	query :=
		`INSERT INTO verification_codes (email, code, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at, created_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, code.Email, code.Code, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, email string) (*models.VerificationCode, error) {
	query :=
		`SELECT email, code, expires_at, created_at FROM verification_codes
		 WHERE email = $1
		 `

	code := &models.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&code.Email, &code.Code, &code.ExpiresAt, &code.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return code, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
