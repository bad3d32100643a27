package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

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

func (r *PostgresRepository) Register(ctx context.Context, userID, fingerprint string) error {
	query :=
		`INSERT INTO devices (id, user_id, fingerprint)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fingerprint) DO UPDATE SET last_access_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, fingerprint)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*models.Device, error) {
	query :=
		`SELECT id, user_id, fingerprint, registered_at, last_access_at FROM devices
		 WHERE fingerprint = $1
		 `

	device := &models.Device{}
	err := r.db.QueryRowContext(ctx, query, fingerprint).Scan(
		&device.ID, &device.UserID, &device.Fingerprint, &device.RegisteredAt, &device.LastAccessAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, fingerprint string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE devices SET last_access_at = now() WHERE fingerprint = $1`, fingerprint)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, fingerprint string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM devices WHERE user_id = $1 AND fingerprint = $2`, userID, fingerprint)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
