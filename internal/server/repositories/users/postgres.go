package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const userColumns = `user_id, email, cafeteria_user_id, cafeteria_password_enc, cafeteria_password_nonce, salt,
	 menu_seq, floor_nm, auto_reservation_enabled, exclusion_dates, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (user_id, email, cafeteria_user_id, cafeteria_password_enc, cafeteria_password_nonce, salt, menu_seq, floor_nm)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserID, user.Email, user.CafeteriaUserID, user.CafeteriaPasswordEnc, user.CafeteriaPasswordNonce,
		user.Salt, user.MenuSeq, user.FloorNm).Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.AutoReservationEnabled = true
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var exclusions string
	err := row.Scan(&user.UserID, &user.Email, &user.CafeteriaUserID, &user.CafeteriaPasswordEnc, &user.CafeteriaPasswordNonce,
		&user.Salt, &user.MenuSeq, &user.FloorNm, &user.AutoReservationEnabled, &exclusions, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.ExclusionDates = splitDates(exclusions)
	return user, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		var exclusions string
		err := rows.Scan(&user.UserID, &user.Email, &user.CafeteriaUserID, &user.CafeteriaPasswordEnc, &user.CafeteriaPasswordNonce,
			&user.Salt, &user.MenuSeq, &user.FloorNm, &user.AutoReservationEnabled, &exclusions, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		user.ExclusionDates = splitDates(exclusions)
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// UpdateSettings applies only the provided fields; nil pointers and nil byte
// slices mean "do not change".
func (r *PostgresRepository) UpdateSettings(ctx context.Context, userID string, menuSeq, floorNm, cafeteriaID *string, passwordEnc, passwordNonce []byte) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if menuSeq != nil {
		add("menu_seq", *menuSeq)
	}
	if floorNm != nil {
		add("floor_nm", *floorNm)
	}
	if cafeteriaID != nil {
		add("cafeteria_user_id", *cafeteriaID)
	}
	if passwordEnc != nil {
		add("cafeteria_password_enc", passwordEnc)
		add("cafeteria_password_nonce", passwordNonce)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdateExclusionDates(ctx context.Context, userID string, dates []string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET exclusion_dates = $1 WHERE user_id = $2`,
		strings.Join(dates, ","), userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) SetAutoReservation(ctx context.Context, userID string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET auto_reservation_enabled = $1 WHERE user_id = $2`, enabled, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func splitDates(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
