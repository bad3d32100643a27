package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jaehyuklim/lunchpilot/internal/dbx"
	"github.com/jaehyuklim/lunchpilot/internal/server/migrations"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/devices"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/holidays"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/users"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/verifications"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	devices       devices.Repository
	verifications verifications.Repository
	holidays      holidays.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Devices() devices.Repository {
	return m.devices
}

func (m *PostgresRepositoryManager) Verifications() verifications.Repository {
	return m.verifications
}

func (m *PostgresRepositoryManager) Holidays() holidays.Repository {
	return m.holidays
}

// WithTx rebinds all repositories to one transaction for the duration of fn.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(RepositoryManager) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(&PostgresRepositoryManager{
			db:            m.db,
			users:         users.NewPostgresRepository(tx),
			devices:       devices.NewPostgresRepository(tx),
			verifications: verifications.NewPostgresRepository(tx),
			holidays:      holidays.NewPostgresRepository(tx),
		})
	})
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		devices:       devices.NewPostgresRepository(db),
		verifications: verifications.NewPostgresRepository(db),
		holidays:      holidays.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
