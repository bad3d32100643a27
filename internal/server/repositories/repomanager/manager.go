// Package repomanager wires the Postgres repositories to one shared
// database handle and runs migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/devices"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/holidays"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/users"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/verifications"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Devices() devices.Repository
	Verifications() verifications.Repository
	Holidays() holidays.Repository
	// WithTx runs fn with repositories bound to a single transaction,
	// committing on nil and rolling back on error.
	WithTx(ctx context.Context, fn func(RepositoryManager) error) error
}
