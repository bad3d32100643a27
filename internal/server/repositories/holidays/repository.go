package holidays

import "context"

type Repository interface {
	// Get returns the cached holiday dates (YYYYMMDD) for a YYYYMM month,
	// or found=false when the month has not been fetched yet.
	Get(ctx context.Context, month string) (dates []string, found bool, err error)
	Save(ctx context.Context, month string, dates []string) error
}
