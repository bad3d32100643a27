package devices

import (
	"context"

	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

type Repository interface {
	// Register inserts the fingerprint for the user, or refreshes
	// last_access_at when the device is already known.
	Register(ctx context.Context, userID, fingerprint string) error
	FindByFingerprint(ctx context.Context, fingerprint string) (*models.Device, error)
	Touch(ctx context.Context, fingerprint string) error
	Remove(ctx context.Context, userID, fingerprint string) (bool, error)
}
