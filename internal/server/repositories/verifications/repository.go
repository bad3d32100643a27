package verifications

import (
	"context"

	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

type Repository interface {
	// Upsert stores the code for the address, replacing any previous one.
	Upsert(ctx context.Context, code *models.VerificationCode) error
	Find(ctx context.Context, email string) (*models.VerificationCode, error)
	Delete(ctx context.Context, email string) error
}
