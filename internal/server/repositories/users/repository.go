package users

import (
	"context"

	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateSettings(ctx context.Context, userID string, menuSeq, floorNm, cafeteriaID *string, passwordEnc, passwordNonce []byte) error
	UpdateExclusionDates(ctx context.Context, userID string, dates []string) error
	SetAutoReservation(ctx context.Context, userID string, enabled bool) error
	Delete(ctx context.Context, userID string) error
}
