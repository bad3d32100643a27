package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/auth"
	"github.com/jaehyuklim/lunchpilot/internal/server/cryptox"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
)

const saltLength = 16

// RegistrationStatus reports how many accounts exist against the cap.
type RegistrationStatus struct {
	Count  int  `json:"count"`
	Limit  int  `json:"limit"`
	IsFull bool `json:"isFull"`
}

// RegisterParams is the input for opening a new account.
type RegisterParams struct {
	UserID      string
	Password    string
	MenuSeq     string
	FloorNm     string
	Email       string
	Fingerprint string
}

// Settings is the user-facing view of the stored preferences.
type Settings struct {
	UserID                 string
	MenuSeq                []string
	FloorNm                string
	ExclusionDates         []string
	AutoReservationEnabled bool
}

// SettingsUpdate carries the optional fields of a settings change. Nil
// means "do not change".
type SettingsUpdate struct {
	MenuSeq     *string
	FloorNm     *string
	CafeteriaID *string
	CafeteriaPw *string
}

func (u SettingsUpdate) empty() bool {
	return u.MenuSeq == nil && u.FloorNm == nil && u.CafeteriaID == nil && u.CafeteriaPw == nil
}

type UserService struct {
	repo           repomanager.RepositoryManager
	masterPassword []byte
	secret         []byte
	tokenTTL       time.Duration
	maxUsers       int
	logger         logging.Logger
}

func NewUserService(repo repomanager.RepositoryManager, masterPassword, secret []byte, tokenTTL time.Duration, maxUsers int, logger logging.Logger) *UserService {
	return &UserService{
		repo:           repo,
		masterPassword: masterPassword,
		secret:         secret,
		tokenTTL:       tokenTTL,
		maxUsers:       maxUsers,
		logger:         logger,
	}
}

func (s *UserService) RegistrationStatus(ctx context.Context) (*RegistrationStatus, error) {
	count, err := s.repo.Users().Count(ctx)
	if err != nil {
		return nil, err
	}
	return &RegistrationStatus{
		Count:  count,
		Limit:  s.maxUsers,
		IsFull: count >= s.maxUsers,
	}, nil
}

// Register creates an account, encrypting the cafeteria password under a
// fresh per-user salt, registers the device and issues a session token.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*models.User, string, error) {
	count, err := s.repo.Users().Count(ctx)
	if err != nil {
		return nil, "", err
	}
	if count >= s.maxUsers {
		return nil, "", common.ErrRegistrationFull
	}

	if _, err := s.repo.Users().GetByID(ctx, params.UserID); err == nil {
		return nil, "", common.ErrUserExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", err
	}
	if _, err := s.repo.Users().GetByEmail(ctx, params.Email); err == nil {
		return nil, "", common.ErrUserExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", err
	}

	salt := common.GenerateRandByteArray(saltLength)
	key := cryptox.DeriveKey(s.masterPassword, salt)
	enc, nonce, err := cryptox.EncryptSecret([]byte(params.Password), key)
	if err != nil {
		return nil, "", fmt.Errorf("encrypt credentials: %w", err)
	}

	user := &models.User{
		UserID:                 params.UserID,
		Email:                  params.Email,
		CafeteriaUserID:        params.UserID,
		CafeteriaPasswordEnc:   enc,
		CafeteriaPasswordNonce: nonce,
		Salt:                   salt,
		MenuSeq:                params.MenuSeq,
		FloorNm:                params.FloorNm,
	}
	// the account and its device row land together or not at all
	var created *models.User
	err = s.repo.WithTx(ctx, func(r repomanager.RepositoryManager) error {
		var err error
		created, err = r.Users().Create(ctx, user)
		if err != nil {
			return err
		}
		if params.Fingerprint != "" {
			if err := r.Devices().Register(ctx, created.UserID, params.Fingerprint); err != nil {
				return fmt.Errorf("register device: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(created.UserID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user", created.UserID)
	return created, token, nil
}

func (s *UserService) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	user, err := s.repo.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Settings{
		UserID:                 user.UserID,
		MenuSeq:                user.MenuSequence(),
		FloorNm:                user.FloorNm,
		ExclusionDates:         user.ExclusionDates,
		AutoReservationEnabled: user.AutoReservationEnabled,
	}, nil
}

// UpdateSettings applies a partial settings change. A new cafeteria
// password is re-encrypted under the user's existing salt.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) error {
	if update.empty() {
		return fmt.Errorf("%w: at least one field to update is required", common.ErrorValidation)
	}

	var enc, nonce []byte
	if update.CafeteriaPw != nil {
		user, err := s.repo.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		key := cryptox.DeriveKey(s.masterPassword, user.Salt)
		enc, nonce, err = cryptox.EncryptSecret([]byte(*update.CafeteriaPw), key)
		if err != nil {
			return fmt.Errorf("encrypt credentials: %w", err)
		}
	}

	return s.repo.Users().UpdateSettings(ctx, userID, update.MenuSeq, update.FloorNm, update.CafeteriaID, enc, nonce)
}

// ReplaceExclusionDates stores the full replacement list of skip dates.
func (s *UserService) ReplaceExclusionDates(ctx context.Context, userID string, dates []string) error {
	for _, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("%w: invalid date %q", common.ErrorValidation, d)
		}
	}
	return s.repo.Users().UpdateExclusionDates(ctx, userID, dates)
}

func (s *UserService) SetAutoReservation(ctx context.Context, userID string, enabled bool) error {
	return s.repo.Users().SetAutoReservation(ctx, userID, enabled)
}

// DeleteAccount removes the user row; device rows go with it via the
// foreign key cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.Users().Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "user", userID)
	return nil
}
