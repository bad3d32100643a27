// Package services holds the server-side business logic between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/common"
	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/auth"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/repomanager"
)

const (
	codeLength = 6
	codeTTL    = 10 * time.Minute
)

// CodeSender delivers one-time verification codes to an address.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, email string, code string) error
}

// DeviceCheck is the outcome of a fingerprint lookup. The user fields are
// only set when Authenticated is true.
type DeviceCheck struct {
	Authenticated bool
	UserID        string
	Email         string
	SessionToken  string
}

// VerifyResult is the outcome of a code verification. SessionToken is empty
// when no account exists for the address yet.
type VerifyResult struct {
	HasAccount   bool
	UserID       string
	SessionToken string
}

type AuthService struct {
	repo     repomanager.RepositoryManager
	sender   CodeSender
	secret   []byte
	tokenTTL time.Duration
	logger   logging.Logger
}

func NewAuthService(repo repomanager.RepositoryManager, sender CodeSender, secret []byte, tokenTTL time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{repo: repo, sender: sender, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// CheckDevice looks up a device fingerprint and, when it belongs to a known
// account, refreshes its last access and issues a session token. An unknown
// fingerprint is a normal outcome, not an error.
func (s *AuthService) CheckDevice(ctx context.Context, fingerprint string) (*DeviceCheck, error) {
	device, err := s.repo.Devices().FindByFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &DeviceCheck{}, nil
		}
		return nil, err
	}

	user, err := s.repo.Users().GetByID(ctx, device.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Orphaned fingerprint, the account is gone.
			return &DeviceCheck{}, nil
		}
		return nil, err
	}

	if err := s.repo.Devices().Touch(ctx, fingerprint); err != nil {
		s.logger.Warn(ctx, "device touch failed", "error", err.Error())
	}

	token, err := auth.GenerateToken(user.UserID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &DeviceCheck{
		Authenticated: true,
		UserID:        user.UserID,
		Email:         user.Email,
		SessionToken:  token,
	}, nil
}

// SendCode generates a one-time code for the address, stores it with its
// TTL and emails it. A repeated send replaces the previous code.
func (s *AuthService) SendCode(ctx context.Context, email string) error {
	code, err := common.MakeNumericCode(codeLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := time.Now()
	vc := &models.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}
	if err := s.repo.Verifications().Upsert(ctx, vc); err != nil {
		return err
	}

	if err := s.sender.SendVerificationCode(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	s.logger.Info(ctx, "verification code sent", "email", email)
	return nil
}

// VerifyCode checks the submitted code against the stored one and consumes
// it on success. When an account exists for the address the device is
// registered and a session token issued; otherwise the caller proceeds to
// registration.
func (s *AuthService) VerifyCode(ctx context.Context, email, code, fingerprint string) (*VerifyResult, error) {
	stored, err := s.repo.Verifications().Find(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrCodeExpired
		}
		return nil, err
	}
	if stored.Expired(time.Now()) {
		return nil, common.ErrCodeExpired
	}
	if stored.Code != code {
		return nil, common.ErrCodeMismatch
	}

	if err := s.repo.Verifications().Delete(ctx, email); err != nil {
		s.logger.Warn(ctx, "verification code cleanup failed", "email", email, "error", err.Error())
	}

	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &VerifyResult{}, nil
		}
		return nil, err
	}

	if fingerprint != "" {
		if err := s.repo.Devices().Register(ctx, user.UserID, fingerprint); err != nil {
			s.logger.Warn(ctx, "device registration failed", "user", user.UserID, "error", err.Error())
		}
	}

	token, err := auth.GenerateToken(user.UserID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &VerifyResult{HasAccount: true, UserID: user.UserID, SessionToken: token}, nil
}

// Logout removes the device fingerprint from the account. The result
// reports whether a device row was actually removed.
func (s *AuthService) Logout(ctx context.Context, userID, fingerprint string) (bool, error) {
	removed, err := s.repo.Devices().Remove(ctx, userID, fingerprint)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info(ctx, "device logged out", "user", userID)
	}
	return removed, nil
}
