// Package api implements the HTTP client for the reservation backend. Each
// endpoint has an explicit method and request/response types; errors carry
// the server's message when one is present and a fixed localized fallback
// otherwise.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/client/config"
)

// CallError is a failed backend call. Message is safe to show the user
// verbatim; Err carries the underlying cause for logs, if any.
type CallError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *CallError) Error() string { return e.Message }

func (e *CallError) Unwrap() error { return e.Err }

const (
	msgNotConfigured = "서버 주소가 설정되지 않았습니다. 설정에서 server_base_url을 지정해주세요."
	msgUnreachable   = "서버에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
)

// Client talks to the reservation backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CheckDevice(ctx context.Context, fingerprint string) (*DeviceCheckResult, error) {
	var out DeviceCheckResult
	err := c.call(ctx, http.MethodPost, "/auth/check-device",
		checkDeviceRequest{DeviceFingerprint: fingerprint}, &out, "기기 확인 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendCode(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/send-code",
		sendCodeRequest{Email: email}, nil, "인증 코드 발송 실패")
}

func (c *Client) VerifyCode(ctx context.Context, email, code, fingerprint string) (*VerifyCodeResult, error) {
	var out VerifyCodeResult
	err := c.call(ctx, http.MethodPost, "/auth/verify-code",
		verifyCodeRequest{Email: email, Code: code, DeviceFingerprint: fingerprint}, &out, "인증 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout reports whether the backend actually removed the device.
func (c *Client) Logout(ctx context.Context, userID, fingerprint string) (bool, error) {
	var out logoutResult
	err := c.call(ctx, http.MethodPost, "/auth/logout",
		logoutRequest{UserID: userID, DeviceFingerprint: fingerprint}, &out, "로그아웃 실패")
	if err != nil {
		return false, err
	}
	return out.DeviceRemoved, nil
}

func (c *Client) RegistrationStatus(ctx context.Context) (*RegistrationStatus, error) {
	var out RegistrationStatus
	err := c.call(ctx, http.MethodGet, "/registration-status", nil, &out, "등록 현황 조회 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	var out RegisterResult
	err := c.call(ctx, http.MethodPost, "/register", req, &out, "등록 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckReservation(ctx context.Context, userID, targetDate string) (*CheckReservationResult, error) {
	var out CheckReservationResult
	err := c.call(ctx, http.MethodPost, "/check-reservation",
		checkReservationRequest{UserID: userID, TargetDate: targetDate}, &out, "예약 정보 조회 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelReservation(ctx context.Context, userID, targetDate string) (*CancelReservationResult, error) {
	var out CancelReservationResult
	err := c.call(ctx, http.MethodPost, "/reservation/cancel",
		cancelReservationRequest{UserID: userID, TargetDate: targetDate}, &out, "예약 취소 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleAutoReservation(ctx context.Context, userID string, enabled bool) error {
	return c.call(ctx, http.MethodPost, "/user/toggle-auto-reservation",
		toggleAutoRequest{UserID: userID, Enabled: enabled}, nil, "자동 예약 설정 변경 실패")
}

func (c *Client) MakeImmediateReservation(ctx context.Context, userID string) (*Attempt, error) {
	var out Attempt
	err := c.call(ctx, http.MethodPost, "/reservation/make-immediate",
		makeImmediateRequest{UserID: userID}, &out, "즉시 예약 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	var out Settings
	path := "/user/settings?userId=" + url.QueryEscape(userID)
	err := c.call(ctx, http.MethodGet, path, nil, &out, "설정 조회 실패")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, req SettingsUpdate) error {
	return c.call(ctx, http.MethodPost, "/user/settings", req, nil, "설정 업데이트 실패")
}

func (c *Client) UpdateExclusionDates(ctx context.Context, userID string, dates []string) error {
	return c.call(ctx, http.MethodPost, "/user/exclusion-dates",
		exclusionDatesRequest{UserID: userID, ExclusionDates: dates}, nil, "제외 날짜 업데이트 실패")
}

func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	return c.call(ctx, http.MethodPost, "/user/delete-account",
		deleteAccountRequest{UserID: userID, Confirm: true}, nil, "계정 삭제 실패")
}

// call performs one JSON round trip. A non-2xx status yields a CallError
// with the body's message when present, else the operation's fallback.
func (c *Client) call(ctx context.Context, method, path string, body any, out any, fallback string) error {
	if c.baseURL == "" || c.baseURL == config.PlaceholderBaseURL {
		return &CallError{Message: msgNotConfigured}
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CallError{Message: msgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CallError{Message: msgUnreachable, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(raw, &errBody); jsonErr == nil && errBody.Message != "" {
			return &CallError{StatusCode: resp.StatusCode, Message: errBody.Message}
		}
		return &CallError{StatusCode: resp.StatusCode, Message: fallback}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &CallError{StatusCode: resp.StatusCode, Message: fallback, Err: err}
		}
	}
	return nil
}
