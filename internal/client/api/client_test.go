package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaehyuklim/lunchpilot/internal/client/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestPlaceholderBaseURLFailsAtCallTime(t *testing.T) {
	c := NewClient(config.PlaceholderBaseURL, time.Second)
	_, err := c.RegistrationStatus(context.Background())
	require.Error(t, err)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Contains(t, callErr.Message, "server_base_url")
}

func TestTransportErrorUsesGenericMessage(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	err := c.SendCode(context.Background(), "a@example.com")
	require.Error(t, err)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, msgUnreachable, callErr.Message)
	assert.Error(t, errors.Unwrap(callErr))
}

func TestServerMessagePassedVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "registration is full"})
	})

	_, err := c.Register(context.Background(), RegisterRequest{UserID: "hong"})
	require.Error(t, err)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "registration is full", callErr.Message)
	assert.Equal(t, http.StatusConflict, callErr.StatusCode)
}

func TestFallbackMessageWhenBodyHasNone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	err := c.ToggleAutoReservation(context.Background(), "hong", true)
	require.Error(t, err)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "자동 예약 설정 변경 실패", callErr.Message)
}

func TestCheckDevice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/check-device", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "fp-1", body["deviceFingerprint"])
		json.NewEncoder(w).Encode(DeviceCheckResult{
			Authenticated: true, UserID: "hong", Email: "hong@example.com", SessionToken: "tok",
		})
	})

	res, err := c.CheckDevice(context.Background(), "fp-1")
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "hong", res.UserID)
	assert.Equal(t, "tok", res.SessionToken)
}

func TestVerifyCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-code", r.URL.Path)
		json.NewEncoder(w).Encode(VerifyCodeResult{HasAccount: false})
	})

	res, err := c.VerifyCode(context.Background(), "new@example.com", "123456", "fp")
	require.NoError(t, err)
	assert.False(t, res.HasAccount)
}

func TestGetSettingsEscapesUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/settings", r.URL.Path)
		assert.Equal(t, "hong kim", r.URL.Query().Get("userId"))
		json.NewEncoder(w).Encode(Settings{UserID: "hong kim", FloorNm: "7F", MenuSeq: []string{"샌"}})
	})

	settings, err := c.GetSettings(context.Background(), "hong kim")
	require.NoError(t, err)
	assert.Equal(t, "7F", settings.FloorNm)
}

func TestMakeImmediateBusinessFailureIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Attempt{Success: false, Message: "잔여 수량이 없습니다.", TargetDate: "2026-09-02"})
	})

	attempt, err := c.MakeImmediateReservation(context.Background(), "hong")
	require.NoError(t, err)
	assert.False(t, attempt.Success)
	assert.Equal(t, "잔여 수량이 없습니다.", attempt.Message)
}

func TestCancelReservation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reservation/cancel", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hong", body["userId"])
		assert.Equal(t, "2026-09-02", body["targetDate"])
		json.NewEncoder(w).Encode(CancelReservationResult{
			Cancelled: []Reservation{{DispNm: "샌드위치", PrvdDt: "20260902"}},
		})
	})

	result, err := c.CancelReservation(context.Background(), "hong", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, result.Cancelled, 1)
	assert.Equal(t, "샌드위치", result.Cancelled[0].DispNm)
}

func TestLogout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]bool{"deviceRemoved": true})
	})

	removed, err := c.Logout(context.Background(), "hong", "fp")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestUpdateSettingsOmitsBlankFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hong", body["userId"])
		assert.Equal(t, "닭,샌", body["menuSeq"])
		_, hasPw := body["cafeteriaPw"]
		assert.False(t, hasPw, "blank password must be omitted from the payload")
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	err := c.UpdateSettings(context.Background(), SettingsUpdate{UserID: "hong", MenuSeq: "닭,샌"})
	require.NoError(t, err)
}
