package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/jaehyuklim/lunchpilot/internal/client/api"
	"github.com/jaehyuklim/lunchpilot/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeResumesSavedSession(t *testing.T) {
	f := newFixture(t, "")
	f.store.saved = &session.Session{UserID: "hong", Email: "hong@example.com", SessionToken: "tok"}

	f.app.initialize(context.Background())

	assert.Equal(t, ScreenDashboard, f.app.screen)
	require.NotNil(t, f.app.session)
	assert.Equal(t, "hong", f.app.session.UserID)
}

func TestInitializeAuthenticatedDevice(t *testing.T) {
	f := newFixture(t, "")
	f.api.checkDevice = &api.DeviceCheckResult{
		Authenticated: true,
		UserID:        "hong",
		Email:         "hong@example.com",
		SessionToken:  "tok-device",
	}

	f.app.initialize(context.Background())

	assert.Equal(t, ScreenDashboard, f.app.screen)
	require.NotNil(t, f.app.session)
	assert.Equal(t, "tok-device", f.app.session.SessionToken)

	// the session is persisted for the next start
	require.NotNil(t, f.store.saved)
	assert.Equal(t, "hong", f.store.saved.UserID)
}

func TestInitializeUnknownDevice(t *testing.T) {
	f := newFixture(t, "")
	f.api.checkDevice = &api.DeviceCheckResult{Authenticated: false}
	f.store.saved = nil

	f.app.initialize(context.Background())

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Nil(t, f.app.session)
	assert.Nil(t, f.store.saved)
}

func TestInitializeCheckDeviceError(t *testing.T) {
	f := newFixture(t, "")
	f.api.checkDeviceErr = &api.CallError{Message: "server down"}

	f.app.initialize(context.Background())

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Nil(t, f.app.session)
	assert.Nil(t, f.store.saved)
}

func TestInitializeFingerprintUnavailable(t *testing.T) {
	f := newFixture(t, "")
	f.app.fp = &fakeFingerprint{err: errNoFingerprint}

	f.app.initialize(context.Background())

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Nil(t, f.app.session)
}

func TestEmailScreenSendsCode(t *testing.T) {
	f := newFixture(t, "a@b.com\n")
	f.app.screen = ScreenEmail

	require.NoError(t, f.app.emailScreen(context.Background()))

	assert.Equal(t, ScreenVerify, f.app.screen)
	assert.Equal(t, "a@b.com", f.app.pendingEmail)
	assert.Equal(t, []string{"a@b.com"}, f.api.sentCodes)
}

func TestEmailScreenRejectsInvalidAddress(t *testing.T) {
	f := newFixture(t, "not-an-email\n")
	f.app.screen = ScreenEmail

	require.NoError(t, f.app.emailScreen(context.Background()))

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Empty(t, f.api.sentCodes)
	assert.Contains(t, f.out.String(), "올바른 이메일 주소")
}

func TestEmailScreenBlocksWhenFull(t *testing.T) {
	f := newFixture(t, "a@b.com\n")
	f.app.screen = ScreenEmail
	f.api.status = &api.RegistrationStatus{Count: 10, Limit: 10, IsFull: true}

	require.NoError(t, f.app.emailScreen(context.Background()))

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Empty(t, f.api.sentCodes)
}

func TestEmailScreenShowsServerError(t *testing.T) {
	f := newFixture(t, "a@b.com\n")
	f.app.screen = ScreenEmail
	f.api.sendCodeErr = &api.CallError{StatusCode: 500, Message: "메일 발송에 실패했습니다."}

	require.NoError(t, f.app.emailScreen(context.Background()))

	assert.Equal(t, ScreenEmail, f.app.screen)
	assert.Contains(t, f.out.String(), "메일 발송에 실패했습니다.")
}

func TestVerifyScreenExistingAccount(t *testing.T) {
	f := newFixture(t, "123456\n")
	f.app.screen = ScreenVerify
	f.app.pendingEmail = "a@b.com"
	f.api.verify = &api.VerifyCodeResult{HasAccount: true, UserID: "hong", SessionToken: "tok-verify"}

	require.NoError(t, f.app.verifyScreen(context.Background()))

	assert.Equal(t, ScreenDashboard, f.app.screen)
	require.NotNil(t, f.app.session)
	assert.Equal(t, "hong", f.app.session.UserID)
	assert.Equal(t, "tok-verify", f.app.session.SessionToken)
	assert.Equal(t, "a@b.com", f.app.session.Email)
}

func TestVerifyScreenNewAccount(t *testing.T) {
	f := newFixture(t, "123456\n")
	f.app.screen = ScreenVerify
	f.app.pendingEmail = "a@b.com"
	f.api.verify = &api.VerifyCodeResult{HasAccount: false}

	require.NoError(t, f.app.verifyScreen(context.Background()))

	assert.Equal(t, ScreenSetup, f.app.screen)
	assert.Nil(t, f.app.session)
}

func TestVerifyScreenRequiresSixCharacters(t *testing.T) {
	f := newFixture(t, "123\n")
	f.app.screen = ScreenVerify
	f.app.pendingEmail = "a@b.com"

	require.NoError(t, f.app.verifyScreen(context.Background()))

	assert.Equal(t, ScreenVerify, f.app.screen)
	assert.Contains(t, f.out.String(), "6자리")
}

func TestVerifyScreenBack(t *testing.T) {
	f := newFixture(t, "back\n")
	f.app.screen = ScreenVerify

	require.NoError(t, f.app.verifyScreen(context.Background()))

	assert.Equal(t, ScreenEmail, f.app.screen)
}

func TestVerifyScreenWrongCodeStays(t *testing.T) {
	f := newFixture(t, "654321\n")
	f.app.screen = ScreenVerify
	f.app.pendingEmail = "a@b.com"
	f.api.verifyErr = &api.CallError{StatusCode: 400, Message: "verification code mismatch"}

	require.NoError(t, f.app.verifyScreen(context.Background()))

	assert.Equal(t, ScreenVerify, f.app.screen)
	assert.Contains(t, f.out.String(), "verification code mismatch")
}

func TestSetupScreenRegisters(t *testing.T) {
	stubPassword(t, "secret")
	f := newFixture(t, "u1\ndone\n7F\n")
	f.app.screen = ScreenSetup
	f.app.pendingEmail = "a@b.com"
	f.api.register = &api.RegisterResult{UserID: "u1", SessionToken: "tok-reg"}

	require.NoError(t, f.app.setupScreen(context.Background()))

	assert.Equal(t, ScreenDashboard, f.app.screen)
	require.NotNil(t, f.app.session)
	assert.Equal(t, "u1", f.app.session.UserID)
	assert.Equal(t, "a@b.com", f.app.session.Email)

	require.Len(t, f.api.registerReqs, 1)
	req := f.api.registerReqs[0]
	assert.Equal(t, "secret", req.Password)
	assert.Equal(t, "샌,샐,빵,헬,닭", req.MenuSeq)
	assert.Equal(t, "7F", req.FloorNm)
	assert.Equal(t, "fp-1", req.DeviceFingerprint)
}

func TestSetupScreenServerErrorStays(t *testing.T) {
	stubPassword(t, "secret")
	f := newFixture(t, "u1\ndone\n7F\n")
	f.app.screen = ScreenSetup
	f.app.pendingEmail = "a@b.com"
	f.api.registerErr = &api.CallError{StatusCode: 409, Message: "registration is full"}

	require.NoError(t, f.app.setupScreen(context.Background()))

	assert.Equal(t, ScreenSetup, f.app.screen)
	assert.Nil(t, f.app.session)
	assert.Contains(t, f.out.String(), "registration is full")
}

// Full walk: request a code, verify it without an account, register, land
// on the dashboard with the new session.
func TestSignUpFlow(t *testing.T) {
	stubPassword(t, "secret")
	input := "a@b.com\n" + // email screen
		"123456\n" + // verify screen
		"u1\ndone\n7F\n" + // setup screen
		"exit\n" // dashboard
	f := newFixture(t, input)
	f.api.verify = &api.VerifyCodeResult{HasAccount: false}
	f.api.register = &api.RegisterResult{UserID: "u1", SessionToken: "tok-reg"}
	f.app.fp = &fakeFingerprint{err: errNoFingerprint}

	f.app.Run(context.Background())

	assert.Equal(t, ScreenDashboard, f.app.screen)
	require.NotNil(t, f.app.session)
	assert.Equal(t, "u1", f.app.session.UserID)
	assert.Equal(t, "a@b.com", f.app.session.Email)
	assert.Contains(t, f.out.String(), "Bye!")
}

func TestRunGuardsDashboardWithoutSession(t *testing.T) {
	f := newFixture(t, "exit\n")
	f.store.saved = nil
	f.app.fp = &fakeFingerprint{err: errors.New("nope")}

	f.app.Run(context.Background())

	// the loop never rendered the dashboard, it fell back to email
	assert.Equal(t, ScreenEmail, f.app.screen)
}
