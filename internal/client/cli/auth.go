package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaehyuklim/lunchpilot/internal/client/session"
)

// emailScreen asks for an email address and requests a one-time code.
// One prompt per call; validation failures stay on this screen.
func (a *App) emailScreen(ctx context.Context) error {
	status, err := a.api.RegistrationStatus(ctx)
	if err == nil {
		fmt.Fprintf(a.out, "등록 현황: %d / %d\n", status.Count, status.Limit)
	}

	email, err := GetSimpleText(a.reader, "이메일 주소를 입력하세요 (exit: 종료)", a.out)
	if err != nil {
		return err
	}

	switch email {
	case "exit", "quit":
		return errQuit
	case "":
		return nil
	}

	if !strings.Contains(email, "@") {
		fmt.Fprintln(a.out, "올바른 이메일 주소를 입력해주세요.")
		return nil
	}
	if status != nil && status.IsFull {
		fmt.Fprintln(a.out, "등록 인원이 가득 차 새 등록을 받을 수 없습니다.")
		return nil
	}

	if err := a.api.SendCode(ctx, email); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	fmt.Fprintln(a.out, "인증 코드를 이메일로 발송했습니다.")
	a.pendingEmail = email
	a.screen = ScreenVerify
	return nil
}

// verifyScreen checks the emailed 6-digit code. A valid code lands on the
// dashboard for existing accounts or on setup for new ones.
func (a *App) verifyScreen(ctx context.Context) error {
	code, err := GetSimpleText(a.reader, "인증 코드 6자리를 입력하세요 (back: 뒤로, exit: 종료)", a.out)
	if err != nil {
		return err
	}

	switch code {
	case "exit", "quit":
		return errQuit
	case "back":
		a.screen = ScreenEmail
		return nil
	case "":
		return nil
	}

	if len(code) != 6 {
		fmt.Fprintln(a.out, "인증 코드는 6자리입니다.")
		return nil
	}

	res, err := a.api.VerifyCode(ctx, a.pendingEmail, code, a.deviceFingerprint(ctx))
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	if res.HasAccount {
		a.setSession(ctx, session.Session{
			UserID:       res.UserID,
			Email:        a.pendingEmail,
			SessionToken: res.SessionToken,
		})
		return nil
	}

	a.screen = ScreenSetup
	return nil
}
