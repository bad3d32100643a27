package cli

import (
	"context"
	"fmt"

	"github.com/jaehyuklim/lunchpilot/internal/client/api"
	"github.com/jaehyuklim/lunchpilot/internal/client/session"
	"github.com/jaehyuklim/lunchpilot/internal/common"
)

// setupScreen collects first-time registration details: cafeteria
// credentials, menu preference order, and delivery floor.
func (a *App) setupScreen(ctx context.Context) error {
	fmt.Fprintln(a.out, "처음 오셨네요. 계정을 등록합니다.")

	userID, err := GetSimpleText(a.reader, "사내식당 아이디 (exit: 종료)", a.out)
	if err != nil {
		return err
	}
	switch userID {
	case "exit", "quit":
		return errQuit
	case "":
		fmt.Fprintln(a.out, "아이디를 입력해주세요.")
		return nil
	}

	password, err := GetPassword("사내식당 비밀번호", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		fmt.Fprintln(a.out, "비밀번호를 입력해주세요.")
		return nil
	}

	menuSeq, err := runMenuEditor(a.reader, "", a.out)
	if err != nil {
		return err
	}

	floorNm, err := GetSimpleText(a.reader, "배달 수령 층 (예: 7F)", a.out)
	if err != nil {
		return err
	}
	if floorNm == "" {
		fmt.Fprintln(a.out, "수령 층을 입력해주세요.")
		return nil
	}

	res, err := a.api.Register(ctx, api.RegisterRequest{
		UserID:            userID,
		Password:          string(password),
		MenuSeq:           menuSeq,
		FloorNm:           floorNm,
		Email:             a.pendingEmail,
		DeviceFingerprint: a.deviceFingerprint(ctx),
	})
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	fmt.Fprintln(a.out, "등록이 완료되었습니다.")
	a.setSession(ctx, session.Session{
		UserID:       res.UserID,
		Email:        a.pendingEmail,
		SessionToken: res.SessionToken,
	})
	return nil
}
