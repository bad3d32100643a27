package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/client/api"
	"github.com/jaehyuklim/lunchpilot/internal/common"
)

// nowFn is a test seam for the current time.
var nowFn = time.Now

// dashboardScreen shows current reservations and dispatches dashboard
// commands until the user leaves or logs out.
func (a *App) dashboardScreen(ctx context.Context) error {
	a.refreshDashboard(ctx)

	for a.screen == ScreenDashboard {
		cmd, err := GetSimpleText(a.reader, "명령을 입력하세요 (help: 도움말)", a.out)
		if err != nil {
			return err
		}

		switch cmd {
		case "":
			continue
		case "help":
			fmt.Fprintln(a.out, "Available commands: refresh, reserve, cancel, auto, settings, dates, logout, delete, exit")
		case "r", "refresh":
			a.refreshDashboard(ctx)
		case "reserve":
			a.reserveNow(ctx)
		case "cancel":
			if err := a.cancelReservation(ctx); err != nil {
				return err
			}
		case "auto":
			a.toggleAuto(ctx)
		case "settings":
			if err := a.editSettings(ctx); err != nil {
				return err
			}
		case "dates":
			if err := a.editExclusionDates(ctx); err != nil {
				return err
			}
		case "logout":
			a.logout(ctx)
		case "delete":
			if err := a.deleteAccount(ctx); err != nil {
				return err
			}
		case "exit", "quit":
			return errQuit
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
	return nil
}

// refreshDashboard reloads settings and looks up today's and tomorrow's
// reservations. The two lookups target disjoint dates and run concurrently.
func (a *App) refreshDashboard(ctx context.Context) {
	userID := a.session.UserID

	if s, err := a.api.GetSettings(ctx, userID); err == nil {
		a.autoEnabled = s.AutoReservationEnabled
	}

	today := nowFn()
	dates := []string{
		today.Format(dateLayout),
		today.AddDate(0, 0, 1).Format(dateLayout),
	}

	results := make([]*api.CheckReservationResult, len(dates))
	errs := make([]error, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			results[i], errs[i] = a.api.CheckReservation(ctx, userID, date)
		}(i, date)
	}
	wg.Wait()

	var reservations []api.Reservation
	for i, res := range results {
		if errs[i] != nil {
			fmt.Fprintln(a.out, errs[i].Error())
			continue
		}
		reservations = append(reservations, res.Reservations...)
	}

	fmt.Fprintf(a.out, "[%s] 자동 예약: %s\n", a.session.Email, onOff(a.autoEnabled))
	if len(reservations) == 0 {
		fmt.Fprintln(a.out, "예약 내역이 없습니다.")
		return
	}
	for _, r := range reservations {
		fmt.Fprintf(a.out, "  %s  %s (%s)\n", formatServiceDate(r.PrvdDt), r.DispNm, r.ConerNm)
	}
}

// reserveNow triggers an immediate reservation attempt and re-fetches the
// reservation list afterwards.
func (a *App) reserveNow(ctx context.Context) {
	attempt, err := a.api.MakeImmediateReservation(ctx, a.session.UserID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if attempt.Success {
		fmt.Fprintf(a.out, "✅ %s\n", attempt.Message)
	} else {
		fmt.Fprintf(a.out, "예약 실패: %s\n", attempt.Message)
	}
	a.refreshDashboard(ctx)
}

// cancelReservation asks for a date, cancels that day's reservation on the
// cafeteria site and re-fetches the reservation list.
func (a *App) cancelReservation(ctx context.Context) error {
	date, err := GetSimpleText(a.reader, "취소할 날짜를 입력하세요 (YYYY-MM-DD, 빈 입력: 돌아가기)", a.out)
	if err != nil {
		return err
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		fmt.Fprintln(a.out, "날짜 형식이 올바르지 않습니다. (YYYY-MM-DD)")
		return nil
	}

	result, err := a.api.CancelReservation(ctx, a.session.UserID, date)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}
	for _, r := range result.Cancelled {
		fmt.Fprintf(a.out, "예약 취소 완료: %s  %s\n", formatServiceDate(r.PrvdDt), r.DispNm)
	}
	a.refreshDashboard(ctx)
	return nil
}

// toggleAuto flips the auto-reservation switch. On error the displayed
// value is left unchanged and the server message is shown as is.
func (a *App) toggleAuto(ctx context.Context) {
	next := !a.autoEnabled
	if err := a.api.ToggleAutoReservation(ctx, a.session.UserID, next); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	a.autoEnabled = next
	fmt.Fprintf(a.out, "자동 예약: %s\n", onOff(a.autoEnabled))
}

func (a *App) logout(ctx context.Context) {
	if _, err := a.api.Logout(ctx, a.session.UserID, a.deviceFingerprint(ctx)); err != nil {
		fmt.Fprintln(a.out, err.Error())
	}
	fmt.Fprintln(a.out, "로그아웃되었습니다.")
	a.toEmail(ctx)
}

// deleteAccount removes the account after an explicit confirmation.
func (a *App) deleteAccount(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "계정을 삭제하려면 delete를 입력하세요", a.out)
	if err != nil {
		return err
	}
	if answer != "delete" {
		fmt.Fprintln(a.out, "취소되었습니다.")
		return nil
	}

	if err := a.api.DeleteAccount(ctx, a.session.UserID); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	fmt.Fprintln(a.out, "계정이 삭제되었습니다.")
	a.toEmail(ctx)
	return nil
}

// editSettings updates preferences. Blank answers keep the current value
// and are omitted from the update payload.
func (a *App) editSettings(ctx context.Context) error {
	cur, err := a.api.GetSettings(ctx, a.session.UserID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	fmt.Fprintf(a.out, "현재 설정: 메뉴 %s / 수령 층 %s\n", strings.Join(cur.MenuSeq, ","), cur.FloorNm)

	update := api.SettingsUpdate{UserID: a.session.UserID}

	answer, err := GetSimpleText(a.reader, "메뉴 우선순위를 수정하시겠습니까? (y/N)", a.out)
	if err != nil {
		return err
	}
	if answer == "y" || answer == "Y" {
		menuSeq, err := runMenuEditor(a.reader, strings.Join(cur.MenuSeq, ","), a.out)
		if err != nil {
			return err
		}
		update.MenuSeq = menuSeq
	}

	floor, err := GetSimpleText(a.reader, "수령 층 (엔터: 유지)", a.out)
	if err != nil {
		return err
	}
	update.FloorNm = floor

	newID, err := GetSimpleText(a.reader, "새 식당 아이디 (엔터: 유지)", a.out)
	if err != nil {
		return err
	}
	update.CafeteriaID = newID

	answer, err = GetSimpleText(a.reader, "식당 비밀번호를 변경하시겠습니까? (y/N)", a.out)
	if err != nil {
		return err
	}
	if answer == "y" || answer == "Y" {
		pw, err := GetPassword("새 식당 비밀번호", a.out)
		if err != nil {
			return err
		}
		update.CafeteriaPw = string(pw)
		common.WipeByteArray(pw)
	}

	if update.MenuSeq == "" && update.FloorNm == "" && update.CafeteriaID == "" && update.CafeteriaPw == "" {
		fmt.Fprintln(a.out, "변경된 내용이 없습니다.")
		return nil
	}

	if err := a.api.UpdateSettings(ctx, update); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}
	fmt.Fprintln(a.out, "설정이 저장되었습니다.")
	return nil
}

// editExclusionDates toggles calendar days in the exclusion list and saves
// the full replacement list.
func (a *App) editExclusionDates(ctx context.Context) error {
	cur, err := a.api.GetSettings(ctx, a.session.UserID)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return nil
	}

	set := NewDateSet(cur.ExclusionDates)

	for {
		if dates := set.Dates(); len(dates) > 0 {
			fmt.Fprintf(a.out, "제외 날짜: %s\n", strings.Join(dates, ", "))
		} else {
			fmt.Fprintln(a.out, "제외 날짜 없음")
		}

		line, err := GetSimpleText(a.reader, "날짜 입력(YYYY-MM-DD)으로 토글 / save: 저장 / back: 취소", a.out)
		if err != nil {
			return err
		}

		switch line {
		case "back":
			return nil
		case "save":
			if err := a.api.UpdateExclusionDates(ctx, a.session.UserID, set.Dates()); err != nil {
				fmt.Fprintln(a.out, err.Error())
				return nil
			}
			fmt.Fprintln(a.out, "제외 날짜가 저장되었습니다.")
			return nil
		case "":
			continue
		}

		if err := set.Toggle(line, nowFn()); err != nil {
			fmt.Fprintln(a.out, "지난 날짜이거나 형식이 올바르지 않습니다.")
		}
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}

// formatServiceDate turns the 8-digit service date into YYYY-MM-DD.
func formatServiceDate(prvdDt string) string {
	if t, err := time.Parse("20060102", prvdDt); err == nil {
		return t.Format(dateLayout)
	}
	return prvdDt
}
