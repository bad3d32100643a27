// Package cafeteria implements the HTTP client for the H.GreenFood
// reservation site. All endpoints are JSON-over-POST and share a session
// cookie obtained by Login.
package cafeteria

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// menuCornerMap maps the first character of a menu name to the site's
// corner division code.
var menuCornerMap = map[string]string{
	"샌": "0005",
	"샐": "0006",
	"빵": "0007",
	"헬": "0009",
	"닭": "0010",
}

// dupReservationMsg is the exact message the site returns when an order for
// the same date already exists. Callers treat it as success.
const dupReservationMsg = "동일날짜에 이미 등록된 예약이 존재합니다."

const (
	defaultBizplcCd = "196274"
	defaultBizbrCd  = "50856"
	mealDvCdLunch   = "0002"
)

// ErrAlreadyReserved is returned by PlaceOrder when the site rejects the
// order because a reservation for the same date already exists.
var ErrAlreadyReserved = errors.New("reservation already exists for this date")

// SiteError is a non-zero errorCode response from the cafeteria API.
type SiteError struct {
	Code    int
	Message string
}

func (e *SiteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cafeteria api error %d", e.Code)
	}
	return fmt.Sprintf("cafeteria api error %d: %s", e.Code, e.Message)
}

// Client talks to one cafeteria site instance. It is not safe for
// concurrent use across different user sessions because the session cookie
// is held in the underlying cookie jar; create one Client per login.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// Login authenticates against the site and stores the session cookie in the
// client's jar. Subsequent calls reuse that session.
func (c *Client) Login(ctx context.Context, userID string, password string) error {
	req := loginRequest{
		UserID:         userID,
		UserData:       password,
		OsDvCd:         "",
		UserCurrAppVer: "1.2.3",
		MobiPhTrmlID:   "",
	}
	_, err := c.post(ctx, "/api/com/login.do", req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// FetchReserveMenuList returns the menu corners available for reservation
// on the given provision date (YYYYMMDD).
func (c *Client) FetchReserveMenuList(ctx context.Context, prvdDt string, bizplcCd string) ([]ReserveEntry, error) {
	if bizplcCd == "" {
		bizplcCd = defaultBizplcCd
	}
	req := menuListRequest{
		PrvdDt:      prvdDt,
		BizplcCd:    bizplcCd,
		ClcoMvicoYn: "Y",
		ReseFgCd:    "3",
	}
	env, err := c.post(ctx, "/api/menu/reservation/selectReserveMenuList.do", req)
	if err != nil {
		return nil, fmt.Errorf("fetch menu list: %w", err)
	}
	if env.DataSets == nil {
		return nil, nil
	}
	return env.DataSets.ReserveList, nil
}

// FetchDeliveryOptions returns the pickup floors offered for a menu corner
// on the given date.
func (c *Client) FetchDeliveryOptions(ctx context.Context, conerDvCd string, prvdDt string, bizplcCd string) ([]DeliveryOption, error) {
	if bizplcCd == "" {
		bizplcCd = defaultBizplcCd
	}
	req := deliveryInfoRequest{
		ConerDvCd: conerDvCd,
		MealDvCd:  mealDvCdLunch,
		BizbrCd:   defaultBizbrCd,
		BizplcCd:  bizplcCd,
		PrvdDt:    prvdDt,
	}
	env, err := c.post(ctx, "/api/menu/reservation/selectDeliveryInfoTypeList.do", req)
	if err != nil {
		return nil, fmt.Errorf("fetch delivery info: %w", err)
	}
	if env.DataSets == nil {
		return nil, nil
	}
	return env.DataSets.DeliveryInfoTypeList, nil
}

// ActiveReservations lists the user's reservations for the given date,
// keeping only entries with status "A".
func (c *Client) ActiveReservations(ctx context.Context, prvdDt string, bizplcCd string) ([]ReserveEntry, error) {
	if bizplcCd == "" {
		bizplcCd = defaultBizplcCd
	}
	req := reservationListRequest{PrvdDt: prvdDt, BizplcCd: bizplcCd}
	env, err := c.post(ctx, "/api/menu/reservation/selectMenuReservationList.do", req)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if env.DataSets == nil {
		return nil, nil
	}
	var active []ReserveEntry
	for _, r := range env.DataSets.ReserveList {
		if r.PrvdDt == prvdDt && r.RsvStatCd == "A" {
			active = append(active, r)
		}
	}
	return active, nil
}

// PlaceOrder submits a reservation order. A duplicate-order rejection is
// reported as ErrAlreadyReserved so callers can treat it as success.
func (c *Client) PlaceOrder(ctx context.Context, order Order) error {
	_, err := c.post(ctx, "/api/menu/reservation/insertReservationOrder.do", order)
	if err != nil {
		var siteErr *SiteError
		if errors.As(err, &siteErr) && siteErr.Message == dupReservationMsg {
			return ErrAlreadyReserved
		}
		return fmt.Errorf("place order: %w", err)
	}
	return nil
}

// CancelReservation cancels a previously placed order. The entry must come
// from ActiveReservations so the identifying fields round-trip unchanged.
func (c *Client) CancelReservation(ctx context.Context, entry ReserveEntry) error {
	_, err := c.post(ctx, "/api/menu/reservation/updateMenuReservationCancel.do", entry)
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	return nil
}

// MenuCodeFor resolves a menu name initial to its corner division code.
// The second result is false for unknown initials.
func MenuCodeFor(initial string) (string, bool) {
	code, ok := menuCornerMap[strings.TrimSpace(initial)]
	return code, ok
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.baseURL+"/ctf/menu/reservation/menuReservation.do")
	req.Header.Set("Origin", c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if env.ErrorCode != 0 {
		return &env, &SiteError{Code: env.ErrorCode, Message: env.ErrorMsg}
	}
	if resp.StatusCode != http.StatusOK {
		return &env, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &env, nil
}
