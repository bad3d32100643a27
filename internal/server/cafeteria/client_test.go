package cafeteria

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
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, 5*time.Second)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		msg     string
		wantErr bool
	}{
		{name: "success", code: 0},
		{name: "bad credentials", code: 100, msg: "아이디 또는 비밀번호를 확인해주세요.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/com/login.do", r.URL.Path)
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "user1", body["userId"])
				assert.Equal(t, "pass1", body["userData"])
				json.NewEncoder(w).Encode(map[string]any{"errorCode": tt.code, "errorMsg": tt.msg})
			})

			err := client.Login(context.Background(), "user1", "pass1")
			if tt.wantErr {
				require.Error(t, err)
				var siteErr *SiteError
				require.ErrorAs(t, err, &siteErr)
				assert.Equal(t, tt.code, siteErr.Code)
				assert.Equal(t, tt.msg, siteErr.Message)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFetchReserveMenuList(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/menu/reservation/selectReserveMenuList.do", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "20260902", body["prvdDt"])
		assert.Equal(t, "196274", body["bizplcCd"])
		json.NewEncoder(w).Encode(map[string]any{
			"errorCode": 0,
			"dataSets": map[string]any{
				"reserveList": []map[string]any{
					{"dispNm": "샌드위치", "conerDvCd": "0005", "bizplcCd": "196274", "mealDvCd": "0002"},
					{"dispNm": "샐러드", "conerDvCd": "0006", "bizplcCd": "196274", "mealDvCd": "0002"},
				},
			},
		})
	})

	menus, err := client.FetchReserveMenuList(context.Background(), "20260902", "")
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "0005", menus[0].ConerDvCd)
	assert.Equal(t, "샐러드", menus[1].DispNm)
}

func TestActiveReservationsFiltering(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errorCode": 0,
			"dataSets": map[string]any{
				"reserveList": []map[string]any{
					{"dispNm": "샌드위치", "prvdDt": "20260902", "rsvStatCd": "A"},
					{"dispNm": "샐러드", "prvdDt": "20260902", "rsvStatCd": "C"},
					{"dispNm": "빵", "prvdDt": "20260903", "rsvStatCd": "A"},
				},
			},
		})
	})

	active, err := client.ActiveReservations(context.Background(), "20260902", "196274")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "샌드위치", active[0].DispNm)
}

func TestPlaceOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/menu/reservation/insertReservationOrder.do", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"errorCode": 0})
		})
		err := client.PlaceOrder(context.Background(), Order{ConerDvCd: "0005", PrvdDt: "20260902"})
		require.NoError(t, err)
	})

	t.Run("duplicate treated as already reserved", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"errorCode": 300,
				"errorMsg":  "동일날짜에 이미 등록된 예약이 존재합니다.",
			})
		})
		err := client.PlaceOrder(context.Background(), Order{ConerDvCd: "0005", PrvdDt: "20260902"})
		require.ErrorIs(t, err, ErrAlreadyReserved)
	})

	t.Run("other site error passed through", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"errorCode": 500, "errorMsg": "잔여 수량이 없습니다."})
		})
		err := client.PlaceOrder(context.Background(), Order{ConerDvCd: "0006", PrvdDt: "20260902"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAlreadyReserved)
		var siteErr *SiteError
		require.ErrorAs(t, err, &siteErr)
		assert.Equal(t, 500, siteErr.Code)
	})
}

func TestPostNonJSONBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	})
	_, err := client.FetchReserveMenuList(context.Background(), "20260902", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestMenuCodeFor(t *testing.T) {
	tests := []struct {
		initial string
		want    string
		ok      bool
	}{
		{"샌", "0005", true},
		{"샐", "0006", true},
		{"빵", "0007", true},
		{"헬", "0009", true},
		{"닭", "0010", true},
		{" 샌 ", "0005", true},
		{"피", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		code, ok := MenuCodeFor(tt.initial)
		assert.Equal(t, tt.ok, ok, "initial %q", tt.initial)
		assert.Equal(t, tt.want, code, "initial %q", tt.initial)
	}
}

func TestSessionCookieReuse(t *testing.T) {
	var gotCookie bool
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/com/login.do":
			// the site scopes its session cookie to the whole host
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
		default:
			if c, err := r.Cookie("JSESSIONID"); err == nil && c.Value == "abc123" {
				gotCookie = true
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"errorCode": 0})
	})

	require.NoError(t, client.Login(context.Background(), "user1", "pass1"))
	_, err := client.ActiveReservations(context.Background(), "20260902", "")
	require.NoError(t, err)
	assert.True(t, gotCookie, "session cookie should be sent on later calls")
}

func TestSiteErrorMessage(t *testing.T) {
	err := &SiteError{Code: 300}
	assert.Equal(t, "cafeteria api error 300", err.Error())
	err = &SiteError{Code: 300, Message: "만료"}
	assert.Equal(t, "cafeteria api error 300: 만료", err.Error())
	assert.True(t, errors.As(error(err), new(*SiteError)))
}
