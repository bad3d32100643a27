// Package holiday checks dates against the Korean public holiday API
// (data.go.kr SpcdeInfoService) with per-month caching in memory and in
// the holiday repository.
package holiday

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/repositories/holidays"
)

type restDeResponse struct {
	Header struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []struct {
				Locdate string `xml:"locdate"`
			} `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

// Service resolves whether a given date is a public holiday. Without an API
// key every date is treated as a working day.
type Service struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	repo       holidays.Repository
	logger     logging.Logger

	mu    sync.Mutex
	cache map[string][]string
}

func NewService(endpoint string, apiKey string, repo holidays.Repository, logger logging.Logger) *Service {
	return &Service{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		repo:       repo,
		logger:     logger,
		cache:      make(map[string][]string),
	}
}

// IsHoliday reports whether target falls on a public holiday. Lookup order
// is memory cache, then repository, then the remote API; a fresh API result
// is written back to both caches.
func (s *Service) IsHoliday(ctx context.Context, target time.Time) (bool, error) {
	if s.apiKey == "" {
		return false, nil
	}

	month := target.Format("200601")
	day := target.Format("20060102")

	s.mu.Lock()
	dates, ok := s.cache[month]
	s.mu.Unlock()
	if ok {
		return contains(dates, day), nil
	}

	if s.repo != nil {
		stored, found, err := s.repo.Get(ctx, month)
		if err != nil {
			s.logger.Warn(ctx, "holiday cache read failed", "month", month, "error", err.Error())
		} else if found {
			s.storeInMemory(month, stored)
			return contains(stored, day), nil
		}
	}

	fetched, err := s.fetchMonth(ctx, target.Year(), int(target.Month()))
	if err != nil {
		return false, err
	}
	s.storeInMemory(month, fetched)

	if s.repo != nil {
		if err := s.repo.Save(ctx, month, fetched); err != nil {
			s.logger.Warn(ctx, "holiday cache write failed", "month", month, "error", err.Error())
		}
	}
	return contains(fetched, day), nil
}

func (s *Service) storeInMemory(month string, dates []string) {
	s.mu.Lock()
	s.cache[month] = dates
	s.mu.Unlock()
}

func (s *Service) fetchMonth(ctx context.Context, year int, month int) ([]string, error) {
	params := url.Values{}
	params.Set("serviceKey", s.apiKey)
	params.Set("solYear", fmt.Sprintf("%d", year))
	params.Set("solMonth", fmt.Sprintf("%02d", month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read holiday response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday api status %d", resp.StatusCode)
	}

	var parsed restDeResponse
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse holiday response: %w", err)
	}
	if code := parsed.Header.ResultCode; code != "" && code != "00" {
		msg := parsed.Header.ResultMsg
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("holiday api error %s: %s", code, msg)
	}

	var dates []string
	for _, item := range parsed.Body.Items.Item {
		if d := strings.TrimSpace(item.Locdate); d != "" {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func contains(dates []string, day string) bool {
	for _, d := range dates {
		if d == day {
			return true
		}
	}
	return false
}
