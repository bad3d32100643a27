package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MenuItem is one entry of the fixed cafeteria corner catalog.
type MenuItem struct {
	Code  string
	Label string
}

// menuCatalog is the full corner catalog in its default preference order.
var menuCatalog = []MenuItem{
	{Code: "샌", Label: "샌드위치"},
	{Code: "샐", Label: "샐러드"},
	{Code: "빵", Label: "베이커리"},
	{Code: "헬", Label: "헬시세트"},
	{Code: "닭", Label: "닭가슴살"},
}

// MenuOrder holds a reorderable preference ranking over the catalog. Any
// sequence of moves keeps it a permutation of the full catalog, so the
// serialized form never gains duplicates or loses corners.
type MenuOrder struct {
	items []MenuItem
}

// NewMenuOrder builds an order from a comma-joined code list. Known codes
// keep their given rank, unknown codes are dropped, and catalog entries
// missing from the list are appended in catalog order.
func NewMenuOrder(seq string) *MenuOrder {
	byCode := make(map[string]MenuItem, len(menuCatalog))
	for _, item := range menuCatalog {
		byCode[item.Code] = item
	}

	var items []MenuItem
	seen := make(map[string]bool)
	for _, code := range strings.Split(seq, ",") {
		code = strings.TrimSpace(code)
		item, ok := byCode[code]
		if !ok || seen[code] {
			continue
		}
		items = append(items, item)
		seen[code] = true
	}
	for _, item := range menuCatalog {
		if !seen[item.Code] {
			items = append(items, item)
		}
	}

	return &MenuOrder{items: items}
}

// Move relocates the item at position from to position to (0-based).
func (m *MenuOrder) Move(from, to int) error {
	if from < 0 || from >= len(m.items) || to < 0 || to >= len(m.items) {
		return fmt.Errorf("position out of range: %d -> %d", from+1, to+1)
	}
	item := m.items[from]
	m.items = append(m.items[:from], m.items[from+1:]...)
	rest := append([]MenuItem{item}, m.items[to:]...)
	m.items = append(m.items[:to], rest...)
	return nil
}

// Items returns the current ranking.
func (m *MenuOrder) Items() []MenuItem {
	out := make([]MenuItem, len(m.items))
	copy(out, m.items)
	return out
}

// Serialize returns the comma-joined code list the backend stores.
func (m *MenuOrder) Serialize() string {
	codes := make([]string, len(m.items))
	for i, item := range m.items {
		codes[i] = item.Code
	}
	return strings.Join(codes, ",")
}

// runMenuEditor drives an interactive reorder of the menu preference list
// and returns the resulting comma-joined code sequence.
func runMenuEditor(reader *bufio.Reader, current string, w io.Writer) (string, error) {
	order := NewMenuOrder(current)

	for {
		fmt.Fprintln(w, "메뉴 우선순위 (1순위부터):")
		for i, item := range order.Items() {
			fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, item.Label, item.Code)
		}

		line, err := GetSimpleText(reader, "이동: <번호> <새 위치> / done: 완료", w)
		if err != nil {
			return "", err
		}
		if line == "done" || line == "" {
			return order.Serialize(), nil
		}

		var from, to int
		if _, err := fmt.Sscanf(line, "%d %d", &from, &to); err != nil {
			fmt.Fprintln(w, "입력 형식: <번호> <새 위치> (예: 3 1)")
			continue
		}
		if err := order.Move(from-1, to-1); err != nil {
			fmt.Fprintln(w, "잘못된 위치입니다.")
		}
	}
}
