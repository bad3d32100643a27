package cli

import (
	"bufio"
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(items []MenuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Code
	}
	return out
}

func TestNewMenuOrderDefault(t *testing.T) {
	order := NewMenuOrder("")
	assert.Equal(t, "샌,샐,빵,헬,닭", order.Serialize())
}

func TestNewMenuOrderFromExisting(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"partial list keeps rank, rest appended", "샐,샌", "샐,샌,빵,헬,닭"},
		{"full custom order preserved", "닭,헬,빵,샐,샌", "닭,헬,빵,샐,샌"},
		{"unknown codes dropped", "피,샐", "샐,샌,빵,헬,닭"},
		{"duplicates ignored", "샐,샐,샌", "샐,샌,빵,헬,닭"},
		{"whitespace tolerated", " 빵 , 닭 ", "빵,닭,샌,샐,헬"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMenuOrder(tt.seq).Serialize())
		})
	}
}

func TestMoveKeepsPermutation(t *testing.T) {
	want := []string{"닭", "빵", "샌", "샐", "헬"}

	order := NewMenuOrder("")
	moves := [][2]int{{0, 4}, {2, 0}, {3, 1}, {4, 2}, {1, 1}, {4, 0}}
	for _, mv := range moves {
		require.NoError(t, order.Move(mv[0], mv[1]))

		got := codes(order.Items())
		sort.Strings(got)
		assert.Equal(t, want, got)
	}
}

func TestMoveToEnd(t *testing.T) {
	order := NewMenuOrder("")
	require.NoError(t, order.Move(0, 4))
	assert.Equal(t, "샐,빵,헬,닭,샌", order.Serialize())
}

func TestMoveOutOfRange(t *testing.T) {
	order := NewMenuOrder("")
	assert.Error(t, order.Move(-1, 0))
	assert.Error(t, order.Move(0, 5))
	assert.Error(t, order.Move(5, 0))
}

func TestRunMenuEditor(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("3 1\ndone\n"))
	var out bytes.Buffer

	seq, err := runMenuEditor(reader, "", &out)
	require.NoError(t, err)
	assert.Equal(t, "빵,샌,샐,헬,닭", seq)
	assert.Contains(t, out.String(), "베이커리")
}

func TestRunMenuEditorBadInput(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("nonsense\n9 1\ndone\n"))
	var out bytes.Buffer

	seq, err := runMenuEditor(reader, "", &out)
	require.NoError(t, err)
	assert.Equal(t, "샌,샐,빵,헬,닭", seq)
	assert.Contains(t, out.String(), "잘못된 위치입니다.")
}
