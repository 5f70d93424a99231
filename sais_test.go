package suffixer

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func naiveSuffixArray32(text []int32) []int32 {
	sa := make([]int32, len(text))
	for i := range sa {
		sa[i] = int32(i)
	}
	slices.SortFunc(sa, func(a, b int32) int {
		return slices.Compare(text[a:], text[b:])
	})
	return sa
}

func TestSuffixArray32(t *testing.T) {
	tests := []struct {
		name string
		text []int32
		max  int
	}{
		{"empty", []int32{}, 1},
		{"single", []int32{0}, 1},
		{"run", []int32{2, 2, 2, 2, 2}, 3},
		{"alternating", []int32{1, 0, 1, 0, 1, 0, 1}, 2},
		{"distinct", []int32{4, 3, 2, 1, 0}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, naiveSuffixArray32(tc.text), suffixArray32(tc.text, tc.max))
		})
	}

	r := rand.New(rand.NewSource(71))
	for round := 0; round < 200; round++ {
		textMax := 1 + r.Intn(6)
		text := make([]int32, r.Intn(400))
		for i := range text {
			text[i] = int32(r.Intn(textMax))
		}
		require.Equal(t, naiveSuffixArray32(text), suffixArray32(text, textMax), "round %d", round)
	}
}
