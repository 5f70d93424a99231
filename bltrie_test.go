package suffixer

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusth/suffixer/encseq"
)

func TestCompareChars(t *testing.T) {
	assert.Equal(t, 1, compareChars(2, 1))
	assert.Equal(t, -1, compareChars(1, 2))
	assert.Equal(t, 0, compareChars(3, 3))
	assert.Equal(t, -1, compareChars(terminator, terminator))
	assert.Equal(t, -1, compareChars(terminator, 0))
	assert.Equal(t, 1, compareChars(0, terminator))
}

func TestBlindTrieSortsGroups(t *testing.T) {
	r := rand.New(rand.NewSource(51))
	for round := 0; round < 200; round++ {
		seq := randomDNA(t, r, 1+r.Intn(2), 120, "ACGT"[:1+r.Intn(4)], 0.03)
		mode := allModes[r.Intn(len(allModes))]
		v := newView(seq, mode, r.Intn(2) == 0)

		// Group all regular suffixes sharing the first symbol.
		var group []int
		first := -2
		for p := 0; p < seq.Len(); p++ {
			c := refSymbol(seq, mode, p)
			if c == -1 {
				continue
			}
			if first == -2 {
				first = c
			}
			if c == first {
				group = append(group, p)
			}
		}
		if len(group) < 2 {
			continue
		}

		bt := newBlindTrie(v, len(group))
		got := slices.Clone(group)
		lcp := make([]int, len(got))
		bt.sort(got, lcp, 1, unbounded)

		want := slices.Clone(group)
		slices.SortFunc(want, func(a, b int) int { return refCompare(seq, mode, a, b) })
		require.Equal(t, want, got, "round %d", round)
		for i := 1; i < len(got); i++ {
			require.Equal(t, refLCP(seq, mode, got[i-1], got[i]), lcp[i], "round %d rank %d", round, i)
		}
		require.LessOrEqual(t, len(bt.nodes), 2*len(group)+1)
	}
}

func TestBlindTrieDepthLimit(t *testing.T) {
	seq := dna(t, "CACACACAC")
	v := newView(seq, encseq.Forward, false)
	group := []int{1, 3, 5, 7}
	lcp := make([]int, len(group))

	newBlindTrie(v, len(group)).sort(group, lcp, 1, 4)
	// Suffix 7 is "AC" and ends first; the rest agree on four symbols.
	assert.Equal(t, []int{7, 1, 3, 5}, group)
	assert.Equal(t, []int{0, 2, 4, 4}, lcp)
}

func TestBlindTrieReusesArena(t *testing.T) {
	seq := dna(t, "ACGTACGTTGCA")
	v := newView(seq, encseq.Forward, false)
	bt := newBlindTrie(v, 8)

	a := []int{0, 4, 8}
	bt.sort(a, nil, 0, unbounded)
	assert.Equal(t, []int{0, 4, 8}, a)

	b := []int{1, 5, 9, 2, 6}
	slices.Sort(b)
	bt.sort(b, nil, 0, unbounded)
	want := slices.Clone(b)
	slices.SortFunc(want, func(x, y int) int { return refCompare(seq, encseq.Forward, x, y) })
	assert.Equal(t, want, b)
}
