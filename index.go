package suffixer

import (
	"sort"

	"github.com/viniciusth/rmq"

	"github.com/viniciusth/suffixer/encseq"
)

// Index answers substring queries over a suffix array. Patterns are made of
// regular symbol codes and never match across special symbols.
type Index struct {
	v      *view
	sa     []int
	sorted int
	// lcp[i] is the common prefix length of sa[i] and sa[i+1] over the
	// sorted ranks.
	lcp    []int
	lcpRMQ *rmq.RMQHybridNaive[int]

	seqIndex []int
	prev     []int
	prevRMQ  *rmq.RMQHybridNaive[int]
}

// NewIndex wraps a complete, fully sorted suffix array of seq read in mode.
// The LCP table is computed when sa does not carry one. Record listing is
// enabled when seq is made of several records.
func NewIndex(seq encseq.Sequence, mode encseq.ReadMode, sa *SuffixArray) *Index {
	v := newView(seq, mode, false)
	full := sa.LCP
	if full == nil {
		full = kasai(v, sa.Positions)
	}

	x := &Index{
		v:      v,
		sa:     sa.Positions,
		sorted: sa.SpecialStart,
	}
	if x.sorted > 1 {
		x.lcp = make([]int, x.sorted-1)
		copy(x.lcp, full[1:x.sorted])
		x.lcpRMQ = rmq.NewRMQHybridNaive(x.lcp)
	}

	if ms, ok := seq.(encseq.MultiSequence); ok && x.sorted > 0 {
		x.seqIndex = buildSequenceIndex(x.sa[:x.sorted], ms, mode)
		x.prev = buildPrevArray(x.seqIndex, ms.NumSequences())
		x.prevRMQ = rmq.NewRMQHybridNaive(x.prev)
	}
	return x
}

// buildSequenceIndex maps every rank to the record its suffix starts in.
func buildSequenceIndex(sa []int, ms encseq.MultiSequence, mode encseq.ReadMode) []int {
	seqIndex := make([]int, len(sa))
	for i, pos := range sa {
		seqIndex[i] = ms.SequenceOf(pos, mode)
	}
	return seqIndex
}

// For each rank i, prev[i] is the previous rank whose suffix starts in the
// same record, or -1.
func buildPrevArray(seqIndex []int, records int) []int {
	prev := make([]int, len(seqIndex))
	last := make([]int, records)
	for i := range last {
		last[i] = -1
	}
	for i, r := range seqIndex {
		prev[i] = last[r]
		last[r] = i
	}
	return prev
}

// LCP returns the common prefix length of the suffixes ranked i and j. For
// i == j it is the number of regular symbols before the suffix ends.
func (x *Index) LCP(i, j int) int {
	if i == j {
		lcp, _, _ := x.v.mismatch(x.sa[i], x.sa[i], 0, unbounded)
		return lcp
	}
	if i > j {
		i, j = j, i
	}
	return x.lcp[x.lcpRMQ.Query(i, j-1)]
}

// Find returns the rank range [l, r] of the suffixes starting with pattern,
// or -1, -1 when there are none.
func (x *Index) Find(pattern []byte) (int, int) {
	n := x.sorted
	if n == 0 {
		return -1, -1
	}
	bestIdx, best := -1, 0

	expandBest := func(i int) bool {
		pos := x.sa[i]
		for best < len(pattern) && x.v.at(pos+best) == int(pattern[best]) {
			best++
		}
		bestIdx = i
		if best == len(pattern) {
			// p < suffix
			return true
		}
		c := x.v.at(pos + best)
		if c == terminator {
			// p > suffix
			return false
		}
		return int(pattern[best]) < c
	}

	// first rank where pattern <= suffix
	l := sort.Search(n, func(i int) bool {
		if bestIdx == -1 {
			return expandBest(i)
		}
		if lcp := x.LCP(bestIdx, i); lcp < best {
			// differs from the best match before the pattern does
			return i > bestIdx
		}
		return expandBest(i)
	})
	if l == n || !x.hasPrefix(x.sa[l], pattern) {
		return -1, -1
	}

	// ranks after l keep the pattern as a prefix while their lcp with l covers it
	r := sort.Search(n-l, func(i int) bool {
		if i == 0 {
			return false
		}
		return x.lcp[x.lcpRMQ.Query(l, l+i-1)] < len(pattern)
	})
	return l, l + r - 1
}

func (x *Index) hasPrefix(pos int, pattern []byte) bool {
	for i, c := range pattern {
		if x.v.at(pos+i) != int(c) {
			return false
		}
	}
	return true
}

// Locate returns the start positions of at most k occurrences of pattern.
func (x *Index) Locate(pattern []byte, k int) []int {
	l, r := x.Find(pattern)
	if l == -1 {
		return nil
	}
	r = min(r, l+k-1)
	return append([]int(nil), x.sa[l:r+1]...)
}

// Records returns up to k distinct records containing pattern. It returns nil
// when the sequence has no record structure.
func (x *Index) Records(pattern []byte, k int) []int {
	if x.prev == nil {
		return nil
	}
	l, r := x.Find(pattern)
	if l == -1 {
		return nil
	}
	return findKMatches(l, r, k, x.seqIndex, x.prev, x.prevRMQ)
}

// findKMatches walks the rank range [l, r] splitting at the minimum of prev.
// A minimum below l is the first rank of its record in the range.
func findKMatches(l, r, k int, seqIndex, prev []int, rmq *rmq.RMQHybridNaive[int]) []int {
	matches := make([]int, 0, min(max(k, 0), r-l+1))
	stack := [][2]int{{l, r}}
	for len(stack) > 0 && len(matches) < k {
		lo, hi := stack[len(stack)-1][0], stack[len(stack)-1][1]
		stack = stack[:len(stack)-1]
		if lo > hi {
			continue
		}

		// prev[p] < lo, since a prev[p] inside [lo, hi] would be a smaller value.
		p := rmq.Query(lo, hi)
		if prev[p] >= l {
			continue
		}
		matches = append(matches, seqIndex[p])
		stack = append(stack, [2]int{p + 1, hi}, [2]int{lo, p - 1})
	}
	return matches
}
