package suffixer

import (
	"cmp"
	"math"
	"slices"

	"github.com/pkg/errors"
)

// differenceCover ranks a sample of suffixes whose positions modulo the
// modulus fall in a difference cover. Any two suffixes can then be ordered by
// comparing fewer than modulus symbols followed by one rank lookup.
type differenceCover struct {
	v       *view
	modulus int
	cover   []int
	// coverIndex[r] is the index of residue r in cover, or -1.
	coverIndex []int
	// diff[d] is a residue x in the cover with (x+d) mod modulus also in it.
	diff []int
	rank []int
}

// computeCover greedily picks residues until every difference modulo v is
// realized by two of them.
func computeCover(v int) []int {
	covered := make([]bool, v)
	inCover := make([]bool, v)
	stamp := make([]int, v)
	cover := []int{0}
	covered[0], inCover[0] = true, true
	remaining := v - 1

	for remaining > 0 {
		best, bestGain := -1, 0
		for c := 1; c < v; c++ {
			if inCover[c] {
				continue
			}
			gain := 0
			for _, x := range cover {
				for _, d := range [2]int{(c - x + v) % v, (x - c + v) % v} {
					if !covered[d] && stamp[d] != c {
						stamp[d] = c
						gain++
					}
				}
			}
			if gain > bestGain {
				best, bestGain = c, gain
			}
		}
		for _, x := range cover {
			for _, d := range [2]int{(best - x + v) % v, (x - best + v) % v} {
				if !covered[d] {
					covered[d] = true
					remaining--
				}
			}
		}
		inCover[best] = true
		cover = append(cover, best)
	}
	slices.Sort(cover)
	return cover
}

func newDifferenceCover(v *view, modulus int) (*differenceCover, error) {
	if modulus < 4 || modulus > maxDifferenceCover || modulus&(modulus-1) != 0 {
		return nil, errors.Wrapf(ErrDifferenceCoverUnavailable, "modulus %d must be a power of two in [4,%d]", modulus, maxDifferenceCover)
	}
	if v.n <= v.seq.SpecialCount() {
		return nil, errors.Wrap(ErrDifferenceCoverUnavailable, "sequence has no regular symbols")
	}

	dc := &differenceCover{
		v:          v,
		modulus:    modulus,
		cover:      computeCover(modulus),
		coverIndex: make([]int, modulus),
		diff:       make([]int, modulus),
	}
	for i := range dc.coverIndex {
		dc.coverIndex[i], dc.diff[i] = -1, -1
	}
	for i, x := range dc.cover {
		dc.coverIndex[x] = i
	}
	for _, x := range dc.cover {
		for _, y := range dc.cover {
			if d := (y - x + modulus) % modulus; dc.diff[d] == -1 {
				dc.diff[d] = x
			}
		}
	}
	if err := dc.sortSample(); err != nil {
		return nil, err
	}
	return dc, nil
}

func (dc *differenceCover) index(p int) int {
	return p/dc.modulus*len(dc.cover) + dc.coverIndex[p%dc.modulus]
}

func (dc *differenceCover) sizeInBytes() int64 {
	return int64(len(dc.rank)+3*dc.modulus) * 8
}

// sortSample ranks every sample position in [0, n]. Samples are named by
// their first modulus symbols, and the names laid out one residue class after
// another form a reduced text whose suffix array orders the samples. The last
// sample of a class reaches the end of the sequence within its window, so its
// name is unique and no comparison runs into the next class.
func (dc *differenceCover) sortSample() error {
	v, m := dc.v, dc.modulus
	order := make([]int, 0, (v.n/m+1)*len(dc.cover))
	for q := 0; q <= v.n; q += m {
		for _, r := range dc.cover {
			if q+r > v.n {
				break
			}
			order = append(order, q+r)
		}
	}
	if len(order) > math.MaxInt32 {
		return errors.Wrapf(ErrDifferenceCoverUnavailable, "%d samples do not fit a reduced text", len(order))
	}
	dc.rank = make([]int, len(order))

	prefix := func(a, b int) int {
		lcp, ca, cb := v.mismatch(a, b, 0, m)
		switch {
		case lcp == m:
			return 0
		case ca == cb:
			return cmp.Compare(a, b)
		}
		return cmp.Compare(ca, cb)
	}
	slices.SortFunc(order, prefix)

	start := make([]int, len(dc.cover)+1)
	for i, r := range dc.cover {
		start[i+1] = start[i]
		if r <= v.n {
			start[i+1] += (v.n-r)/m + 1
		}
	}
	text := make([]int32, len(order))
	posOf := make([]int, len(order))
	name := int32(-1)
	for i, p := range order {
		if i == 0 || prefix(order[i-1], p) != 0 {
			name++
		}
		slot := start[dc.coverIndex[p%m]] + p/m
		text[slot] = name
		posOf[slot] = p
	}

	if int(name)+1 == len(order) {
		for i, p := range order {
			dc.rank[dc.index(p)] = i
		}
		return nil
	}
	for i, slot := range suffixArray32(text, int(name)+1) {
		dc.rank[dc.index(posOf[slot])] = i
	}
	return nil
}

// compare orders the suffixes at a and b, which agree on depth symbols.
func (dc *differenceCover) compare(a, b, depth int) int {
	m := dc.modulus
	i, j := a+depth, b+depth
	d := ((j-i)%m + m) % m
	h := ((dc.diff[d]-i%m)%m + m) % m

	lcp, ci, cj := dc.v.mismatch(i, j, 0, h)
	if lcp < h {
		if ci == cj {
			return cmp.Compare(a, b)
		}
		return cmp.Compare(ci, cj)
	}
	return cmp.Compare(dc.rank[dc.index(i+h)], dc.rank[dc.index(j+h)])
}
