package suffixer

import (
	"cmp"
	"math/bits"

	"github.com/viniciusth/suffixer/encseq"
)

// terminator is the symbol read on a special position, past the end of the
// text or beyond the depth limit. It sorts below every regular symbol.
const terminator = -1

// view reads a sequence in one read mode. All positions are view coordinates.
type view struct {
	seq    encseq.Sequence
	mode   encseq.ReadMode
	n      int
	sigma  int
	packed encseq.Packed
}

func newView(seq encseq.Sequence, mode encseq.ReadMode, charByChar bool) *view {
	v := &view{
		seq:   seq,
		mode:  mode,
		n:     seq.Len(),
		sigma: seq.AlphabetSize(),
	}
	if p, ok := seq.(encseq.Packed); ok && v.sigma == 4 && !charByChar {
		v.packed = p
	}
	return v
}

func (v *view) at(p int) int {
	if p >= v.n {
		return terminator
	}
	c := v.seq.CharAt(p, v.mode)
	if v.seq.IsSpecial(c) {
		return terminator
	}
	return int(c)
}

// mismatch compares the suffixes at a and b, which are known to agree on
// their first depth symbols, and returns the length of their common prefix
// together with the first differing symbols. Symbols at or beyond limit read
// as terminators.
func (v *view) mismatch(a, b, depth, limit int) (lcp, ca, cb int) {
	d := depth
	if v.packed != nil {
		d = v.skipPacked(a, b, d, limit)
	}
	for {
		if d >= limit {
			return d, terminator, terminator
		}
		ca, cb = v.at(a+d), v.at(b+d)
		if ca != cb || ca == terminator {
			return d, ca, cb
		}
		d++
	}
}

// skipPacked advances d over whole words of equal regular symbols.
func (v *view) skipPacked(a, b, d, limit int) int {
	for d < limit {
		wa, na := v.packed.Extract(a+d, v.mode)
		wb, nb := v.packed.Extract(b+d, v.mode)
		m := min(na, nb, limit-d)
		if m <= 0 {
			return d
		}
		diff := wa ^ wb
		if m < 32 {
			diff &^= uint64(1)<<(64-2*uint(m)) - 1
		}
		if diff != 0 {
			return d + bits.LeadingZeros64(diff)/2
		}
		d += m
		if m < 32 {
			return d
		}
	}
	return d
}

// compare orders two suffixes that agree on depth symbols. Suffixes that end
// at the same depth are ordered by position.
func (v *view) compare(a, b, depth, limit int) (int, int) {
	lcp, ca, cb := v.mismatch(a, b, depth, limit)
	if ca == cb {
		return cmp.Compare(a, b), lcp
	}
	return cmp.Compare(ca, cb), lcp
}

// rangeWalker yields special ranges in view coordinates.
type rangeWalker struct {
	it      encseq.RangeIterator
	n       int
	reverse bool
}

// specialRanges walks the special ranges by ascending view position, or
// descending when ascending is false.
func (v *view) specialRanges(ascending bool) *rangeWalker {
	reverse := v.mode.IsReverse()
	return &rangeWalker{
		it:      v.seq.SpecialRanges(ascending != reverse),
		n:       v.n,
		reverse: reverse,
	}
}

func (w *rangeWalker) Next() (encseq.Range, bool) {
	r, ok := w.it.Next()
	if !ok {
		return r, false
	}
	if w.reverse {
		r = encseq.Range{Start: w.n - r.End, End: w.n - r.Start}
	}
	return r, true
}

// eachCode calls fn for every position followed by k regular symbols, with
// the code of those symbols, in ascending position order.
func (v *view) eachCode(k int, top int, fn func(pos, code int)) {
	code, run := 0, 0
	for i := 0; i < v.n; i++ {
		c := v.at(i)
		if c == terminator {
			code, run = 0, 0
			continue
		}
		code = (code%top)*v.sigma + c
		run++
		if run >= k {
			fn(i-k+1, code)
		}
	}
}
