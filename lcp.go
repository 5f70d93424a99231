package suffixer

import (
	"github.com/viniciusth/suffixer/encseq"
)

// ComputeLCP builds the LCP table of a complete, fully sorted suffix array
// with Kasai's algorithm in O(n) time. lcp[i] is the common prefix length of
// the suffixes at sa[i-1] and sa[i]; lcp[0] is 0.
func ComputeLCP(seq encseq.Sequence, mode encseq.ReadMode, sa []int) []int {
	return kasai(newView(seq, mode, false), sa)
}

func kasai(v *view, sa []int) []int {
	rank := make([]int, len(sa))
	for i := range sa {
		rank[sa[i]] = i
	}

	lcp := make([]int, len(sa))
	l := 0
	for i := range sa {
		if rank[i] == 0 {
			l = 0
			continue
		}
		j := sa[rank[i]-1]
		l, _, _ = v.mismatch(i, j, l, unbounded)
		lcp[rank[i]] = l
		if l > 0 {
			l--
		}
	}
	return lcp
}

// DecodeLCP expands the packed LCP values of a page.
func DecodeLCP(page Page) []int {
	if page.LCP == nil {
		return nil
	}
	out := make([]int, len(page.LCP))
	for i, l := range page.LCP {
		out[i] = int(l)
	}
	for _, large := range page.LargeLCP {
		out[large.Rank-page.Rank] = large.Value
	}
	return out
}
