package suffixer

import (
	"slices"
)

// maxBlockKeys bounds the key space of one multikey refinement step.
const maxBlockKeys = 1 << 12

type sortGroup struct {
	lo, hi int
	depth  int
}

// bucketSorter orders the suffixes of one bucket at a time. It owns its
// scratch memory, so every worker needs its own.
type bucketSorter struct {
	v        *view
	cfg      *config
	dc       *differenceCover
	trie     *blindTrie
	powers   []int
	blockLen int
	limit    int

	groups   []sortGroup
	keys     []int
	sorted   []int
	tmp      []int
	counts   []int
	scratch  []int
	unsorted []UnsortedRange
}

func newBucketSorter(v *view, cfg *config, dc *differenceCover) *bucketSorter {
	b := 1
	for pow := v.sigma; ; b++ {
		if pow*v.sigma*(b+2) > maxBlockKeys {
			break
		}
		pow *= v.sigma
	}
	return &bucketSorter{
		v:        v,
		cfg:      cfg,
		dc:       dc,
		trie:     newBlindTrie(v, cfg.blindTrieWidth),
		powers:   newPowers(v.sigma, b),
		blockLen: b,
		limit:    cfg.depthLimit(),
	}
}

// lcpScratch returns a buffer for common prefix lengths when the caller does
// not want them but the tie detection needs them.
func (s *bucketSorter) lcpScratch(n int) []int {
	if cap(s.scratch) < n {
		s.scratch = make([]int, n)
	}
	return s.scratch[:n]
}

// takeUnsorted returns and clears the ranges recorded since the last call.
func (s *bucketSorter) takeUnsorted() []UnsortedRange {
	out := s.unsorted
	s.unsorted = nil
	return out
}

// sortBucket orders bucket, whose suffixes agree on their first depth
// symbols and are in ascending position order. rank is the position of
// bucket[0] in the final array. When lcp is not nil, lcp[i] receives the
// common prefix length of bucket[i-1] and bucket[i] for i >= 1.
func (s *bucketSorter) sortBucket(bucket, lcp []int, depth, rank int) {
	strategy := s.dispatch(bucket, lcp, depth)
	s.cfg.observer.ObserveBucket(strategy, len(bucket))
	if s.cfg.maxSortDepth > 0 && strategy != StrategyDifferenceCover && len(bucket) > 1 {
		s.resolveTies(bucket, lcp, rank)
	}
}

func (s *bucketSorter) dispatch(bucket, lcp []int, depth int) Strategy {
	w := len(bucket)
	switch {
	case w <= 1:
		return StrategyNone
	case w <= s.cfg.insertionSortWidth:
		s.insertionSort(bucket, lcp, depth)
		return StrategyInsertion
	case w <= s.cfg.blindTrieWidth:
		s.trieSort(bucket, lcp, depth)
		return StrategyBlindTrie
	case s.dc != nil:
		s.coverSort(bucket, lcp, depth)
		return StrategyDifferenceCover
	}
	s.multikeySort(bucket, lcp, depth)
	return StrategyMultikey
}

func (s *bucketSorter) insertionSort(b, lcp []int, depth int) {
	for i := 1; i < len(b); i++ {
		for j := i; j > 0; j-- {
			if c, _ := s.v.compare(b[j-1], b[j], depth, s.limit); c <= 0 {
				break
			}
			b[j-1], b[j] = b[j], b[j-1]
		}
	}
	if lcp != nil {
		for i := 1; i < len(b); i++ {
			lcp[i], _, _ = s.v.mismatch(b[i-1], b[i], depth, s.limit)
		}
	}
}

func (s *bucketSorter) trieSort(b, lcp []int, depth int) {
	if !slices.IsSorted(b) {
		slices.Sort(b)
	}
	s.trie.sort(b, lcp, depth, s.limit)
}

func (s *bucketSorter) coverSort(b, lcp []int, depth int) {
	slices.SortFunc(b, func(x, y int) int { return s.dc.compare(x, y, depth) })
	if lcp != nil {
		for i := 1; i < len(b); i++ {
			lcp[i], _, _ = s.v.mismatch(b[i-1], b[i], depth, unbounded)
		}
	}
}

// multikeySort refines the bucket with stable counting sorts on blocks of
// symbols until the groups are small enough for the comparison sorters.
func (s *bucketSorter) multikeySort(b, lcp []int, depth int) {
	s.groups = append(s.groups[:0], sortGroup{lo: 0, hi: len(b), depth: depth})
	for len(s.groups) > 0 {
		g := s.groups[len(s.groups)-1]
		s.groups = s.groups[:len(s.groups)-1]

		sub := b[g.lo:g.hi]
		var subLCP []int
		if lcp != nil {
			subLCP = lcp[g.lo:g.hi]
		}
		w := len(sub)
		switch {
		case w <= 1:
		case g.depth >= s.limit:
			// Equal up to the depth limit; position order stands.
			if subLCP != nil {
				for i := 1; i < w; i++ {
					subLCP[i] = s.limit
				}
			}
		case w <= s.cfg.insertionSortWidth:
			s.insertionSort(sub, subLCP, g.depth)
		case w <= s.cfg.blindTrieWidth:
			s.trieSort(sub, subLCP, g.depth)
		default:
			s.refine(sub, subLCP, g)
		}
	}
}

// blockKey encodes the next blk symbols of suffix p after depth, padded
// with the lowest code after a terminator, together with the number of
// symbols read before the terminator.
func (s *bucketSorter) blockKey(p, depth, blk int) int {
	code := 0
	for i := 0; i < blk; i++ {
		c := s.v.at(p + depth + i)
		if c == terminator {
			return code*s.powers[blk-i]*(blk+1) + i
		}
		code = code*s.v.sigma + c
	}
	return code*(blk+1) + blk
}

func (s *bucketSorter) refine(sub, lcp []int, g sortGroup) {
	blk := s.blockLen
	if s.limit != unbounded {
		blk = min(blk, s.limit-g.depth)
	}
	w := len(sub)
	keySpace := s.powers[blk] * (blk + 1)

	s.keys = slices.Grow(s.keys[:0], w)[:w]
	s.sorted = slices.Grow(s.sorted[:0], w)[:w]
	s.tmp = slices.Grow(s.tmp[:0], w)[:w]
	s.counts = slices.Grow(s.counts[:0], keySpace+1)[:keySpace+1]
	clear(s.counts)

	for i, p := range sub {
		k := s.blockKey(p, g.depth, blk)
		s.keys[i] = k
		s.counts[k+1]++
	}
	for k := 1; k <= keySpace; k++ {
		s.counts[k] += s.counts[k-1]
	}
	for i, p := range sub {
		k := s.keys[i]
		s.tmp[s.counts[k]] = p
		s.sorted[s.counts[k]] = k
		s.counts[k]++
	}
	copy(sub, s.tmp)

	for lo := 0; lo < w; {
		hi := lo + 1
		for hi < w && s.sorted[hi] == s.sorted[lo] {
			hi++
		}
		if lo > 0 && lcp != nil {
			lcp[lo], _, _ = s.v.mismatch(sub[lo-1], sub[lo], g.depth, g.depth+blk)
		}
		if t := s.sorted[lo] % (blk + 1); t < blk {
			// These suffixes end inside the block at the same depth.
			if lcp != nil {
				for i := lo + 1; i < hi; i++ {
					lcp[i] = g.depth + t
				}
			}
		} else if hi-lo > 1 {
			s.groups = append(s.groups, sortGroup{lo: g.lo + lo, hi: g.lo + hi, depth: g.depth + blk})
		}
		lo = hi
	}
}

// resolveTies finds runs of suffixes that agree up to the depth limit. With
// a difference cover they are sorted completely; otherwise they are recorded
// as unsorted ranges.
func (s *bucketSorter) resolveTies(bucket, lcp []int, rank int) {
	for i := 1; i < len(bucket); {
		if lcp[i] < s.limit {
			i++
			continue
		}
		start := i - 1
		for i < len(bucket) && lcp[i] >= s.limit {
			i++
		}
		if s.dc == nil {
			s.unsorted = append(s.unsorted, UnsortedRange{Start: rank + start, Width: i - start, Depth: s.limit})
			continue
		}
		run := bucket[start:i]
		slices.SortFunc(run, func(x, y int) int { return s.dc.compare(x, y, s.limit) })
		for j := start + 1; j < i; j++ {
			lcp[j], _, _ = s.v.mismatch(bucket[j-1], bucket[j], s.limit, unbounded)
		}
	}
}
