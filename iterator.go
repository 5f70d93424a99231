package suffixer

import (
	"io"
	"time"

	"github.com/viniciusth/suffixer/encseq"
	"go.uber.org/zap"
)

// LargeLCP carries a common prefix length that did not fit in the packed
// LCP table of a page.
type LargeLCP struct {
	Rank  int
	Value int
}

// Page is one chunk of the suffix array. Positions and LCP are only valid
// until the next call to Next.
type Page struct {
	Positions []int
	// Special is set on pages holding suffixes that start on a special
	// symbol and the final sentinel.
	Special bool
	// Rank is the position of Positions[0] in the complete array.
	Rank int
	// LCP[i] is the common prefix length of the suffix at Positions[i] and
	// the one emitted just before it, or the overflow value 2^bits-1 when the
	// true value is found in LargeLCP.
	LCP      []uint32
	LargeLCP []LargeLCP
}

type iterState uint8

const (
	stateReady iterState = iota
	stateSpecials
	stateExhausted
)

// Iterator produces the suffix array page by page. Each call to Next sorts
// one part, so only a single part is held in memory at a time.
type Iterator struct {
	s      *session
	sorter *bucketSorter
	state  iterState

	part     int
	rank     int
	last     int
	longest  int
	buf      []int
	lcp      []int
	lcpOut   []uint32
	ranges   *rangeWalker
	overhang encseq.Range
	overflow uint64
}

// Iterator prepares a paged construction. The bucket table, the partition
// plan and the difference cover are built before it returns.
func (b *Builder) Iterator() (*Iterator, error) {
	cfg, err := b.config()
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return newIterator(s), nil
}

func newIterator(s *session) *Iterator {
	size := s.cfg.pageSize
	if size == 0 {
		size = max(s.largest, 1)
	}
	it := &Iterator{
		s:       s,
		sorter:  s.newSorter(),
		last:    -1,
		longest: -1,
		buf:     make([]int, max(size, s.largest)),
		ranges:  s.v.specialRanges(true),
	}
	it.buf = it.buf[:size]
	if s.cfg.computeLCP {
		it.lcp = make([]int, cap(it.buf))
		it.lcpOut = make([]uint32, cap(it.buf))
		it.overflow = uint64(1)<<uint(s.cfg.lcpBits) - 1
	}
	return it
}

// Parts returns the partition plan.
func (it *Iterator) Parts() []Partition {
	return append([]Partition(nil), it.s.parts...)
}

// Table returns the bucket table shared by all parts.
func (it *Iterator) Table() *BucketTable { return it.s.table }

// Longest returns the rank of the suffix starting at position 0 once it has
// been emitted.
func (it *Iterator) Longest() (int, bool) {
	return it.longest, it.longest >= 0
}

// Next returns the next page, or io.EOF after the sentinel page.
func (it *Iterator) Next() (Page, error) {
	switch it.state {
	case stateReady:
		for it.part < len(it.s.parts) {
			p := it.s.parts[it.part]
			it.part++
			if p.Width == 0 {
				continue
			}
			return it.nextPart(it.part-1, p)
		}
		it.state = stateSpecials
		fallthrough
	case stateSpecials:
		return it.nextSpecialPage(), nil
	}
	return Page{}, io.EOF
}

func (it *Iterator) nextPart(index int, p Partition) (Page, error) {
	start := time.Now()
	sa := it.buf[:p.Width]
	var lcp []int
	if it.lcp != nil {
		lcp = it.lcp[:p.Width]
	}
	if err := it.s.sortPart(it.sorter, p, sa, lcp); err != nil {
		it.state = stateExhausted
		return Page{}, err
	}
	if lcp != nil && it.last >= 0 {
		lcp[0] = it.s.boundaryLCP(it.last, sa[0])
	}
	for _, r := range it.sorter.takeUnsorted() {
		if it.s.cfg.onUnsorted != nil {
			it.s.cfg.onUnsorted(r)
		}
	}
	if it.longest < 0 {
		for i, pos := range sa {
			if pos == 0 {
				it.longest = it.rank + i
				break
			}
		}
	}
	elapsed := time.Since(start)
	it.s.cfg.observer.ObservePart(index, p.Width, elapsed)
	it.s.cfg.logger.Debug("sorted part",
		zap.Int("part", index),
		zap.Int("width", p.Width),
		zap.Duration("elapsed", elapsed))

	return it.emit(sa, lcp, false), nil
}

func (it *Iterator) emit(positions, lcp []int, special bool) Page {
	page := Page{Positions: positions, Special: special, Rank: it.rank}
	if lcp != nil {
		page.LCP = it.lcpOut[:len(lcp)]
		for i, l := range lcp {
			if uint64(l) >= it.overflow {
				page.LCP[i] = uint32(it.overflow)
				page.LargeLCP = append(page.LargeLCP, LargeLCP{Rank: it.rank + i, Value: l})
				continue
			}
			page.LCP[i] = uint32(l)
		}
	}
	it.rank += len(positions)
	if len(positions) > 0 {
		it.last = positions[len(positions)-1]
	}
	return page
}

// nextSpecialPage fills a page with suffixes starting on special symbols in
// ascending position order. A special range that does not fit is carried
// over to the next page. The sentinel goes last.
func (it *Iterator) nextSpecialPage() Page {
	size := len(it.buf)
	buf := it.buf[:0]
	for len(buf) < size {
		if it.overhang.Len() > 0 {
			take := min(it.overhang.Len(), size-len(buf))
			for p := it.overhang.Start; p < it.overhang.Start+take; p++ {
				buf = append(buf, p)
			}
			it.overhang.Start += take
			continue
		}
		if r, ok := it.ranges.Next(); ok {
			it.overhang = r
			continue
		}
		buf = append(buf, it.s.v.n)
		it.state = stateExhausted
		break
	}

	if it.longest < 0 && it.s.v.n > 0 {
		for i, pos := range buf {
			if pos == 0 {
				it.longest = it.rank + i
				break
			}
		}
	}
	var lcp []int
	if it.lcp != nil {
		lcp = it.lcp[:len(buf)]
		clear(lcp)
	}
	return it.emit(buf, lcp, true)
}
