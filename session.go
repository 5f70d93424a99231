package suffixer

import (
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// session holds everything shared by the parts of one construction: the
// bucket table, the special positions, the partition plan and the optional
// difference cover. It is read-only once built.
type session struct {
	cfg      config
	v        *view
	table    *BucketTable
	specials *specialCollector
	parts    []Partition
	dc       *differenceCover
	largest  int
}

// bytesPerSlot is the working memory needed per suffix of a part.
func (c *config) bytesPerSlot() int64 {
	if c.computeLCP || c.maxSortDepth > 0 {
		return 16
	}
	return 8
}

func newSession(cfg config) (*session, error) {
	log := cfg.logger
	v := newView(cfg.seq, cfg.mode, cfg.charByChar)
	k := cfg.prefixLength

	specials := newSpecialCollector(v, k, cfg.specialTable)
	table, err := newBucketTable(v, k, specials)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, v: v, table: table, specials: specials}

	if cfg.differenceCover > 0 && v.n > v.seq.SpecialCount() {
		s.dc, err = newDifferenceCover(v, cfg.differenceCover)
		if err != nil {
			if !errors.Is(err, ErrDifferenceCoverUnavailable) || cfg.requireDifferenceCover {
				return nil, err
			}
			log.Warn("difference cover unavailable, sorting large buckets with multikey refinement",
				zap.Int("modulus", cfg.differenceCover), zap.Error(err))
			s.dc = nil
		}
	}

	maxWidth := 0
	if cfg.memoryLimit > 0 {
		fixed := table.sizeInBytes() + specials.sizeInBytes() + int64(2*cfg.blindTrieWidth+1)*48
		if s.dc != nil {
			fixed += s.dc.sizeInBytes()
		}
		avail := cfg.memoryLimit - fixed
		if avail < cfg.bytesPerSlot() {
			return nil, errors.Wrapf(ErrAllocation, "limit %d bytes, tables need %d", cfg.memoryLimit, fixed)
		}
		maxWidth = int(avail / cfg.bytesPerSlot())
	}

	s.parts, err = planParts(table, cfg.parts, maxWidth)
	if err != nil {
		return nil, err
	}
	s.largest = largestPart(s.parts)
	if maxWidth > 0 && s.largest > maxWidth {
		return nil, errors.Wrapf(ErrAllocation, "part of %d suffixes exceeds the limit of %d", s.largest, maxWidth)
	}

	log.Debug("suffix sorting session ready",
		zap.Int("length", v.n),
		zap.Int("alphabet", v.sigma),
		zap.Stringer("mode", cfg.mode),
		zap.Int("prefixLength", k),
		zap.Int("regular", table.Regular()),
		zap.Int("parts", len(s.parts)),
		zap.Int("largestPart", s.largest),
		zap.Bool("differenceCover", s.dc != nil),
		zap.Bool("packed", v.packed != nil),
	)
	return s, nil
}

func (s *session) newSorter() *bucketSorter {
	return newBucketSorter(s.v, &s.cfg, s.dc)
}

// sortPart writes the sorted suffixes of part p into sa, which has p.Width
// entries. When lcp is not nil, lcp[i] receives the common prefix length of
// sa[i-1] and sa[i]; lcp[0] is left at zero for the caller to fix up.
func (s *session) sortPart(bs *bucketSorter, p Partition, sa, lcp []int) error {
	t := s.table
	k := t.prefixLength
	off := p.Offset
	n := p.MaxCode - p.MinCode + 1

	cursor := make([]int, n)
	for i := range cursor {
		cursor[i] = t.leftBorder[p.MinCode+i+1] - off
	}
	overfull := -1
	place := func(code, pos int) {
		if code < p.MinCode || code > p.MaxCode {
			return
		}
		i := code - p.MinCode
		if cursor[i] <= t.leftBorder[code]-off {
			overfull = code
			return
		}
		cursor[i]--
		sa[cursor[i]] = pos
	}
	s.v.eachCode(k, t.powers[k-1], func(pos, code int) { place(code, pos) })

	bucketLCP := lcp
	if bucketLCP == nil && s.cfg.maxSortDepth > 0 {
		bucketLCP = bs.lcpScratch(len(sa))
	}
	for i := range cursor {
		lo, hi := cursor[i], t.leftBorder[p.MinCode+i+1]-off
		bucket := sa[lo:hi]
		slices.Reverse(bucket)
		var bl []int
		if bucketLCP != nil {
			bl = bucketLCP[lo:hi]
		}
		bs.sortBucket(bucket, bl, k, off+lo)
	}

	var regularStart []int
	if lcp != nil {
		regularStart = slices.Clone(cursor)
	}
	s.specials.eachInsertion(place)
	if overfull >= 0 {
		return errors.Wrapf(ErrBucketFill, "bucket %d received more suffixes than counted", overfull)
	}
	for i, c := range cursor {
		if want := t.leftBorder[p.MinCode+i] - off; c != want {
			return errors.Wrapf(ErrBucketFill, "bucket %d: filled down to %d, expected %d", p.MinCode+i, c+off, want+off)
		}
	}

	if lcp != nil {
		limit := s.cfg.depthLimit()
		for i := range cursor {
			lo, hi := cursor[i], t.leftBorder[p.MinCode+i+1]-off
			for j := lo; j <= regularStart[i] && j < hi; j++ {
				if j == 0 {
					lcp[0] = 0
					continue
				}
				lcp[j], _, _ = s.v.mismatch(sa[j-1], sa[j], 0, limit)
			}
		}
	}
	return nil
}

// boundaryLCP is the common prefix length of two suffixes in different
// buckets or parts.
func (s *session) boundaryLCP(a, b int) int {
	lcp, _, _ := s.v.mismatch(a, b, 0, s.cfg.depthLimit())
	return lcp
}
