package suffixer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SuffixArray is a fully materialized construction result.
type SuffixArray struct {
	// Positions holds Len()+1 suffix start positions in view coordinates;
	// the last one is the sentinel Len().
	Positions []int
	// LCP[i] is the exact common prefix length of Positions[i-1] and
	// Positions[i] (capped at the max sort depth), LCP[0] is 0. Nil unless
	// requested.
	LCP []int
	// Longest is the rank of the suffix starting at position 0, or -1 for an
	// empty sequence.
	Longest int
	// SpecialStart is the rank of the first suffix starting on a special
	// symbol; ranks from there on are in position order.
	SpecialStart int
	// Unsorted lists the runs left in position order by a truncated sort.
	Unsorted []UnsortedRange
}

// Build sorts every part, concurrently when Workers is above one, and
// assembles the complete suffix array. The context is checked before each
// part starts.
func (b *Builder) Build(ctx context.Context) (*SuffixArray, error) {
	cfg, err := b.config()
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	return s.build(ctx)
}

func (s *session) build(ctx context.Context) (*SuffixArray, error) {
	n := s.v.n
	out := &SuffixArray{
		Positions:    make([]int, n+1),
		Longest:      -1,
		SpecialStart: s.table.Regular(),
	}
	if s.cfg.computeLCP {
		out.LCP = make([]int, n+1)
	}
	unsorted := make([][]UnsortedRange, len(s.parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers)
	for i, p := range s.parts {
		if p.Width == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			bs := s.newSorter()
			sa := out.Positions[p.Offset : p.Offset+p.Width]
			var lcp []int
			if out.LCP != nil {
				lcp = out.LCP[p.Offset : p.Offset+p.Width]
			}
			if err := s.sortPart(bs, p, sa, lcp); err != nil {
				return errors.Wrapf(err, "part %d", i)
			}
			unsorted[i] = bs.takeUnsorted()
			elapsed := time.Since(start)
			s.cfg.observer.ObservePart(i, p.Width, elapsed)
			s.cfg.logger.Debug("sorted part",
				zap.Int("part", i),
				zap.Int("width", p.Width),
				zap.Duration("elapsed", elapsed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.LCP != nil {
		for _, p := range s.parts {
			if p.Offset > 0 && p.Width > 0 {
				out.LCP[p.Offset] = s.boundaryLCP(out.Positions[p.Offset-1], out.Positions[p.Offset])
			}
		}
	}

	rank := out.SpecialStart
	w := s.v.specialRanges(true)
	for r, ok := w.Next(); ok; r, ok = w.Next() {
		for pos := r.Start; pos < r.End; pos++ {
			out.Positions[rank] = pos
			rank++
		}
	}
	out.Positions[rank] = n

	if n > 0 {
		for i, pos := range out.Positions {
			if pos == 0 {
				out.Longest = i
				break
			}
		}
	}

	for _, ranges := range unsorted {
		for _, r := range ranges {
			if s.cfg.onUnsorted != nil {
				s.cfg.onUnsorted(r)
			}
			out.Unsorted = append(out.Unsorted, r)
		}
	}
	return out, nil
}
