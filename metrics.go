package suffixer

import (
	"sync/atomic"
	"time"
)

// Strategy names the algorithm that ordered a bucket.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	StrategyInsertion
	StrategyBlindTrie
	StrategyDifferenceCover
	StrategyMultikey

	numStrategies
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyInsertion:
		return "insertion"
	case StrategyBlindTrie:
		return "blind-trie"
	case StrategyDifferenceCover:
		return "difference-cover"
	case StrategyMultikey:
		return "multikey"
	}
	return "unknown"
}

// Observer receives progress events while suffixes are sorted.
type Observer interface {
	// ObserveBucket is called once per bucket with the strategy that sorted it.
	ObserveBucket(strategy Strategy, width int)
	// ObservePart is called after a part has been sorted.
	ObservePart(index, width int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveBucket(Strategy, int)         {}
func (nopObserver) ObservePart(int, int, time.Duration) {}

// Counters is an Observer that tallies events. The zero value is ready to use.
type Counters struct {
	buckets  [numStrategies]atomic.Int64
	suffixes [numStrategies]atomic.Int64
	parts    atomic.Int64
	elapsed  atomic.Int64
}

var _ Observer = (*Counters)(nil)

func (c *Counters) ObserveBucket(strategy Strategy, width int) {
	c.buckets[strategy].Add(1)
	c.suffixes[strategy].Add(int64(width))
}

func (c *Counters) ObservePart(_, _ int, elapsed time.Duration) {
	c.parts.Add(1)
	c.elapsed.Add(int64(elapsed))
}

// Buckets returns how many buckets were sorted with strategy.
func (c *Counters) Buckets(strategy Strategy) int64 { return c.buckets[strategy].Load() }

// Suffixes returns how many suffixes were in buckets sorted with strategy.
func (c *Counters) Suffixes(strategy Strategy) int64 { return c.suffixes[strategy].Load() }

func (c *Counters) Parts() int64 { return c.parts.Load() }

// SortTime is the summed wall time of all sorted parts.
func (c *Counters) SortTime() time.Duration { return time.Duration(c.elapsed.Load()) }
