package suffixer

import (
	"github.com/pkg/errors"
)

// Partition is a contiguous range of bucket codes sorted together. Offset is
// the rank of its first suffix and Width the number of suffixes it holds.
type Partition struct {
	MinCode int
	MaxCode int
	Offset  int
	Width   int
}

// planParts splits the bucket table into at most desired parts of roughly
// equal width. When maxWidth is positive no part may exceed it unless a
// single bucket is wider, and the number of parts grows as needed.
func planParts(t *BucketTable, desired, maxWidth int) ([]Partition, error) {
	if desired < 1 {
		return nil, errors.Wrapf(ErrPartitioning, "%d parts requested", desired)
	}
	total := t.Regular()
	threshold := max((total+desired-1)/desired, 1)
	if maxWidth > 0 {
		threshold = min(threshold, maxWidth)
	}

	parts := make([]Partition, 0, desired)
	cur := Partition{}
	for c := 0; c < t.numCodes; c++ {
		w := t.Width(c)
		if cur.Width > 0 && cur.Width+w > threshold && (maxWidth > 0 || len(parts) < desired-1) {
			cur.MaxCode = c - 1
			parts = append(parts, cur)
			cur = Partition{MinCode: c, Offset: cur.Offset + cur.Width}
		}
		cur.Width += w
	}
	cur.MaxCode = t.numCodes - 1
	parts = append(parts, cur)
	return parts, nil
}

func largestPart(parts []Partition) int {
	w := 0
	for _, p := range parts {
		w = max(w, p.Width)
	}
	return w
}
