package suffixer

import (
	"github.com/pkg/errors"
)

// BucketTable counts, for every code of PrefixLength symbols, how many
// suffixes fall into that bucket. Suffixes with fewer than PrefixLength
// regular symbols are counted under their defined prefix padded with the
// lowest symbol; suffixes starting on a special symbol are not counted.
type BucketTable struct {
	prefixLength int
	sigma        int
	numCodes     int
	// powers[i] is sigma^i for i in [0, prefixLength].
	powers []int
	// leftBorder[c] is the first rank of bucket c; leftBorder[numCodes] is
	// the number of bucketed suffixes.
	leftBorder []int
}

func newPowers(sigma, k int) []int {
	powers := make([]int, k+1)
	powers[0] = 1
	for i := 1; i <= k; i++ {
		powers[i] = powers[i-1] * sigma
	}
	return powers
}

func newBucketTable(v *view, k int, specials *specialCollector) (*BucketTable, error) {
	if k < 1 || k > maxPrefixLength(v.sigma) {
		return nil, errors.Wrapf(ErrInvalidPrefixLength, "%d", k)
	}
	t := &BucketTable{
		prefixLength: k,
		sigma:        v.sigma,
		powers:       newPowers(v.sigma, k),
	}
	t.numCodes = t.powers[k]
	t.leftBorder = make([]int, t.numCodes+1)

	v.eachCode(k, t.powers[k-1], func(_, code int) {
		t.leftBorder[code]++
	})
	specials.eachInsertion(func(code, _ int) {
		t.leftBorder[code]++
	})

	sum := 0
	for c := 0; c < t.numCodes; c++ {
		w := t.leftBorder[c]
		t.leftBorder[c] = sum
		sum += w
	}
	t.leftBorder[t.numCodes] = sum

	if want := v.n - v.seq.SpecialCount(); sum != want {
		return nil, errors.Wrapf(ErrBucketFill, "counted %d suffixes, sequence has %d regular positions", sum, want)
	}
	return t, nil
}

// PrefixLength is the number of symbols in a bucket code.
func (t *BucketTable) PrefixLength() int { return t.prefixLength }

// NumCodes is sigma^PrefixLength, the number of buckets.
func (t *BucketTable) NumCodes() int { return t.numCodes }

// Regular is the number of suffixes placed in buckets.
func (t *BucketTable) Regular() int { return t.leftBorder[t.numCodes] }

// Bucket returns the rank range [start, end) of bucket code.
func (t *BucketTable) Bucket(code int) (start, end int) {
	return t.leftBorder[code], t.leftBorder[code+1]
}

// Width is the number of suffixes in bucket code.
func (t *BucketTable) Width(code int) int {
	return t.leftBorder[code+1] - t.leftBorder[code]
}

func (t *BucketTable) sizeInBytes() int64 {
	return int64(len(t.leftBorder)) * 8
}
