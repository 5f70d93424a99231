package suffixer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusth/suffixer/encseq"
)

// paddedCode is the bucket a regular suffix belongs to.
func paddedCode(seq encseq.Sequence, mode encseq.ReadMode, pos, k int) int {
	sigma := seq.AlphabetSize()
	code, j := 0, 0
	for ; j < k; j++ {
		c := refSymbol(seq, mode, pos+j)
		if c == -1 {
			break
		}
		code = code*sigma + c
	}
	for ; j < k; j++ {
		code *= sigma
	}
	return code
}

func TestBucketTableCounts(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	for round := 0; round < 30; round++ {
		seq := randomDNA(t, r, 1+r.Intn(3), 150, "ACGT", 0.05)
		mode := allModes[r.Intn(len(allModes))]
		k := 1 + r.Intn(4)
		for _, table := range []bool{true, false} {
			v := newView(seq, mode, false)
			sc := newSpecialCollector(v, k, table)
			bt, err := newBucketTable(v, k, sc)
			require.NoError(t, err)

			want := make([]int, bt.NumCodes())
			for p := 0; p < seq.Len(); p++ {
				if refSymbol(seq, mode, p) != -1 {
					want[paddedCode(seq, mode, p, k)]++
				}
			}
			for c := range want {
				require.Equal(t, want[c], bt.Width(c), "code %d", c)
			}
			assert.Equal(t, seq.Len()-seq.SpecialCount(), bt.Regular())
		}
	}
}

func TestBucketBoundaries(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	seq := randomDNA(t, r, 3, 300, "ACGT", 0.03)
	const k = 3

	sa := mustBuild(t, NewBuilder(seq).PrefixLength(k))
	v := newView(seq, encseq.Forward, false)
	bt, err := newBucketTable(v, k, newSpecialCollector(v, k, true))
	require.NoError(t, err)

	for c := 0; c < bt.NumCodes(); c++ {
		start, end := bt.Bucket(c)
		for i := start; i < end; i++ {
			assert.Equal(t, c, paddedCode(seq, encseq.Forward, sa.Positions[i], k), "rank %d", i)
		}
	}
}

func TestMaxPrefixLength(t *testing.T) {
	assert.Equal(t, 16, maxPrefixLength(4))
	assert.Equal(t, 6, maxPrefixLength(20))
	assert.Equal(t, 32, maxPrefixLength(2))
	assert.Equal(t, 32, maxPrefixLength(1))

	seq := dna(t, "ACGT")
	v := newView(seq, encseq.Forward, false)
	_, err := newBucketTable(v, 17, newSpecialCollector(v, 17, true))
	assert.ErrorIs(t, err, ErrInvalidPrefixLength)
}

func TestRecommendedPrefixLength(t *testing.T) {
	assert.Equal(t, 1, recommendedPrefixLength(0, 4))
	assert.Equal(t, 1, recommendedPrefixLength(16, 4))
	assert.Equal(t, 2, recommendedPrefixLength(64, 4))
	assert.Equal(t, 10, recommendedPrefixLength(4<<20, 4))
	assert.Equal(t, 16, recommendedPrefixLength(1<<62, 4))
}
