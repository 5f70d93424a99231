package suffixer

import (
	"cmp"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusth/suffixer/encseq"
)

func TestComputeCover(t *testing.T) {
	for v := 4; v <= 1024; v *= 2 {
		cover := computeCover(v)
		seen := make([]bool, v)
		for _, x := range cover {
			for _, y := range cover {
				seen[(y-x+v)%v] = true
			}
		}
		for d, ok := range seen {
			require.True(t, ok, "modulus %d difference %d", v, d)
		}
		// A difference cover needs at least sqrt(v) elements; greedy stays
		// within a small factor of that.
		assert.LessOrEqual(t, len(cover)*len(cover), 8*v, "modulus %d size %d", v, len(cover))
	}
}

func TestDifferenceCoverUnavailable(t *testing.T) {
	seq := dna(t, "ACGT")
	v := newView(seq, encseq.Forward, false)
	for _, m := range []int{0, 2, 6, 12, 8192} {
		_, err := newDifferenceCover(v, m)
		assert.ErrorIs(t, err, ErrDifferenceCoverUnavailable, "modulus %d", m)
	}

	empty := dna(t, "NN")
	_, err := newDifferenceCover(newView(empty, encseq.Forward, false), 8)
	assert.ErrorIs(t, err, ErrDifferenceCoverUnavailable)
}

func TestDifferenceCoverCompare(t *testing.T) {
	r := rand.New(rand.NewSource(61))
	for round := 0; round < 20; round++ {
		seq := randomDNA(t, r, 1+r.Intn(3), 400, "ACGT"[:1+r.Intn(4)], 0.01)
		if seq.Len() == seq.SpecialCount() {
			continue
		}
		mode := allModes[r.Intn(len(allModes))]
		v := newView(seq, mode, false)
		dc, err := newDifferenceCover(v, 4<<r.Intn(4))
		require.NoError(t, err)

		var regular []int
		for p := 0; p < seq.Len(); p++ {
			if refSymbol(seq, mode, p) != -1 {
				regular = append(regular, p)
			}
		}
		for i := 0; i < 300; i++ {
			a, b := regular[r.Intn(len(regular))], regular[r.Intn(len(regular))]
			require.Equal(t, refCompare(seq, mode, a, b), dc.compare(a, b, 0), "round %d: %d vs %d", round, a, b)
		}
	}
}

func TestDifferenceCoverSampleRanks(t *testing.T) {
	r := rand.New(rand.NewSource(67))
	for round := 0; round < 20; round++ {
		seq := randomDNA(t, r, 1+r.Intn(3), 300, "ACGT"[:1+r.Intn(4)], 0.02)
		if seq.Len() == seq.SpecialCount() {
			continue
		}
		mode := allModes[r.Intn(len(allModes))]
		dc, err := newDifferenceCover(newView(seq, mode, false), 4<<r.Intn(3))
		require.NoError(t, err)

		var sample []int
		for p := 0; p <= seq.Len(); p++ {
			if dc.coverIndex[p%dc.modulus] >= 0 {
				sample = append(sample, p)
			}
		}
		for i := 0; i < 500; i++ {
			a, b := sample[r.Intn(len(sample))], sample[r.Intn(len(sample))]
			got := cmp.Compare(dc.rank[dc.index(a)], dc.rank[dc.index(b)])
			require.Equal(t, refCompare(seq, mode, a, b), got, "round %d: %d vs %d", round, a, b)
		}
	}
}

func TestDifferenceCoverSortsLargeBuckets(t *testing.T) {
	seq := dna(t, "ACACACACACACACACACACACACACACACACACACACACACAC")
	counters := &Counters{}
	sa := mustBuild(t, NewBuilder(seq).PrefixLength(2).InsertionSortWidth(2).BlindTrieWidth(4).
		DifferenceCover(8).RequireDifferenceCover().Observer(counters).WithLCP(8))

	assert.Equal(t, naiveSuffixArray(seq, encseq.Forward), sa.Positions)
	assert.Equal(t, naiveLCP(seq, encseq.Forward, sa.Positions), sa.LCP)
	assert.EqualValues(t, 2, counters.Buckets(StrategyDifferenceCover))
	assert.Zero(t, counters.Buckets(StrategyMultikey))
}
