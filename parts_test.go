package suffixer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusth/suffixer/encseq"
)

func checkPartition(t *testing.T, bt *BucketTable, parts []Partition) {
	t.Helper()
	require.NotEmpty(t, parts)
	assert.Equal(t, 0, parts[0].MinCode)
	assert.Equal(t, bt.NumCodes()-1, parts[len(parts)-1].MaxCode)
	offset := 0
	for i, p := range parts {
		if i > 0 {
			assert.Equal(t, parts[i-1].MaxCode+1, p.MinCode)
		}
		assert.LessOrEqual(t, p.MinCode, p.MaxCode)
		assert.Equal(t, offset, p.Offset)
		width := 0
		for c := p.MinCode; c <= p.MaxCode; c++ {
			width += bt.Width(c)
		}
		assert.Equal(t, width, p.Width)
		offset += width
	}
	assert.Equal(t, bt.Regular(), offset)
}

func TestPlanParts(t *testing.T) {
	r := rand.New(rand.NewSource(41))
	seq := randomDNA(t, r, 2, 3000, "ACGT", 0.01)
	v := newView(seq, encseq.Forward, false)
	bt, err := newBucketTable(v, 3, newSpecialCollector(v, 3, true))
	require.NoError(t, err)

	for _, desired := range []int{1, 2, 3, 8, 64, 1000} {
		parts, err := planParts(bt, desired, 0)
		require.NoError(t, err)
		checkPartition(t, bt, parts)
		assert.LessOrEqual(t, len(parts), desired)
	}

	parts, err := planParts(bt, 1, 100)
	require.NoError(t, err)
	checkPartition(t, bt, parts)
	for _, p := range parts {
		if p.MinCode != p.MaxCode {
			assert.LessOrEqual(t, p.Width, 100)
		}
	}

	_, err = planParts(bt, 0, 0)
	assert.ErrorIs(t, err, ErrPartitioning)
}

func TestPlanPartsEmptyTable(t *testing.T) {
	seq := dna(t, "NNN")
	v := newView(seq, encseq.Forward, false)
	bt, err := newBucketTable(v, 2, newSpecialCollector(v, 2, true))
	require.NoError(t, err)

	parts, err := planParts(bt, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []Partition{{MinCode: 0, MaxCode: 15, Offset: 0, Width: 0}}, parts)

	sa := mustBuild(t, NewBuilder(seq).PrefixLength(2).Parts(4))
	assert.Equal(t, []int{0, 1, 2, 3}, sa.Positions)
	assert.Equal(t, 0, sa.Longest)
}
