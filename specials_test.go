package suffixer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viniciusth/suffixer/encseq"
)

type insertion struct{ code, pos int }

func insertions(sc *specialCollector) []insertion {
	var out []insertion
	sc.eachInsertion(func(code, pos int) {
		out = append(out, insertion{code, pos})
	})
	return out
}

func TestSpecialPositionRecords(t *testing.T) {
	seq := dna(t, "ACGNNTA")
	v := newView(seq, encseq.Forward, false)
	sc := newSpecialCollector(v, 3, true)

	// C G before the wildcard run and T A before the end.
	assert.Equal(t, []SpecialPosition{
		{Code: 1*4 + 2, MaxPrefixLen: 2, Position: 3},
		{Code: 3*4 + 0, MaxPrefixLen: 2, Position: 7},
	}, sc.table)

	assert.Equal(t, []insertion{
		{code: (3*4 + 0) * 4, pos: 5},
		{code: (1*4 + 2) * 4, pos: 1},
		{code: 0 * 16, pos: 6},
		{code: 2 * 16, pos: 2},
	}, insertions(sc))
}

func TestSpecialCollectorsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(31))
	for round := 0; round < 40; round++ {
		seq := randomDNA(t, r, 1+r.Intn(4), 80, "ACGT", 0.1)
		for _, mode := range allModes {
			for k := 1; k <= 5; k++ {
				v := newView(seq, mode, false)
				table := insertions(newSpecialCollector(v, k, true))
				scan := insertions(newSpecialCollector(v, k, false))
				require.Equal(t, table, scan, "round %d mode %v k %d", round, mode, k)

				for _, in := range table {
					require.Equal(t, paddedCode(seq, mode, in.pos, k), in.code)
				}
			}
		}
	}
}

func TestSpecialCollectorsSameResult(t *testing.T) {
	r := rand.New(rand.NewSource(32))
	seq := randomDNA(t, r, 5, 400, "ACG", 0.05)
	for _, mode := range allModes {
		table := mustBuild(t, NewBuilder(seq).ReadMode(mode).PrefixLength(4).WithLCP(8))
		scan := mustBuild(t, NewBuilder(seq).ReadMode(mode).PrefixLength(4).WithLCP(8).SpecialCodeTable(false))
		assert.Equal(t, table.Positions, scan.Positions)
		assert.Equal(t, table.LCP, scan.LCP)
	}
}
