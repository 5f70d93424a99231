package encseq

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRanges(it RangeIterator) []Range {
	var out []Range
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		out = append(out, r)
	}
	return out
}

func TestEncodeJoinsRecords(t *testing.T) {
	e, err := Encode(DNA, []byte("AC"), []byte("N"), []byte("gtu"))
	require.NoError(t, err)

	assert.Equal(t, 8, e.Len())
	assert.Equal(t, "AC|N|GTT", e.String())
	assert.Equal(t, 3, e.SpecialCount())
	assert.Equal(t, []Range{{2, 5}}, collectRanges(e.SpecialRanges(true)))
	assert.Equal(t, 3, e.NumSequences())
	assert.Equal(t, 0, e.SequenceOf(1, Forward))
	assert.Equal(t, -1, e.SequenceOf(2, Forward))
	assert.Equal(t, 2, e.SequenceOf(7, Forward))
	assert.Equal(t, 0, e.SequenceOf(0, Reverse))
}

func TestEncodeRejectsUnknownSymbols(t *testing.T) {
	_, err := Encode(DNA, []byte("ACZ"))
	require.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = DNA.EncodePattern("AN")
	require.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestSpecialRangesBothDirections(t *testing.T) {
	e, err := Encode(DNA, []byte("NNACNGTN"))
	require.NoError(t, err)

	fwd := collectRanges(e.SpecialRanges(true))
	assert.Equal(t, []Range{{0, 2}, {4, 5}, {7, 8}}, fwd)
	bwd := collectRanges(e.SpecialRanges(false))
	assert.Equal(t, []Range{{7, 8}, {4, 5}, {0, 2}}, bwd)
	assert.Equal(t, 4, e.SpecialCount())
}

func TestReadModes(t *testing.T) {
	e, err := Encode(DNA, []byte("AACGN"))
	require.NoError(t, err)

	read := func(mode ReadMode) string {
		var sb strings.Builder
		for i := 0; i < e.Len(); i++ {
			sb.WriteByte(DNA.Decode(e.CharAt(i, mode)))
		}
		return sb.String()
	}
	assert.Equal(t, "AACGN", read(Forward))
	assert.Equal(t, "NGCAA", read(Reverse))
	assert.Equal(t, "TTGCN", read(Complement))
	assert.Equal(t, "NCGTT", read(ReverseComplement))

	p, err := Encode(Protein, []byte("MKX"))
	require.NoError(t, err)
	assert.False(t, p.CanComplement())
	assert.True(t, p.IsSpecial(p.CharAt(2, Forward)))
}

func TestParseReadMode(t *testing.T) {
	for m := Forward; m <= ReverseComplement; m++ {
		got, err := ParseReadMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseReadMode("sideways")
	assert.Error(t, err)
}

func TestExtractMatchesCharAt(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	buf := make([]byte, 300)
	for i := range buf {
		buf[i] = "ACGT"[r.Intn(4)]
		if r.Intn(40) == 0 {
			buf[i] = 'N'
		}
	}
	e, err := Encode(DNA, buf[:120], buf[120:])
	require.NoError(t, err)

	for _, mode := range []ReadMode{Forward, Reverse, Complement, ReverseComplement} {
		for pos := 0; pos < e.Len(); pos++ {
			word, n := e.Extract(pos, mode)
			want := 0
			for want < 32 && pos+want < e.Len() && !e.IsSpecial(e.CharAt(pos+want, mode)) {
				want++
			}
			require.Equal(t, want, n, "mode %v pos %d", mode, pos)
			for i := 0; i < n; i++ {
				got := byte(word >> (62 - 2*uint(i)) & 3)
				require.Equal(t, e.CharAt(pos+i, mode), got, "mode %v pos %d offset %d", mode, pos, i)
			}
			if n < 32 {
				assert.Zero(t, word<<(2*uint(n)), "bits past the run must be clear")
			}
		}
	}
}

func TestParse(t *testing.T) {
	input := ">first record\nac gt\nNN\n;comment\n>second\n\tTTa\n"
	e, err := Parse(strings.NewReader(input), DNA)
	require.NoError(t, err)
	assert.Equal(t, "ACGTNN|TTA", e.String())
	assert.Equal(t, 2, e.NumSequences())

	e, err = Parse(strings.NewReader("acgt\nacgt\n"), DNA)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", e.String())

	_, err = Parse(strings.NewReader(">x\nACQ\n"), DNA)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fa")
	require.NoError(t, os.WriteFile(path, []byte(">p\nMKV\nLX\n"), 0o644))

	e, err := Open(path, Protein)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Len())
	assert.Equal(t, 1, e.SpecialCount())

	_, err = Open(filepath.Join(t.TempDir(), "missing.fa"), Protein)
	assert.Error(t, err)
}
