// Package encseq stores encoded symbol sequences and exposes them through the
// read-only views the suffix sorter consumes.
package encseq

import (
	"sort"

	"github.com/pkg/errors"
)

// ReadMode selects the direction and strand a sequence is read in.
type ReadMode uint8

const (
	Forward ReadMode = iota
	Reverse
	Complement
	ReverseComplement
)

func (m ReadMode) IsReverse() bool    { return m == Reverse || m == ReverseComplement }
func (m ReadMode) IsComplement() bool { return m == Complement || m == ReverseComplement }

func (m ReadMode) String() string {
	switch m {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Complement:
		return "complement"
	case ReverseComplement:
		return "reverse-complement"
	}
	return "unknown"
}

// ParseReadMode is the inverse of ReadMode.String.
func ParseReadMode(s string) (ReadMode, error) {
	for m := Forward; m <= ReverseComplement; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return Forward, errors.Errorf("encseq: unknown read mode %q", s)
}

// Range is a half-open interval [Start, End) of positions.
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// RangeIterator walks maximal runs of special symbols.
type RangeIterator interface {
	Next() (Range, bool)
}

// Sequence is the read-only view over an encoded text of Len symbols. Positions
// passed to CharAt are in the coordinates of the read mode, so position 0 of a
// reverse view is the last stored symbol. SpecialRanges reports ranges in
// stored coordinates, ascending when forward is true.
type Sequence interface {
	Len() int
	AlphabetSize() int
	CharAt(pos int, mode ReadMode) byte
	IsSpecial(c byte) bool
	SpecialCount() int
	SpecialRanges(forward bool) RangeIterator
	CanComplement() bool
}

// Packed is implemented by sequences over a four-symbol alphabet that keep a
// 2-bit packed copy of the text.
type Packed interface {
	// Extract returns up to 32 regular symbols starting at pos in the given
	// mode, packed 2 bits each from the most significant end, and how many of
	// them precede the next special symbol or the end of the text.
	Extract(pos int, mode ReadMode) (word uint64, n int)
}

// MultiSequence is implemented by sequences built from several records.
type MultiSequence interface {
	NumSequences() int
	// SequenceOf returns the record holding pos in mode coordinates, or -1
	// for separators.
	SequenceOf(pos int, mode ReadMode) int
}

// Encoded is an in-memory sequence of symbol codes.
type Encoded struct {
	alphabet *Alphabet
	codes    []byte
	ranges   []Range
	specials int
	starts   []int
	packed   []uint64
}

var (
	_ Sequence      = (*Encoded)(nil)
	_ Packed        = (*Encoded)(nil)
	_ MultiSequence = (*Encoded)(nil)
)

// Encode joins seqs with separators and encodes them with a.
func Encode(a *Alphabet, seqs ...[]byte) (*Encoded, error) {
	total := 0
	for _, s := range seqs {
		total += len(s)
	}
	if len(seqs) > 1 {
		total += len(seqs) - 1
	}
	codes := make([]byte, 0, total)
	starts := make([]int, 0, len(seqs))
	for i, s := range seqs {
		if i > 0 {
			codes = append(codes, Separator)
		}
		starts = append(starts, len(codes))
		for j, c := range s {
			code, ok := a.Encode(c)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidSymbol, "sequence %d: character %q at %d", i, c, j)
			}
			codes = append(codes, code)
		}
	}
	return FromCodes(a, codes, starts), nil
}

// FromCodes wraps already encoded symbols. starts holds the first position of
// every record; nil means a single record.
func FromCodes(a *Alphabet, codes []byte, starts []int) *Encoded {
	if starts == nil && len(codes) > 0 {
		starts = []int{0}
	}
	e := &Encoded{alphabet: a, codes: codes, starts: starts}
	for i := 0; i < len(codes); {
		if int(codes[i]) < a.Size() {
			i++
			continue
		}
		j := i + 1
		for j < len(codes) && int(codes[j]) >= a.Size() {
			j++
		}
		e.ranges = append(e.ranges, Range{Start: i, End: j})
		e.specials += j - i
		i = j
	}
	if a.Size() == 4 {
		e.packed = make([]uint64, (len(codes)+31)/32)
		for i, c := range codes {
			if c < 4 {
				e.packed[i>>5] |= uint64(c) << (62 - 2*uint(i&31))
			}
		}
	}
	return e
}

func (e *Encoded) Alphabet() *Alphabet { return e.alphabet }
func (e *Encoded) Len() int            { return len(e.codes) }
func (e *Encoded) AlphabetSize() int   { return e.alphabet.Size() }
func (e *Encoded) SpecialCount() int   { return e.specials }
func (e *Encoded) CanComplement() bool { return e.alphabet.CanComplement() }
func (e *Encoded) NumSequences() int   { return len(e.starts) }

func (e *Encoded) IsSpecial(c byte) bool { return int(c) >= e.alphabet.Size() }

func (e *Encoded) stored(pos int, mode ReadMode) int {
	if mode.IsReverse() {
		return len(e.codes) - 1 - pos
	}
	return pos
}

func (e *Encoded) CharAt(pos int, mode ReadMode) byte {
	c := e.codes[e.stored(pos, mode)]
	if mode.IsComplement() && int(c) < e.alphabet.Size() {
		c = e.alphabet.complement[c]
	}
	return c
}

func (e *Encoded) SequenceOf(pos int, mode ReadMode) int {
	p := e.stored(pos, mode)
	if e.codes[p] == Separator {
		return -1
	}
	i := sort.SearchInts(e.starts, p+1) - 1
	if mode.IsReverse() {
		return len(e.starts) - 1 - i
	}
	return i
}

// String decodes the whole sequence.
func (e *Encoded) String() string {
	out := make([]byte, len(e.codes))
	for i, c := range e.codes {
		out[i] = e.alphabet.Decode(c)
	}
	return string(out)
}

type rangeIter struct {
	ranges  []Range
	next    int
	forward bool
}

func (it *rangeIter) Next() (Range, bool) {
	if it.next >= len(it.ranges) {
		return Range{}, false
	}
	i := it.next
	if !it.forward {
		i = len(it.ranges) - 1 - i
	}
	it.next++
	return it.ranges[i], true
}

func (e *Encoded) SpecialRanges(forward bool) RangeIterator {
	return &rangeIter{ranges: e.ranges, forward: forward}
}

// regularRun returns the number of regular symbols starting at stored
// position p and extending in the read direction.
func (e *Encoded) regularRun(p int, reverse bool) int {
	i := sort.Search(len(e.ranges), func(i int) bool { return e.ranges[i].End > p })
	if i < len(e.ranges) && e.ranges[i].Start <= p {
		return 0
	}
	if !reverse {
		if i < len(e.ranges) {
			return e.ranges[i].Start - p
		}
		return len(e.codes) - p
	}
	if i > 0 {
		return p - e.ranges[i-1].End + 1
	}
	return p + 1
}

func (e *Encoded) symbol(p int) uint64 {
	return e.packed[p>>5] >> (62 - 2*uint(p&31)) & 3
}

func (e *Encoded) Extract(pos int, mode ReadMode) (uint64, int) {
	if e.packed == nil || pos < 0 || pos >= len(e.codes) {
		return 0, 0
	}
	p := e.stored(pos, mode)
	n := min(32, e.regularRun(p, mode.IsReverse()))
	if n == 0 {
		return 0, 0
	}
	var w uint64
	if !mode.IsReverse() {
		wi, off := p>>5, uint(p&31)
		w = e.packed[wi] << (2 * off)
		if off > 0 && wi+1 < len(e.packed) {
			w |= e.packed[wi+1] >> (64 - 2*off)
		}
		if mode.IsComplement() {
			w = ^w
		}
	} else {
		for i := 0; i < n; i++ {
			c := e.symbol(p - i)
			if mode.IsComplement() {
				c = 3 - c
			}
			w |= c << (62 - 2*uint(i))
		}
	}
	if n < 32 {
		w &^= uint64(1)<<(64-2*uint(n)) - 1
	}
	return w, n
}
