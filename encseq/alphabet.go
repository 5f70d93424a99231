package encseq

import (
	"github.com/pkg/errors"
)

const (
	// Wildcard is the code of an ambiguous symbol such as N in DNA or X in protein sequences.
	Wildcard byte = 0xFF
	// Separator is the code placed between two sequences of a multi-sequence corpus.
	Separator byte = 0xFE

	invalid byte = 0xFD
)

var (
	ErrInvalidSymbol = errors.New("encseq: symbol not in alphabet")
)

// Alphabet maps input characters to dense symbol codes. Codes 0..Size()-1 are
// regular symbols ordered like their position in the symbol string; wildcard
// characters map to Wildcard.
type Alphabet struct {
	name       string
	symbols    string
	codes      [256]byte
	complement []byte
}

func newAlphabet(name, symbols, wildcards string, aliases map[byte]byte, complement string) *Alphabet {
	a := &Alphabet{name: name, symbols: symbols}
	for i := range a.codes {
		a.codes[i] = invalid
	}
	set := func(c, code byte) {
		a.codes[c] = code
		if 'A' <= c && c <= 'Z' {
			a.codes[c+'a'-'A'] = code
		}
	}
	for i := 0; i < len(symbols); i++ {
		set(symbols[i], byte(i))
	}
	for i := 0; i < len(wildcards); i++ {
		set(wildcards[i], Wildcard)
	}
	for from, to := range aliases {
		set(from, a.codes[to])
	}
	if complement != "" {
		a.complement = make([]byte, len(symbols))
		for i := 0; i < len(symbols); i++ {
			a.complement[i] = a.codes[complement[i]]
		}
	}
	return a
}

var (
	// DNA has the four nucleotides; U reads as T and the IUPAC ambiguity codes are wildcards.
	DNA = newAlphabet("dna", "ACGT", "NRYSWKMBDHV", map[byte]byte{'U': 'T'}, "TGCA")
	// Protein has the twenty standard amino acids; X, B, Z, J, U, O and * are wildcards.
	Protein = newAlphabet("protein", "ACDEFGHIKLMNPQRSTVWY", "XBZJUO*", nil, "")
)

func (a *Alphabet) Name() string { return a.name }

// Size is the number of regular symbols.
func (a *Alphabet) Size() int { return len(a.symbols) }

// CanComplement reports whether the complement read modes are defined.
func (a *Alphabet) CanComplement() bool { return a.complement != nil }

// Encode returns the code of c, which is Wildcard for ambiguous characters.
func (a *Alphabet) Encode(c byte) (byte, bool) {
	code := a.codes[c]
	return code, code != invalid
}

// Decode returns the character printed for code.
func (a *Alphabet) Decode(code byte) byte {
	switch {
	case code == Separator:
		return '|'
	case code == Wildcard:
		if a.CanComplement() {
			return 'N'
		}
		return 'X'
	case int(code) < len(a.symbols):
		return a.symbols[code]
	}
	return '?'
}

// EncodePattern encodes a query made of regular symbols only.
func (a *Alphabet) EncodePattern(s string) ([]byte, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		code, ok := a.Encode(s[i])
		if !ok || code == Wildcard {
			return nil, errors.Wrapf(ErrInvalidSymbol, "pattern character %q at %d", s[i], i)
		}
		out[i] = code
	}
	return out, nil
}
