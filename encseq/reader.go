package encseq

import (
	"bufio"
	"bytes"
	"io"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const maxLineSize = 1 << 26

func newLineCleaner() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.In(unicode.White_Space)),
		cases.Upper(language.Und),
	)
}

// Parse reads FASTA records from r. Lines starting with '>' open a new record
// and lines starting with ';' are comments. Input without any header is read
// as a single record. Whitespace is dropped and letters are upper-cased.
func Parse(r io.Reader, a *Alphabet) (*Encoded, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	cleaner := newLineCleaner()
	var (
		seqs    [][]byte
		current []byte
		open    bool
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		switch {
		case bytes.HasPrefix(line, []byte(">")):
			if open {
				seqs = append(seqs, current)
			}
			current, open = nil, true
			continue
		case bytes.HasPrefix(line, []byte(";")):
			continue
		}
		clean, _, err := transform.Bytes(cleaner, line)
		if err != nil {
			return nil, errors.Wrapf(err, "encseq: line %d", lineNo)
		}
		if len(clean) == 0 {
			continue
		}
		current = append(current, clean...)
		open = true
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "encseq: reading input")
	}
	if open {
		seqs = append(seqs, current)
	}
	return Encode(a, seqs...)
}

// Open memory-maps the file at path and parses it with Parse.
func Open(path string, a *Alphabet) (*Encoded, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "encseq: open %s", path)
	}
	defer r.Close()
	return Parse(io.NewSectionReader(r, 0, int64(r.Len())), a)
}
