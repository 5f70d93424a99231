package suffixer

// SpecialPosition records the regular symbols right before a special symbol
// or the end of the text. Code holds the MaxPrefixLen symbols preceding
// Position; suffixes starting in that window have fewer than PrefixLength
// regular symbols.
type SpecialPosition struct {
	Code         int
	MaxPrefixLen int
	Position     int
}

// specialCollector enumerates the suffixes that are cut short by a special
// symbol. In table mode the records are built once; otherwise the special
// ranges are scanned again for every prefix length.
type specialCollector struct {
	v      *view
	k      int
	powers []int
	table  []SpecialPosition
}

func newSpecialCollector(v *view, k int, useTable bool) *specialCollector {
	sc := &specialCollector{
		v:      v,
		k:      k,
		powers: newPowers(v.sigma, k),
	}
	if useTable {
		sc.table = make([]SpecialPosition, 0)
		sc.scan(func(sp SpecialPosition) {
			sc.table = append(sc.table, sp)
		})
	}
	return sc
}

// scan reports one record per special range start and one for the end of
// the text, in ascending position order.
func (sc *specialCollector) scan(fn func(SpecialPosition)) {
	prevEnd := 0
	emit := func(s int) {
		m := min(s-prevEnd, sc.k-1)
		if m <= 0 {
			return
		}
		code := 0
		for i := s - m; i < s; i++ {
			code = code*sc.v.sigma + sc.v.at(i)
		}
		fn(SpecialPosition{Code: code, MaxPrefixLen: m, Position: s})
	}
	w := sc.v.specialRanges(true)
	for r, ok := w.Next(); ok; r, ok = w.Next() {
		emit(r.Start)
		prevEnd = r.End
	}
	emit(sc.v.n)
}

// eachInsertion calls fn with the padded code and position of every cut
// short suffix, longest defined prefix first and descending positions within
// a prefix length. This is the order in which they are written right to
// left into their buckets.
func (sc *specialCollector) eachInsertion(fn func(code, pos int)) {
	if sc.table != nil {
		for j := sc.k - 1; j >= 1; j-- {
			for i := len(sc.table) - 1; i >= 0; i-- {
				sp := sc.table[i]
				if sp.MaxPrefixLen < j {
					continue
				}
				code := sp.Code % sc.powers[j] * sc.powers[sc.k-j]
				fn(code, sp.Position-j)
			}
		}
		return
	}

	for j := sc.k - 1; j >= 1; j-- {
		w := sc.v.specialRanges(false)
		start := sc.v.n
		next, more := w.Next()
		for {
			prevEnd := 0
			if more {
				prevEnd = next.End
			}
			if start-prevEnd >= j {
				pos := start - j
				code := 0
				for i := 0; i < j; i++ {
					code = code*sc.v.sigma + sc.v.at(pos+i)
				}
				fn(code*sc.powers[sc.k-j], pos)
			}
			if !more {
				break
			}
			start = next.Start
			next, more = w.Next()
		}
	}
}

func (sc *specialCollector) sizeInBytes() int64 {
	return int64(cap(sc.table)) * 24
}
