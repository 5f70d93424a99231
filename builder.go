package suffixer

import (
	"math"
	"math/bits"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/viniciusth/suffixer/encseq"
)

const (
	defaultInsertionSortWidth = 6
	defaultBlindTrieWidth     = 1000
	defaultLCPBits            = 8

	// unbounded is the depth limit used when suffixes are compared to their end.
	unbounded = math.MaxInt

	maxDifferenceCover = 1 << 12
)

// codeBits is the widest bucket code the table supports.
var codeBits = min(32, strconv.IntSize-1)

// UnsortedRange is a run of suffixes in the final array that share at least
// Depth symbols and were left in ascending position order because the sort was
// truncated at that depth.
type UnsortedRange struct {
	Start int
	Width int
	Depth int
}

// Builder configures a suffix array construction over one sequence. Options
// are chained and validated when Iterator or Build is called.
type Builder struct {
	seq  encseq.Sequence
	mode encseq.ReadMode

	prefixLength    int
	prefixLengthSet bool
	parts           int
	memoryLimit     int64

	insertionSortWidth     int
	blindTrieWidth         int
	differenceCover        int
	requireDifferenceCover bool

	computeLCP bool
	lcpBits    int

	maxSortDepth int
	onUnsorted   func(UnsortedRange)

	specialTable bool
	charByChar   bool
	pageSize     int
	workers      int
	logger       *zap.Logger
	observer     Observer
}

// NewBuilder returns a Builder with the default options for seq.
func NewBuilder(seq encseq.Sequence) *Builder {
	return &Builder{
		seq:                seq,
		mode:               encseq.Forward,
		parts:              1,
		insertionSortWidth: defaultInsertionSortWidth,
		blindTrieWidth:     defaultBlindTrieWidth,
		lcpBits:            defaultLCPBits,
		specialTable:       true,
		workers:            1,
	}
}

// Sets the number of symbols used for the initial bucketing. The default is
// derived from the sequence length and the alphabet size.
func (b *Builder) PrefixLength(k int) *Builder {
	b.prefixLength = k
	b.prefixLengthSet = true
	return b
}

// Splits the bucket table into n parts that are sorted one after another.
// Peak memory drops to roughly the size of the largest part.
func (b *Builder) Parts(n int) *Builder {
	b.parts = n
	return b
}

// Caps the working memory in bytes. The partition threshold is lowered until
// every part fits, which may produce more parts than requested.
func (b *Builder) MemoryLimit(bytes int64) *Builder {
	b.memoryLimit = bytes
	return b
}

// Buckets up to this width are sorted by direct comparison. Larger values
// avoid trie setup on tiny buckets but compare pairs quadratically.
func (b *Builder) InsertionSortWidth(w int) *Builder {
	b.insertionSortWidth = w
	return b
}

// Buckets up to this width are sorted with a blind trie.
func (b *Builder) BlindTrieWidth(w int) *Builder {
	b.blindTrieWidth = w
	return b
}

// Sorts large buckets with a difference cover sample of the given modulus,
// which must be a power of two between 4 and 4096. When the sample cannot be
// built the sorter falls back to multikey refinement unless
// RequireDifferenceCover is set.
func (b *Builder) DifferenceCover(modulus int) *Builder {
	b.differenceCover = modulus
	return b
}

// Makes a difference cover that cannot be built a construction error instead
// of a logged fallback to multikey refinement.
func (b *Builder) RequireDifferenceCover() *Builder {
	b.requireDifferenceCover = true
	return b
}

// Emits the LCP table alongside the suffix array. Values that do not fit in
// the given number of bits are reported separately on every page.
func (b *Builder) WithLCP(bits int) *Builder {
	b.computeLCP = true
	b.lcpBits = bits
	return b
}

// Stops comparing suffixes after depth symbols. Suffixes equal up to that
// depth stay in ascending position order and are reported through
// OnUnsortedRange, unless a difference cover is configured, in which case
// they are sorted completely.
func (b *Builder) MaxSortDepth(depth int) *Builder {
	b.maxSortDepth = depth
	return b
}

// Receives every range left unsorted by MaxSortDepth, in rank order.
func (b *Builder) OnUnsortedRange(fn func(UnsortedRange)) *Builder {
	b.onUnsorted = fn
	return b
}

// Chooses how suffixes near special symbols are found. With the table (the
// default) they are collected once; otherwise the special ranges are
// rescanned for every prefix length, trading time for memory.
func (b *Builder) SpecialCodeTable(enabled bool) *Builder {
	b.specialTable = enabled
	return b
}

// Disables the packed 2-bit comparisons even when the sequence provides them.
func (b *Builder) CompareCharByChar() *Builder {
	b.charByChar = true
	return b
}

// Sets the capacity of the iterator pages that hold special suffixes. Pages of
// sorted suffixes always hold a whole part. The default is the width of the
// largest part.
func (b *Builder) PageSize(n int) *Builder {
	b.pageSize = n
	return b
}

// Number of parts sorted concurrently by Build.
func (b *Builder) Workers(n int) *Builder {
	b.workers = n
	return b
}

// Sorts the sequence as read in mode. Complement modes need an alphabet
// that can be complemented.
func (b *Builder) ReadMode(mode encseq.ReadMode) *Builder {
	b.mode = mode
	return b
}

// Sets the logger for session setup and part events. The default discards
// everything.
func (b *Builder) Logger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Receives bucket and part events. It must be safe for concurrent use when
// Workers is greater than one.
func (b *Builder) Observer(o Observer) *Builder {
	b.observer = o
	return b
}

type config struct {
	seq  encseq.Sequence
	mode encseq.ReadMode

	prefixLength int
	parts        int
	memoryLimit  int64

	insertionSortWidth     int
	blindTrieWidth         int
	differenceCover        int
	requireDifferenceCover bool

	computeLCP bool
	lcpBits    int

	maxSortDepth int
	onUnsorted   func(UnsortedRange)

	specialTable bool
	charByChar   bool
	pageSize     int
	workers      int
	logger       *zap.Logger
	observer     Observer
}

// depthLimit is the depth at which comparisons stop.
func (c *config) depthLimit() int {
	if c.maxSortDepth > 0 {
		return c.maxSortDepth
	}
	return unbounded
}

// maxPrefixLength is the largest k whose codes fit in codeBits.
func maxPrefixLength(sigma int) int {
	width := bits.Len(uint(sigma - 1))
	if width == 0 {
		width = 1
	}
	return codeBits / width
}

// recommendedPrefixLength picks the largest k with sigma^k <= n/4, so buckets
// hold a handful of suffixes on average.
func recommendedPrefixLength(n, sigma int) int {
	limit := max(n/4, sigma)
	k, size := 0, 1
	for k < maxPrefixLength(sigma) && size <= limit/sigma {
		size *= sigma
		k++
	}
	return max(k, 1)
}

func (b *Builder) config() (config, error) {
	c := config{
		seq:                    b.seq,
		mode:                   b.mode,
		prefixLength:           b.prefixLength,
		parts:                  b.parts,
		memoryLimit:            b.memoryLimit,
		insertionSortWidth:     b.insertionSortWidth,
		blindTrieWidth:         b.blindTrieWidth,
		differenceCover:        b.differenceCover,
		requireDifferenceCover: b.requireDifferenceCover,
		computeLCP:             b.computeLCP,
		lcpBits:                b.lcpBits,
		maxSortDepth:           b.maxSortDepth,
		onUnsorted:             b.onUnsorted,
		specialTable:           b.specialTable,
		charByChar:             b.charByChar,
		pageSize:               b.pageSize,
		workers:                max(b.workers, 1),
		logger:                 b.logger,
		observer:               b.observer,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}

	if c.seq == nil {
		return c, errors.Wrap(ErrInvalidConfiguration, "nil sequence")
	}
	sigma := c.seq.AlphabetSize()
	if sigma < 1 || sigma > 254 {
		return c, errors.Wrapf(ErrInvalidConfiguration, "alphabet size %d", sigma)
	}
	if c.mode.IsComplement() && !c.seq.CanComplement() {
		return c, errors.Wrapf(ErrInvalidConfiguration, "read mode %v needs a complementable alphabet", c.mode)
	}
	if !b.prefixLengthSet {
		c.prefixLength = recommendedPrefixLength(c.seq.Len(), sigma)
	}
	if c.prefixLength < 1 || c.prefixLength > maxPrefixLength(sigma) {
		return c, errors.Wrapf(ErrInvalidPrefixLength, "%d not in [1,%d] for alphabet size %d",
			c.prefixLength, maxPrefixLength(sigma), sigma)
	}
	if c.parts < 1 {
		return c, errors.Wrapf(ErrPartitioning, "%d parts requested", c.parts)
	}

	switch {
	case c.memoryLimit < 0:
		return c, errors.Wrapf(ErrInvalidConfiguration, "memory limit %d", c.memoryLimit)
	case c.insertionSortWidth < 0 || c.blindTrieWidth < 0:
		return c, errors.Wrapf(ErrInvalidConfiguration, "sorter widths %d/%d", c.insertionSortWidth, c.blindTrieWidth)
	case c.differenceCover < 0:
		return c, errors.Wrapf(ErrInvalidConfiguration, "difference cover modulus %d", c.differenceCover)
	case c.computeLCP && (c.lcpBits < 1 || c.lcpBits > 32):
		return c, errors.Wrapf(ErrInvalidConfiguration, "lcp bits %d not in [1,32]", c.lcpBits)
	case c.maxSortDepth < 0 || (c.maxSortDepth > 0 && c.maxSortDepth < c.prefixLength):
		return c, errors.Wrapf(ErrInvalidConfiguration, "max sort depth %d below prefix length %d", c.maxSortDepth, c.prefixLength)
	case c.pageSize < 0:
		return c, errors.Wrapf(ErrInvalidConfiguration, "page size %d", c.pageSize)
	}
	return c, nil
}
