package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/viniciusth/suffixer"
	"github.com/viniciusth/suffixer/encseq"
)

type variant struct {
	name   string
	config func(*suffixer.Builder) *suffixer.Builder
}

var variants = map[string]variant{
	"default":  {name: "default", config: func(b *suffixer.Builder) *suffixer.Builder { return b }},
	"lcp":      {name: "lcp", config: func(b *suffixer.Builder) *suffixer.Builder { return b.WithLCP(16) }},
	"dcov":     {name: "dcov", config: func(b *suffixer.Builder) *suffixer.Builder { return b.DifferenceCover(64) }},
	"no_trie":  {name: "no_trie", config: func(b *suffixer.Builder) *suffixer.Builder { return b.BlindTrieWidth(0) }},
	"onthefly": {name: "onthefly", config: func(b *suffixer.Builder) *suffixer.Builder { return b.SpecialCodeTable(false) }},
	"charwise": {name: "charwise", config: func(b *suffixer.Builder) *suffixer.Builder { return b.CompareCharByChar() }},
	"parts8": {name: "parts8", config: func(b *suffixer.Builder) *suffixer.Builder {
		return b.Parts(8).Workers(runtime.NumCPU())
	}},
}

func variantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type densityType string

const (
	densityLow  densityType = "low"
	densityHigh densityType = "high"
)

type memMonitor struct {
	maxAlloc uint64
	stop     chan struct{}
	done     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(mm.done)
		for {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			if m.Alloc > mm.maxAlloc {
				mm.maxAlloc = m.Alloc
			}
			select {
			case <-mm.stop:
				return
			default:
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()
	return mm
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	<-mm.done
	return mm.maxAlloc
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func measureBuild(seq *encseq.Encoded, logger *zap.Logger, config func(*suffixer.Builder) *suffixer.Builder) (time.Duration, uint64, uint64, *suffixer.SuffixArray) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	builder := config(suffixer.NewBuilder(seq).Logger(logger))
	sa, err := builder.Build(context.Background())
	if err != nil {
		panic(err)
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc, sa
}

func measureQuery(idx *suffixer.Index, patterns [][]byte, k int) (time.Duration, uint64, uint64) {
	runtime.GC()
	mm := newMemMonitor()
	start := time.Now()
	for _, p := range patterns {
		_ = idx.Records(p, k)
	}
	dur := time.Since(start)
	peak := mm.Stop()
	runtime.GC()
	alloc := getCurrentAlloc()
	return dur, peak, alloc
}

func randomRecord(r *rand.Rand, w int, wildcards float64) []byte {
	rec := make([]byte, w)
	for j := range rec {
		rec[j] = "ACGT"[r.Intn(4)]
		if r.Float64() < wildcards {
			rec[j] = 'N'
		}
	}
	return rec
}

func runBenchmark(v variant, logger *zap.Logger, input string, M, W, P, K, Q, runs int, density densityType, wildcards float64) {
	for run := 0; run < runs; run++ {
		r := rand.New(rand.NewSource(int64(run)))
		var (
			seq    *encseq.Encoded
			common []byte
			err    error
		)
		if input != "" {
			seq, err = encseq.Open(input, encseq.DNA)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not read input: %v\n", err)
				os.Exit(1)
			}
		} else {
			records := make([][]byte, M)
			if density == densityHigh {
				common = randomRecord(r, P, 0)
			}
			for i := range records {
				records[i] = randomRecord(r, W, wildcards)
				if common != nil {
					copy(records[i][r.Intn(W-P+1):], common)
				}
			}
			seq, err = encseq.Encode(encseq.DNA, records...)
			if err != nil {
				panic(err)
			}
		}

		bt, bp, ba, sa := measureBuild(seq, logger, v.config)
		idx := suffixer.NewIndex(seq, encseq.Forward, sa)

		patterns := make([][]byte, Q)
		for i := range patterns {
			if common != nil {
				patterns[i], _ = encseq.DNA.EncodePattern(string(common))
				continue
			}
			start := r.Intn(max(seq.Len()-P, 0) + 1)
			patterns[i] = make([]byte, 0, P)
			for j := start; j < start+P && j < seq.Len(); j++ {
				if c := seq.CharAt(j, encseq.Forward); !seq.IsSpecial(c) {
					patterns[i] = append(patterns[i], c)
				}
			}
		}
		qt, qp, qa := measureQuery(idx, patterns, K)

		fmt.Printf("%s,%d,%d,%d,%d,%d,%s,%.0f,%d,%d,%.0f,%d,%d\n",
			v.name, seq.Len(), W, P, K, Q, density,
			float64(bt.Nanoseconds()), bp, ba,
			float64(qt.Nanoseconds()), qp, qa)
		fmt.Fprintf(os.Stderr, "%s run %d: %s symbols sorted in %s, peak %s, retained %s\n",
			v.name, run, humanize.Comma(int64(seq.Len())), bt, humanize.Bytes(bp), humanize.Bytes(ba))
	}
}

func main() {
	var (
		variantName = kingpin.Flag("variant", "Variant to benchmark.").Required().Enum(variantNames()...)
		input       = kingpin.Flag("input", "FASTA file to sort instead of random records.").ExistingFile()
		m           = kingpin.Flag("m", "Number of random records M.").Default("1000").Int()
		w           = kingpin.Flag("w", "Record length W.").Default("1000").Int()
		p           = kingpin.Flag("p", "Pattern length P.").Default("12").Int()
		k           = kingpin.Flag("k", "Number of record matches K.").Default("10").Int()
		q           = kingpin.Flag("q", "Number of queries Q.").Default("1000").Int()
		runs        = kingpin.Flag("runs", "Number of runs for averaging.").Default("3").Int()
		d           = kingpin.Flag("d", "Density: low or high.").Default("low").Enum(string(densityLow), string(densityHigh))
		wildcards   = kingpin.Flag("wildcards", "Fraction of random symbols replaced by N.").Default("0.001").Float64()
		cpuprofile  = kingpin.Flag("cpuprofile", "Write CPU profile to file.").String()
		verbose     = kingpin.Flag("verbose", "Log construction details to stderr.").Short('v').Bool()
	)
	kingpin.Parse()

	if *p > *w || *m <= 0 || *p <= 0 || *k <= 0 || *q <= 0 {
		kingpin.Fatalf("need 0 < p <= w and positive m, k, q")
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			kingpin.Fatalf("could not create logger: %v", err)
		}
		defer logger.Sync()
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	runBenchmark(variants[*variantName], logger, *input, *m, *w, *p, *k, *q, *runs, densityType(*d), *wildcards)
}
