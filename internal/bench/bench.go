// Package bench provides benchmarking primitives for the subword bench command.
package bench

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/go-subword/internal/bpe"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and output metadata for a single training run.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run
	Duration   time.Duration
	Merges     int
	Throughput float64 // merges per second
	Digest     string  // hash of the merge list and tokenized lines
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// Options configures Run.
type Options struct {
	Lines     []string
	VocabSize int
	Runs      int
	Trainer   bpe.Options
}

// Run trains on opts.Lines opts.Runs times and returns one result per run.
func Run(ctx context.Context, opts Options) ([]RunResult, error) {
	if opts.Runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", opts.Runs)
	}

	results := make([]RunResult, 0, opts.Runs)
	for i := range opts.Runs {
		start := time.Now()
		res, err := bpe.NewTrainer(opts.Lines, opts.Trainer).Train(ctx, opts.VocabSize)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		elapsed := time.Since(start)

		results = append(results, RunResult{
			Index:      i,
			Cold:       i == 0,
			Duration:   elapsed,
			Merges:     len(res.Merges),
			Throughput: CalcThroughput(len(res.Merges), elapsed),
			Digest:     Digest(res),
		})
	}
	return results, nil
}

// CalcThroughput returns merges per second.
// Returns 0 if elapsed is zero to avoid division by zero.
func CalcThroughput(merges int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(merges) / elapsed.Seconds()
}

// Digest hashes a training result exactly as it would be written to the
// vocab and output files.
func Digest(res *bpe.Result) string {
	h := sha256.New()
	for _, p := range res.Merges {
		_, _ = io.WriteString(h, p.String())
		_, _ = h.Write([]byte{'\n'})
	}
	_, _ = h.Write([]byte{0})
	for _, l := range res.Lines {
		_, _ = io.WriteString(h, l)
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ---------------------------------------------------------------------------
// Determinism gate
// ---------------------------------------------------------------------------

// CheckDeterminism returns an error if any run produced output different
// from the first run.
func CheckDeterminism(runs []RunResult) error {
	for _, r := range runs[min(1, len(runs)):] {
		if r.Digest != runs[0].Digest {
			return fmt.Errorf("run %d output %s differs from run 1 output %s",
				r.Index+1, shortDigest(r.Digest), shortDigest(runs[0].Digest))
		}
	}
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %12s  %-12s\n", "Run", "Cold", "MS", "Merges", "Merges/s", "Digest")
	fmt.Fprintln(sb, strings.Repeat("-", 62))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.1f  %8d  %12.1f  %-12s\n",
			r.Index+1,
			cold,
			float64(r.Duration.Microseconds())/1000,
			r.Merges,
			r.Throughput,
			shortDigest(r.Digest),
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 62))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (min)\n", "", "", float64(stats.Min.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (mean)\n", "", "", float64(stats.Mean.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (max)\n", "", "", float64(stats.Max.Microseconds())/1000)

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index        int     `json:"index"`
	Cold         bool    `json:"cold"`
	DurationMS   float64 `json:"duration_ms"`
	Merges       int     `json:"merges"`
	MergesPerSec float64 `json:"merges_per_sec"`
	Digest       string  `json:"digest"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  float64(stats.Min.Microseconds()) / 1000,
			MeanMS: float64(stats.Mean.Microseconds()) / 1000,
			MaxMS:  float64(stats.Max.Microseconds()) / 1000,
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:        r.Index,
			Cold:         r.Cold,
			DurationMS:   float64(r.Duration.Microseconds()) / 1000,
			Merges:       r.Merges,
			MergesPerSec: r.Throughput,
			Digest:       r.Digest,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
