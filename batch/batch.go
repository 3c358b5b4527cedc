// Package batch segments many fluency runs concurrently: it truncates and
// normalizes every run, segments it with the configured algorithm, falls back
// to greedy when an exhaustive search runs out of budget, and computes the
// per-item and per-run statistics.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/semflu/catmatrix"
	"github.com/katalvlaran/semflu/category"
	"github.com/katalvlaran/semflu/internal/logger"
	"github.com/katalvlaran/semflu/internal/metrics"
	"github.com/katalvlaran/semflu/segment"
	"github.com/katalvlaran/semflu/stats"
)

// Algorithm names.
const (
	Greedy     = "greedy"
	Exhaustive = "exhaustive"
)

var (
	// ErrInvalidOptions is returned for an unknown algorithm or a nil mapping.
	ErrInvalidOptions = errors.New("batch: invalid options")

	// ErrRun wraps the failure of a single run; the message names the run.
	ErrRun = errors.New("batch: run failed")
)

// Record is one fluency run as read from input: the responses in production
// order and their inter-response times. An empty IRT means "unknown" and is
// read as all zeros. Otherwise responses and IRTs are paired position by
// position and whatever is left over on the longer side is dropped.
type Record struct {
	ID        string    `json:"id"`
	Responses []string  `json:"responses"`
	IRT       []float64 `json:"irt"`
}

// Options configures Run.
type Options struct {
	Algorithm         string        // Greedy or Exhaustive
	MaxResponses      int           // responses kept per run; 0 keeps all
	MaxNodes          int           // exhaustive node budget; 0 = unlimited
	TimeLimit         time.Duration // exhaustive time budget per run; 0 = unlimited
	FallbackToGreedy  bool          // use Greedy when the exhaustive budget runs out
	CountUnclassified bool          // see stats.WithUnclassified
	Workers           int           // concurrent runs; < 1 means 1
	Logger            *logger.Logger
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return Options{
		Algorithm:        Exhaustive,
		MaxResponses:     30,
		MaxNodes:         2_000_000,
		TimeLimit:        2 * time.Second,
		FallbackToGreedy: true,
		Workers:          4,
	}
}

// Result is the outcome of one kept run.
type Result struct {
	ID        string
	Algorithm string // algorithm that produced Solution; Greedy after a fallback
	FellBack  bool
	Truncated int // responses cut by MaxResponses
	Unpaired  int // responses or IRTs dropped for lack of a partner
	Solution  *segment.Solution
	Summary   stats.Summary
	Items     []stats.ItemRow
	Elapsed   time.Duration
}

// Report is the outcome of a batch.
type Report struct {
	Algorithm string
	Results   []Result // input order; dropped runs excluded
	Dropped   []string // IDs of runs without responses
	Corpus    stats.Corpus
}

// Run segments every record. Records without responses are dropped and
// listed in Report.Dropped. Results keep input order regardless of Workers.
//
// The first failing run cancels the rest and its error is returned, wrapped
// with ErrRun and the run ID. A budget overrun is a failure only when
// FallbackToGreedy is off.
func Run(ctx context.Context, mapping *category.Mapping, records []Record, opts Options) (*Report, error) {
	// Stage 1 (Validate)
	if mapping == nil {
		return nil, fmt.Errorf("nil mapping: %w", ErrInvalidOptions)
	}
	if opts.Algorithm != Greedy && opts.Algorithm != Exhaustive {
		return nil, fmt.Errorf("algorithm %q: %w", opts.Algorithm, ErrInvalidOptions)
	}
	if opts.MaxNodes < 0 || opts.TimeLimit < 0 || opts.MaxResponses < 0 {
		return nil, fmt.Errorf("negative limit: %w", ErrInvalidOptions)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("batch")
	}

	// Stage 2 (Prepare): drop empty runs
	rep := &Report{Algorithm: opts.Algorithm, Dropped: []string{}}
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(rec.Responses) == 0 {
			rep.Dropped = append(rep.Dropped, rec.ID)
			metrics.ObserveDroppedRun()
			log.Warn().Str("run", rec.ID).Msg("run has no responses, dropped")
			continue
		}
		kept = append(kept, rec)
	}

	// Stage 3 (Execute): bounded fan-out, each worker owns one result slot
	results := make([]Result, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, rec := range kept {
		i, rec := i, rec
		g.Go(func() error {
			res, err := runOne(gctx, mapping, rec, opts)
			if err != nil {
				log.Error().Err(err).Str("run", rec.ID).Msg("segmentation failed")

				return fmt.Errorf("run %q: %w: %w", rec.ID, ErrRun, err)
			}
			results[i] = res
			if res.Unpaired > 0 {
				log.Warn().
					Str("run", rec.ID).
					Int("responses", len(rec.Responses)).
					Int("irt", len(rec.IRT)).
					Msg("responses and IRTs differ in length, extras dropped")
			}
			log.Debug().
				Str("run", rec.ID).
				Str("algorithm", res.Algorithm).
				Int("segments", len(res.Solution.Segments)).
				Dur("elapsed", res.Elapsed).
				Msg("run segmented")

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stage 4 (Finalize)
	rep.Results = results
	summaries := make([]stats.Summary, len(results))
	for i := range results {
		summaries[i] = results[i].Summary
	}
	rep.Corpus = stats.Describe(summaries)
	log.Info().
		Int("runs", len(results)).
		Int("dropped", len(rep.Dropped)).
		Float64("mean_length", rep.Corpus.MeanLength).
		Float64("std_length", rep.Corpus.StdLength).
		Float64("mean_switches", rep.Corpus.MeanSwitches).
		Msg("batch complete")

	return rep, nil
}

// runOne pairs, truncates, normalizes and segments one record.
func runOne(ctx context.Context, mapping *category.Mapping, rec Record, opts Options) (Result, error) {
	res := Result{ID: rec.ID, Algorithm: opts.Algorithm}

	responses, irts := rec.Responses, rec.IRT
	if len(irts) == 0 {
		irts = make([]float64, len(responses))
	}
	if n := min(len(responses), len(irts)); n < max(len(responses), len(irts)) {
		res.Unpaired = max(len(responses), len(irts)) - n
		responses, irts = responses[:n], irts[:n]
	}
	if opts.MaxResponses > 0 && len(responses) > opts.MaxResponses {
		res.Truncated = len(responses) - opts.MaxResponses
		responses, irts = responses[:opts.MaxResponses], irts[:opts.MaxResponses]
	}
	items := category.NormalizeAll(responses)

	m, err := catmatrix.Build(items, mapping)
	if err != nil {
		return res, err
	}

	start := time.Now()
	var sol *segment.Solution
	outcome := metrics.OutcomeSuccess
	switch opts.Algorithm {
	case Greedy:
		sol, err = segment.Greedy(m, items, irts)
	default:
		sol, err = segment.Exhaustive(m, items, irts,
			segment.WithContext(ctx),
			segment.WithMaxNodes(opts.MaxNodes),
			segment.WithTimeLimit(opts.TimeLimit),
		)
		if errors.Is(err, segment.ErrSearchBudgetExceeded) {
			if !opts.FallbackToGreedy {
				metrics.ObserveSegmentation(opts.Algorithm, metrics.OutcomeBudget, 0, time.Since(start))

				return res, err
			}
			res.Algorithm, res.FellBack, outcome = Greedy, true, metrics.OutcomeFallback
			sol, err = segment.Greedy(m, items, irts)
		}
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		metrics.ObserveSegmentation(opts.Algorithm, metrics.OutcomeError, 0, res.Elapsed)

		return res, err
	}
	metrics.ObserveSegmentation(opts.Algorithm, outcome, len(sol.Segments), res.Elapsed)

	res.Solution = sol
	res.Summary = stats.Summarize(rec.ID, sol, stats.WithUnclassified(opts.CountUnclassified))
	res.Items = stats.Items(rec.ID, sol)

	return res, nil
}
