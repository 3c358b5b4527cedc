package segment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/semflu/catmatrix"
)

// Sentinel errors returned by the segmenters.
var (
	// ErrInvalidArgument wraps catmatrix.ErrInvalidArgument so callers can
	// match either sentinel. Returned for a nil matrix, mismatched lengths,
	// bad latencies, or an empty category table.
	ErrInvalidArgument = fmt.Errorf("segment: invalid argument: %w", catmatrix.ErrInvalidArgument)

	// ErrLengthMismatch indicates that items, timings and matrix columns do
	// not share one index space.
	ErrLengthMismatch = fmt.Errorf("segment: sequence, timing and matrix lengths differ: %w", ErrInvalidArgument)

	// ErrBadTiming indicates a negative, NaN or infinite latency.
	ErrBadTiming = fmt.Errorf("segment: latency must be finite and non-negative: %w", ErrInvalidArgument)

	// ErrSearchBudgetExceeded indicates that the exhaustive search hit its
	// node or time budget. The caller may fall back to Greedy or retry with
	// a larger budget.
	ErrSearchBudgetExceeded = errors.New("segment: search budget exceeded")

	// ErrUnsolvable indicates that the exhaustive search found no complete
	// cover. It is reported instead of an empty Solution, which would be
	// indistinguishable from a zero-length sequence.
	ErrUnsolvable = errors.New("segment: no complete cover found")
)

// Unclassified is the category index of a segment holding a single item that
// belongs to no category.
const Unclassified = -1

// ScoreScale is the multiplier that folds Score into a single number:
// Combined = Unused·ScoreScale + Covered.
const ScoreScale = 1_000_000

// Segment is one contiguous cluster of a Solution.
type Segment struct {
	Category int       // category index in the matrix label order, or Unclassified
	Label    string    // category name; "" when Unclassified
	Row      int       // matrix row the segment was cut from; -1 when Unclassified
	Start    int       // first covered position (inclusive)
	End      int       // last covered position (inclusive)
	Items    []string  // items[Start..End]
	Timings  []float64 // timings[Start..End]
}

// Len returns the number of positions in the segment.
func (s Segment) Len() int { return s.End - s.Start + 1 }

// Classified reports whether the segment carries a category.
func (s Segment) Classified() bool { return s.Category != Unclassified }

// Score ranks complete covers in the exhaustive search. Higher is better,
// compared lexicographically: Unused first, Covered second.
type Score struct {
	// Unused counts rows of the unfolded matrix that the cover leaves empty.
	// Maximizing it minimizes the number of category segments (switches).
	Unused int

	// Covered counts matrix cells inside the chosen runs, whole runs
	// included, so covers that let ambiguous items sit in more than one
	// chosen run score higher.
	Covered int
}

// Better reports whether s strictly beats o.
func (s Score) Better(o Score) bool {
	if s.Unused != o.Unused {
		return s.Unused > o.Unused
	}

	return s.Covered > o.Covered
}

// Combined folds the score into a single number, Unused·ScoreScale + Covered.
// It orders like Better as long as Covered < ScoreScale.
func (s Score) Combined() int64 {
	return int64(s.Unused)*ScoreScale + int64(s.Covered)
}

// Solution is an ordered partition of [0, N) into segments. A Solution is
// never modified after it is returned.
type Solution struct {
	// Segments in start-position order; disjoint; union is [0, N).
	Segments []Segment

	// Score of the cover. Set by Exhaustive and Enumerate only; Greedy
	// leaves it zero.
	Score Score

	// Explored counts cursor steps (Greedy) or search nodes (Exhaustive).
	Explored int
}

// Len returns the number of positions covered.
func (s *Solution) Len() int {
	if s == nil || len(s.Segments) == 0 {
		return 0
	}

	return s.Segments[len(s.Segments)-1].End + 1
}

// Switches returns the number of transitions between consecutive segments.
func (s *Solution) Switches() int {
	if s == nil || len(s.Segments) == 0 {
		return 0
	}

	return len(s.Segments) - 1
}

// Boundaries returns the inclusive [start, end] pair of every segment.
func (s *Solution) Boundaries() [][2]int {
	if s == nil {
		return nil
	}
	out := make([][2]int, len(s.Segments))
	for i, seg := range s.Segments {
		out[i] = [2]int{seg.Start, seg.End}
	}

	return out
}

// Option configures a segmentation call.
type Option func(*Options)

// Options holds the effective configuration of a segmentation call.
type Options struct {
	// Ctx cancels an exhaustive search; defaults to context.Background().
	Ctx context.Context

	// MaxNodes caps the number of exhaustive search nodes; 0 means no cap.
	MaxNodes int

	// TimeLimit caps exhaustive search wall time; 0 means no limit.
	TimeLimit time.Duration

	// OnCommit, if non-nil, is invoked by Greedy after each committed
	// segment with the cursor the segment started from. Returning an error
	// aborts segmentation with that error.
	OnCommit func(cursor int, seg Segment) error
}

// DefaultOptions returns Options with a background context, no budgets and
// no hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		MaxNodes:  0,
		TimeLimit: 0,
		OnCommit:  nil,
	}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxNodes caps the exhaustive search at n nodes (0 disables the cap).
// Panics on a negative n.
func WithMaxNodes(n int) Option {
	if n < 0 {
		panic("segment: WithMaxNodes: n must be non-negative")
	}

	return func(o *Options) {
		o.MaxNodes = n
	}
}

// WithTimeLimit caps exhaustive search wall time (0 disables the limit).
// Panics on a negative duration.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic("segment: WithTimeLimit: duration must be non-negative")
	}

	return func(o *Options) {
		o.TimeLimit = d
	}
}

// WithOnCommit installs a hook observing every Greedy step.
func WithOnCommit(fn func(cursor int, seg Segment) error) Option {
	return func(o *Options) {
		o.OnCommit = fn
	}
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
