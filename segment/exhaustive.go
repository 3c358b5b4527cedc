package segment

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/semflu/catmatrix"
)

// Exhaustive enumerates every cover of the unfolded matrix by a depth-first
// search and returns the best-scoring one.
//
// The matrix is unfolded first (catmatrix.Unfold), so a category that
// recurs in separate runs offers each run as an independent row. From column
// i the search branches, in ascending row order, on every row with a 1 at
// i: the branch covers [i, upper] of that row's run and recurses at upper+1.
// A column no row covers (an item without category) is covered alone, with
// no row, and the search continues. Reaching column N completes a cover.
//
// Covers are scored by Score and compared with Score.Better; the first cover
// with the maximal score in enumeration order wins. No branch is pruned, so
// the worst case is exponential in the number of ambiguous items; bound it
// with WithMaxNodes, WithTimeLimit or WithContext.
//
// Errors:
//   - ErrInvalidArgument family for bad input.
//   - ErrSearchBudgetExceeded when a node or time budget runs out.
//   - ctx.Err() when the context is cancelled.
//   - ErrUnsolvable if no complete cover exists.
func Exhaustive(m *catmatrix.Matrix, items []string, timings []float64, opts ...Option) (*Solution, error) {
	var best *cover
	e, err := newEngine(m, items, timings, opts, func(leaf *cover, score Score) {
		if best == nil || score.Better(best.score) {
			leaf.score = score
			best = leaf
		}
	})
	if err != nil {
		return nil, err
	}
	if e.n == 0 {
		return &Solution{Segments: make([]Segment, 0)}, nil
	}

	if err = e.run(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, ErrUnsolvable
	}

	return e.materialize(best), nil
}

// Candidate is one complete cover found by Enumerate.
type Candidate struct {
	Solution *Solution
	Score    Score
}

// Enumerate returns every complete cover in enumeration order together with
// its score. The best cover is the first Candidate whose Score no later one
// beats; Exhaustive returns exactly that cover. Budgets and errors are as
// for Exhaustive.
//
// Enumerate materializes all covers and is meant for inspection and tests on
// short sequences.
func Enumerate(m *catmatrix.Matrix, items []string, timings []float64, opts ...Option) ([]Candidate, error) {
	var leaves []*cover
	e, err := newEngine(m, items, timings, opts, func(leaf *cover, score Score) {
		leaf.score = score
		leaves = append(leaves, leaf)
	})
	if err != nil {
		return nil, err
	}
	if e.n == 0 {
		return []Candidate{{Solution: &Solution{Segments: make([]Segment, 0)}}}, nil
	}

	if err = e.run(); err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, ErrUnsolvable
	}

	out := make([]Candidate, len(leaves))
	for i, leaf := range leaves {
		out[i] = Candidate{Solution: e.materialize(leaf), Score: leaf.score}
	}

	return out, nil
}

// cover is a node of a persistent singly linked list of committed segments.
// Sibling branches share their common prefix; extending a cover never
// touches its parent.
type cover struct {
	parent *cover
	row    int // unfolded row, or -1 for a column with no category
	start  int
	end    int
	depth  int   // segments from the root, this one included
	rows   int   // segments carrying a row
	cells  int   // covered cells, whole runs included
	score  Score // set on leaves only
}

// extend returns a child cover; p may be nil (the empty cover).
func (p *cover) extend(row, start, end, cells int) *cover {
	c := &cover{parent: p, row: row, start: start, end: end, depth: 1, cells: cells}
	if row >= 0 {
		c.rows = 1
	}
	if p != nil {
		c.depth += p.depth
		c.rows += p.rows
		c.cells += p.cells
	}

	return c
}

// engine holds the search state of one Exhaustive or Enumerate call.
type engine struct {
	u       *catmatrix.Matrix // unfolded matrix
	items   []string
	timings []float64
	n       int

	// Budget
	ctx         context.Context
	maxNodes    int
	useDeadline bool
	deadline    time.Time
	nodes       int

	emit func(leaf *cover, score Score)
}

// newEngine validates input, unfolds m and prepares the budget.
func newEngine(m *catmatrix.Matrix, items []string, timings []float64, opts []Option, emit func(*cover, Score)) (*engine, error) {
	n, err := validateInputs(m, items, timings)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)

	e := &engine{items: items, timings: timings, n: n, ctx: o.Ctx, maxNodes: o.MaxNodes, emit: emit}
	if n == 0 {
		return e, nil
	}
	if e.u, err = catmatrix.Unfold(m); err != nil {
		return nil, fmt.Errorf("segment: unfold: %w", err)
	}
	if o.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(o.TimeLimit)
	}

	return e, nil
}

// run starts the search at column 0 after an upfront cancellation check.
func (e *engine) run() error {
	if err := e.ctx.Err(); err != nil {
		return err
	}

	return e.search(0, nil)
}

// tick accounts one search node. The node budget is exact; deadline and
// context are polled every 1024 nodes.
func (e *engine) tick() error {
	e.nodes++
	if e.maxNodes > 0 && e.nodes > e.maxNodes {
		return fmt.Errorf("%d nodes: %w", e.maxNodes, ErrSearchBudgetExceeded)
	}
	if e.nodes&1023 != 0 {
		return nil
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		return fmt.Errorf("time limit: %w", ErrSearchBudgetExceeded)
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	default:
		return nil
	}
}

// search extends partial, which covers [0, i), in every possible way.
func (e *engine) search(i int, partial *cover) error {
	if err := e.tick(); err != nil {
		return err
	}

	if i == e.n {
		e.emit(partial, Score{
			Unused:  e.u.Rows() - partial.rows,
			Covered: partial.cells,
		})

		return nil
	}

	var (
		r     int
		set   bool
		run   catmatrix.Run
		found bool
		err   error
	)
	for r = 0; r < e.u.Rows(); r++ {
		if set, _ = e.u.At(r, i); !set {
			continue
		}
		found = true
		run, _ = e.u.Bounds(r, i)
		if err = e.search(run.Upper+1, partial.extend(r, i, run.Upper, run.Len())); err != nil {
			return err
		}
	}

	// empty column: the item has no category
	if !found {
		return e.search(i+1, partial.extend(-1, i, i, 0))
	}

	return nil
}

// materialize walks a leaf back to the root and cuts the segments.
func (e *engine) materialize(leaf *cover) *Solution {
	sol := &Solution{
		Segments: make([]Segment, leaf.depth),
		Score:    leaf.score,
		Explored: e.nodes,
	}
	for c := leaf; c != nil; c = c.parent {
		sol.Segments[c.depth-1] = cut(e.u, c.row, c.start, c.end, e.items, e.timings)
	}

	return sol
}
