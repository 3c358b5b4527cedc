package stats

import (
	"math"

	"github.com/katalvlaran/semflu/segment"
)

// ItemRow is one response of one run, annotated with its cluster position.
type ItemRow struct {
	RunID     string  `json:"sid"`
	Entry     string  `json:"entry"`
	IRT       float64 `json:"irt"`
	Patch     int     `json:"patch"`      // 1-based cluster number
	PatchItem int     `json:"patch_item"` // 1-based position in the cluster
	FromEnd   int     `json:"from_end"`   // 1 for the last item of the cluster
	Last      bool    `json:"last"`
	Counter   int     `json:"counter"`  // 1-based position in the run
	MeanIRT   float64 `json:"mean_irt"` // mean IRT over the whole run
	Category  string  `json:"category"` // "" for an unclassified item
}

// Items flattens sol into one row per response, in sequence order. A nil or
// empty Solution yields no rows.
func Items(runID string, sol *segment.Solution) []ItemRow {
	clusters := segment.Clusters(sol)

	var (
		rows []ItemRow
		sum  float64
	)
	for _, c := range clusters {
		for _, it := range c.Items {
			sum += it.Timing
			rows = append(rows, ItemRow{
				RunID:     runID,
				Entry:     it.Item,
				IRT:       it.Timing,
				Patch:     c.Index,
				PatchItem: it.Position,
				FromEnd:   it.FromEnd,
				Last:      it.Last,
				Counter:   it.Counter,
				Category:  c.Label,
			})
		}
	}
	if len(rows) == 0 {
		return []ItemRow{}
	}

	mean := sum / float64(len(rows))
	for i := range rows {
		rows[i].MeanIRT = mean
	}

	return rows
}

// Option configures Summarize.
type Option func(*Options)

// Options holds the Summarize policy.
type Options struct {
	// CountUnclassified makes unclassified singletons count as clusters
	// (and their boundaries as switches).
	CountUnclassified bool
}

// DefaultOptions excludes unclassified singletons from cluster statistics.
func DefaultOptions() Options {
	return Options{CountUnclassified: false}
}

// WithUnclassified sets whether unclassified singletons count as clusters.
func WithUnclassified(count bool) Option {
	return func(o *Options) {
		o.CountUnclassified = count
	}
}

// Summary describes one segmented run.
type Summary struct {
	RunID           string  `json:"sid"`
	Length          int     `json:"length"`
	Clusters        int     `json:"clusters"`
	Switches        int     `json:"switches"`
	Unclassified    int     `json:"unclassified"`
	MeanClusterSize float64 `json:"mean_cluster_size"`
	MaxClusterSize  int     `json:"max_cluster_size"`
	MeanIRT         float64 `json:"mean_irt"`
	MeanSwitchIRT   float64 `json:"mean_switch_irt"` // first items of every counted cluster but the first
	MeanWithinIRT   float64 `json:"mean_within_irt"` // non-first items of counted clusters
}

// Summarize computes the run-level statistics of sol. Means over an empty
// set are 0.
func Summarize(runID string, sol *segment.Solution, opts ...Option) Summary {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	s := Summary{RunID: runID}
	var (
		irt, sw, within acc
		sizes           int
	)
	for _, c := range segment.Clusters(sol) {
		for _, it := range c.Items {
			irt.add(it.Timing)
		}
		s.Length += c.Len()
		if !c.Classified() {
			s.Unclassified++
			if !o.CountUnclassified {
				continue
			}
		}

		s.Clusters++
		sizes += c.Len()
		if c.Len() > s.MaxClusterSize {
			s.MaxClusterSize = c.Len()
		}
		for k, it := range c.Items {
			switch {
			case k > 0:
				within.add(it.Timing)
			case s.Clusters > 1:
				sw.add(it.Timing)
			}
		}
	}

	if s.Clusters > 0 {
		s.Switches = s.Clusters - 1
		s.MeanClusterSize = float64(sizes) / float64(s.Clusters)
	}
	s.MeanIRT = irt.mean()
	s.MeanSwitchIRT = sw.mean()
	s.MeanWithinIRT = within.mean()

	return s
}

// Corpus aggregates the summaries of many runs.
type Corpus struct {
	Runs            int     `json:"runs"`
	MeanLength      float64 `json:"mean_length"`
	StdLength       float64 `json:"std_length"` // population standard deviation
	MinLength       int     `json:"min_length"`
	MaxLength       int     `json:"max_length"`
	MeanSwitches    float64 `json:"mean_switches"`
	MeanClusterSize float64 `json:"mean_cluster_size"`
}

// Describe aggregates run summaries; an empty input yields the zero Corpus.
func Describe(runs []Summary) Corpus {
	if len(runs) == 0 {
		return Corpus{}
	}

	c := Corpus{Runs: len(runs), MinLength: runs[0].Length, MaxLength: runs[0].Length}
	var length, switches, size acc
	for _, r := range runs {
		length.add(float64(r.Length))
		switches.add(float64(r.Switches))
		size.add(r.MeanClusterSize)
		if r.Length < c.MinLength {
			c.MinLength = r.Length
		}
		if r.Length > c.MaxLength {
			c.MaxLength = r.Length
		}
	}
	c.MeanLength = length.mean()
	c.StdLength = length.std()
	c.MeanSwitches = switches.mean()
	c.MeanClusterSize = size.mean()

	return c
}

// acc is a streaming mean/variance accumulator (Welford).
type acc struct {
	n  int
	mu float64
	m2 float64
}

func (a *acc) add(x float64) {
	a.n++
	d := x - a.mu
	a.mu += d / float64(a.n)
	a.m2 += d * (x - a.mu)
}

func (a *acc) mean() float64 {
	if a.n == 0 {
		return 0
	}

	return a.mu
}

func (a *acc) std() float64 {
	if a.n == 0 {
		return 0
	}

	return math.Sqrt(a.m2 / float64(a.n))
}
