package segment

// Cluster is a Segment annotated for statistics.
type Cluster struct {
	Index    int // 1-based cluster number within the sequence
	Category int
	Label    string
	Start    int
	End      int
	Items    []ClusterItem
}

// ClusterItem is one item of a Cluster with its positional annotations.
type ClusterItem struct {
	Item     string
	Timing   float64
	Index    int  // 0-based position in the sequence
	Position int  // 1-based position inside the cluster
	FromEnd  int  // 1-based distance from the cluster end; 1 for the last item
	Last     bool // last item of its cluster
	Counter  int  // 1-based running counter over the whole sequence
}

// Len returns the number of items in the cluster.
func (c Cluster) Len() int { return len(c.Items) }

// Classified reports whether the cluster carries a category.
func (c Cluster) Classified() bool { return c.Category != Unclassified }

// Clusters annotates every segment of sol, in order. The result shares no
// memory with sol. A nil or empty Solution yields an empty slice.
//
// Complexity: O(N).
func Clusters(sol *Solution) []Cluster {
	if sol == nil {
		return []Cluster{}
	}

	out := make([]Cluster, len(sol.Segments))
	counter := 0
	for ci, seg := range sol.Segments {
		size := seg.Len()
		cl := Cluster{
			Index:    ci + 1,
			Category: seg.Category,
			Label:    seg.Label,
			Start:    seg.Start,
			End:      seg.End,
			Items:    make([]ClusterItem, size),
		}
		for k := 0; k < size; k++ {
			counter++
			cl.Items[k] = ClusterItem{
				Item:     seg.Items[k],
				Timing:   seg.Timings[k],
				Index:    seg.Start + k,
				Position: k + 1,
				FromEnd:  size - k,
				Last:     k == size-1,
				Counter:  counter,
			}
		}
		out[ci] = cl
	}

	return out
}
