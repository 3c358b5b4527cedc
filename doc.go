// Package semflu segments semantic-fluency responses into category
// clusters: "dog, cat, hamster, cow, pig" becomes pets | farm.
//
// 🚀 What is semflu?
//
//	A small, deterministic library plus a batch command:
//		• Categories: item ↔ category tables, text and YAML loaders
//		• Matrices: categorization matrix, run bounds, unfolding
//		• Segmenters: greedy (longest run) and exhaustive (fewest switches)
//		• Statistics: per-item patch annotations, per-run and corpus summaries
//		• Batch: bounded-parallel processing with budgeted search and
//		  greedy fallback, SQLite persistence, Prometheus metrics
//
// ✨ Why semflu?
//
//   - Deterministic – identical input gives identical clusters
//   - Bounded – exhaustive search takes node, time and context budgets
//   - Explicit – unclassified responses are kept, counting them is opt-in
//
// Packages:
//
//	category/  — Mapping, Parse, LoadYAML, Normalize
//	catmatrix/ — Matrix, Build, Bounds, Unfold
//	segment/   — Greedy, Exhaustive, Enumerate, Clusters
//	stats/     — Items, Summarize, Describe
//	batch/     — Run over many records
//	store/     — SQLite result store
//	cmd/semflu — command-line front end
//
// Quick ASCII example:
//
//	          cow dog cat pig
//	    farm [ 1   1   0   1 ]
//	    pets [ 0   1   1   0 ]
//
//	greedy: farm[cow dog] pets[cat] farm[pig]
//
//	go install github.com/katalvlaran/semflu/cmd/semflu@latest
package semflu
