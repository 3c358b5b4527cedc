// Package stats turns segmentation results into the per-item and per-run
// numbers used in semantic-fluency analysis.
//
//   - Items     — one row per response: patch number, position in patch,
//     distance from the patch end, last-item flag, running counter, mean IRT.
//   - Summarize — per-run switches, cluster count and size, IRT split into
//     switch (first item of a later patch) and within-patch latencies.
//   - Describe  — corpus-level mean/std/min/max of run lengths.
//
// Unclassified singletons (items without category) are always listed by
// Items; whether they count as clusters in Summarize is an explicit choice,
// WithUnclassified, off by default.
package stats
