package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/semflu/batch"
	"github.com/katalvlaran/semflu/category"
)

// csvHeader names the per-item columns.
var csvHeader = []string{
	"sid", "entry", "irt", "patch", "patch_item", "from_end", "last", "counter", "mean_irt", "category",
}

// readCategories loads a category file, choosing the format by extension.
func readCategories(path string) (*category.Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open categories: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return category.LoadYAML(f)
	default:
		return category.Parse(f)
	}
}

// readRecords decodes a stream of JSON run objects (one per line by
// convention; any whitespace separation works).
func readRecords(path string) ([]batch.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses: %w", err)
	}
	defer f.Close()

	return decodeRecords(f)
}

func decodeRecords(r io.Reader) ([]batch.Record, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var out []batch.Record
	for {
		var rec batch.Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode run %d: %w", len(out)+1, err)
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(len(out) + 1)
		}
		out = append(out, rec)
	}
}

// writeCSV writes one row per response of every kept run.
func writeCSV(w io.Writer, rep *batch.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	row := make([]string, len(csvHeader))
	for _, res := range rep.Results {
		for _, it := range res.Items {
			last := "0"
			if it.Last {
				last = "1"
			}
			row[0] = it.RunID
			row[1] = it.Entry
			row[2] = strconv.FormatFloat(it.IRT, 'g', -1, 64)
			row[3] = strconv.Itoa(it.Patch)
			row[4] = strconv.Itoa(it.PatchItem)
			row[5] = strconv.Itoa(it.FromEnd)
			row[6] = last
			row[7] = strconv.Itoa(it.Counter)
			row[8] = strconv.FormatFloat(it.MeanIRT, 'g', -1, 64)
			row[9] = it.Category
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
	}
	cw.Flush()

	return cw.Error()
}
