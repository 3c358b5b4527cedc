package category

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads the line-oriented category file format:
//
//	Pets: dog, cat, hamster.
//	Farm: cow, dog, pig.
//
// Each non-blank line is "<category>: <item>, <item>, …". Category and item
// names pass through Normalize, so trailing periods, spacing and letter case
// are irrelevant and "Polar Bear" becomes "polar_bear". A category repeated on
// several lines accumulates the union of its items. Lines beginning with '#'
// are comments.
//
// Errors: ErrMalformedLine (wrapped with the 1-based line number) when the
// ':' separator or the category name is missing; any read error from r.
func Parse(r io.Reader) (*Mapping, error) {
	table := make(map[string][]string)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, ok := strings.Cut(line, ":")
		cat := Normalize(name)
		if !ok || cat == "" {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedLine)
		}

		for _, raw := range strings.Split(rest, ",") {
			item := Normalize(raw)
			if item == "" {
				continue // "a, , b" and the trailing "." leave empties behind
			}
			table[cat] = append(table[cat], item)
		}
		if _, seen := table[cat]; !seen {
			table[cat] = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("category: read: %w", err)
	}

	return New(table)
}

// LoadYAML reads a YAML document mapping category names to item lists:
//
//	pets: [dog, cat, hamster]
//	farm:
//	  - cow
//	  - dog
//
// Names are normalized exactly as in Parse.
func LoadYAML(r io.Reader) (*Mapping, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return New(map[string][]string{})
		}

		return nil, fmt.Errorf("category: decode yaml: %w", err)
	}

	table := make(map[string][]string, len(raw))
	for name, items := range raw {
		cat := Normalize(name)
		if cat == "" {
			return nil, fmt.Errorf("empty category name: %w", ErrInvalidArgument)
		}
		if _, seen := table[cat]; !seen {
			table[cat] = nil
		}
		for _, entry := range items {
			if item := Normalize(entry); item != "" {
				table[cat] = append(table[cat], item)
			}
		}
	}

	return New(table)
}

// WriteYAML writes m in the format accepted by LoadYAML. Keys come out in
// lexicographic order (yaml.v3 sorts map keys).
func (m *Mapping) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m.Table()); err != nil {
		return fmt.Errorf("category: encode yaml: %w", err)
	}

	return enc.Close()
}
