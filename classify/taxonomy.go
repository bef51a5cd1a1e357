// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Class is one row of the class map.
type Class struct {
	Index int
	MID   string
	Name  string
}

// Taxonomy is the ordered list of classes a model scores.
type Taxonomy struct {
	classes []Class
}

// NewTaxonomy builds a taxonomy from display names, indexed in order.
func NewTaxonomy(names ...string) *Taxonomy {
	t := &Taxonomy{classes: make([]Class, len(names))}
	for i, name := range names {
		t.classes[i] = Class{Index: i, Name: name}
	}

	return t
}

// LoadTaxonomy reads a class map file, see ParseTaxonomy.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class map: %w", err)
	}
	defer f.Close()

	return ParseTaxonomy(f)
}

// ParseTaxonomy reads CSV rows of index,mid,display_name. A header row is
// skipped and rows must be numbered 0..n-1 in order.
func ParseTaxonomy(r io.Reader) (*Taxonomy, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	t := &Taxonomy{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}

		idx, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%w: line %d: index %q", ErrMalformedRow, line, rec[0])
		}
		if idx != len(t.classes) {
			return nil, fmt.Errorf("%w: line %d: index %d out of order", ErrMalformedRow, line, idx)
		}

		t.classes = append(t.classes, Class{Index: idx, MID: rec[1], Name: rec[2]})
	}

	if len(t.classes) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	return t, nil
}

func (t *Taxonomy) Len() int { return len(t.classes) }

// Name returns the display name of class i.
func (t *Taxonomy) Name(i int) string { return t.classes[i].Name }

func (t *Taxonomy) Class(i int) Class { return t.classes[i] }
