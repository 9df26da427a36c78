// Package sorting orders collected entries by name, time or size.
package sorting

import (
	"cmp"
	"strings"

	"github.com/hsaliak/lsgo/internal/config"
	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/pkg/models"
)

// Comparator is a total order over entries for one sort mode
type Comparator struct {
	sort    config.SortBy
	field   config.TimeField
	reverse bool
}

// NewComparator creates a comparator from resolved options
func NewComparator(cfg *config.Options) *Comparator {
	return &Comparator{
		sort:    cfg.Sort,
		field:   cfg.TimeField,
		reverse: cfg.Reverse,
	}
}

// keyed pairs an entry with its case-folded name so folding happens once per
// entry instead of once per comparison
type keyed struct {
	entry  *models.Entry
	folded string
}

// Compare orders a before b (negative), after b (positive) or equal (zero)
func (c *Comparator) Compare(a, b *models.Entry) int {
	return c.compare(
		keyed{entry: a, folded: strings.ToLower(a.Name)},
		keyed{entry: b, folded: strings.ToLower(b.Name)},
	)
}

// compare applies the primary key, then the case-insensitive name, then the
// raw name. Reverse flips the whole composite, tie-breaks included.
func (c *Comparator) compare(a, b keyed) int {
	var r int
	switch c.sort {
	case config.SortTime:
		// newest first
		r = c.field.Pick(&b.entry.Metadata).Compare(c.field.Pick(&a.entry.Metadata))
	case config.SortSize:
		// largest first
		r = cmp.Compare(b.entry.Metadata.Size, a.entry.Metadata.Size)
	}
	if r == 0 {
		r = strings.Compare(a.folded, b.folded)
	}
	if r == 0 {
		r = strings.Compare(a.entry.Name, b.entry.Name)
	}
	if c.reverse {
		r = -r
	}
	return r
}

// Sort orders entries in place. Unsorted mode leaves collection order intact.
func (c *Comparator) Sort(s parallel.Strategy, entries []models.Entry) {
	if c.sort == config.SortUnsorted || len(entries) < 2 {
		return
	}

	keys := make([]keyed, len(entries))
	for i := range entries {
		keys[i] = keyed{entry: &entries[i], folded: strings.ToLower(entries[i].Name)}
	}

	parallel.SortStable(s, keys, c.compare)

	sorted := make([]models.Entry, len(keys))
	for i, k := range keys {
		sorted[i] = *k.entry
	}
	copy(entries, sorted)
}
