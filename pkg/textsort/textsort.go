// Package textsort orders display names with locale-aware collation, so
// "Álvaro" sorts next to "Alice" instead of after "Zé".
package textsort

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter collates strings for one locale. A collator carries scratch
// buffers, so each Sort call builds its own and Sorter is safe to share.
type Sorter struct {
	tag language.Tag
}

// New parses a BCP 47 locale; unknown locales fall back to Brazilian Portuguese.
func New(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Sorter{tag: tag}
}

func (s *Sorter) collator() *collate.Collator {
	return collate.New(s.tag, collate.IgnoreCase)
}

// Compare collates a against b.
func (s *Sorter) Compare(a, b string) int {
	return s.collator().CompareString(a, b)
}

// Sort orders x in place by name, breaking ties by id so equal names have a
// stable, reproducible order.
func (s *Sorter) Sort(x any, name func(i int) string, id func(i int) string) {
	c := s.collator()
	sort.SliceStable(x, func(i, j int) bool {
		if r := c.CompareString(name(i), name(j)); r != 0 {
			return r < 0
		}
		return id(i) < id(j)
	})
}

// Strings sorts a plain string slice.
func (s *Sorter) Strings(x []string) {
	c := s.collator()
	sort.SliceStable(x, func(i, j int) bool { return c.CompareString(x[i], x[j]) < 0 })
}
