// Package selection models the dashboard's selection state as an explicit
// value: a set of indicators over a fixed universe plus at most one chart.
package selection

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/recommend"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// Universe fixes the index of every selectable indicator
type Universe struct {
	ids   []string
	index map[string]uint
}

// NewUniverse indexes ids in order. Duplicates keep their first position.
func NewUniverse(ids []string) *Universe {
	u := &Universe{index: make(map[string]uint, len(ids))}
	for _, id := range ids {
		if _, ok := u.index[id]; ok {
			continue
		}
		u.index[id] = uint(len(u.ids))
		u.ids = append(u.ids, id)
	}
	return u
}

// FromStore uses the store's indicator order
func FromStore(store *timeseries.Store) *Universe {
	return NewUniverse(store.Indicators())
}

// Len returns the number of indicators in the universe
func (u *Universe) Len() int {
	return len(u.ids)
}

// Split parses a comma-separated id list. Runs of fields that join into a
// known id (some ids contain commas) are matched before single fields.
// Spaces around each entry are ignored.
func (u *Universe) Split(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	var out []string
	for i := 0; i < len(parts); {
		n := 1
		for j := len(parts); j > i+1; j-- {
			if _, ok := u.index[joinFields(parts[i:j])]; ok {
				n = j - i
				break
			}
		}
		if id := joinFields(parts[i : i+n]); id != "" {
			out = append(out, id)
		}
		i += n
	}
	return out
}

// joinFields rebuilds a comma-containing id from split fields
func joinFields(fields []string) string {
	return strings.TrimSpace(strings.Join(fields, ","))
}

// Selection is a set of indicators and an optional chart. The zero chart
// id means no chart has been chosen yet.
type Selection struct {
	universe *Universe
	set      *bitset.BitSet
	chart    string
}

// New returns an empty selection over u
func New(u *Universe) *Selection {
	return &Selection{
		universe: u,
		set:      bitset.New(uint(u.Len())),
	}
}

// Parse builds a selection from request ids
func Parse(u *Universe, ids []string) (*Selection, error) {
	s := New(u)
	for _, id := range ids {
		if err := s.Add(id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add selects id. Adding a selected id is a no-op.
func (s *Selection) Add(id string) error {
	i, ok := s.universe.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", timeseries.ErrUnknownIndicator, id)
	}
	s.set.Set(i)
	return nil
}

// Remove deselects id. Removing an unselected id is a no-op.
func (s *Selection) Remove(id string) {
	if i, ok := s.universe.index[id]; ok {
		s.set.Clear(i)
	}
}

// Contains reports whether id is selected
func (s *Selection) Contains(id string) bool {
	i, ok := s.universe.index[id]
	return ok && s.set.Test(i)
}

// Len returns the number of selected indicators
func (s *Selection) Len() int {
	return int(s.set.Count())
}

// Indicators returns the selected ids in universe order
func (s *Selection) Indicators() []string {
	out := make([]string, 0, s.set.Count())
	for i, ok := s.set.NextSet(0); ok; i, ok = s.set.NextSet(i + 1) {
		out = append(out, s.universe.ids[i])
	}
	return out
}

// Chart returns the chosen chart id, or "" if none
func (s *Selection) Chart() string {
	return s.chart
}

// ChooseChart switches to chart if the current selection size is admitted.
// On rejection the previous chart stays active.
func (s *Selection) ChooseChart(chart catalog.Chart) error {
	if err := recommend.Admit(chart, s.Len()); err != nil {
		return err
	}
	s.chart = chart.ID
	return nil
}

// Recommend classifies every chart for the current selection size
func (s *Selection) Recommend(charts []catalog.Chart) []recommend.Recommendation {
	return recommend.Recommend(charts, s.Len())
}
