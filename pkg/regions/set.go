package regions

import (
	"errors"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// ErrIndexOutOfRange is returned for region indices outside the set.
var ErrIndexOutOfRange = errors.New("regions: index out of range")

// Set is an ordered collection of regions. Insertion order is z-order:
// the last region added is topmost and wins overlapping picks.
type Set struct {
	regions []*Region
}

// NewSet returns an empty region set.
func NewSet() *Set {
	return &Set{}
}

// Len returns the number of regions.
func (s *Set) Len() int {
	return len(s.regions)
}

// Add appends a region and returns its index.
func (s *Set) Add(r *Region) int {
	s.regions = append(s.regions, r)
	return len(s.regions) - 1
}

// Get returns the region at index.
func (s *Set) Get(index int) (*Region, error) {
	if index < 0 || index >= len(s.regions) {
		return nil, ErrIndexOutOfRange
	}
	return s.regions[index], nil
}

// All returns the regions in z-order. The slice is a copy; the regions
// are shared.
func (s *Set) All() []*Region {
	return append([]*Region(nil), s.regions...)
}

// Remove deletes the region at index and returns it.
func (s *Set) Remove(index int) (*Region, error) {
	if index < 0 || index >= len(s.regions) {
		return nil, ErrIndexOutOfRange
	}
	r := s.regions[index]
	s.regions = append(s.regions[:index], s.regions[index+1:]...)
	return r, nil
}

// Clear removes all regions.
func (s *Set) Clear() {
	s.regions = nil
}

// PickAt returns the index of the topmost region hit at an image-space
// point, scanning from the top of the z-order down.
func (s *Set) PickAt(pt geometry.Point2D, tol float64) (int, bool) {
	for i := len(s.regions) - 1; i >= 0; i-- {
		if s.regions[i].Contains(pt, tol) {
			return i, true
		}
	}
	return -1, false
}

// SelectAt selects the topmost region at a point, replacing the current
// selection. A miss clears the selection.
func (s *Set) SelectAt(pt geometry.Point2D, tol float64) (int, bool) {
	idx, ok := s.PickAt(pt, tol)
	s.ClearSelection()
	if ok {
		s.regions[idx].Selected = true
	}
	return idx, ok
}

// ToggleAt toggles the selection of the topmost region at a point
// without touching the rest of the selection. Used for additive picks.
func (s *Set) ToggleAt(pt geometry.Point2D, tol float64) (int, bool) {
	idx, ok := s.PickAt(pt, tol)
	if ok {
		s.regions[idx].Selected = !s.regions[idx].Selected
	}
	return idx, ok
}

// Select marks the region at index selected.
func (s *Set) Select(index int) error {
	if index < 0 || index >= len(s.regions) {
		return ErrIndexOutOfRange
	}
	s.regions[index].Selected = true
	return nil
}

// SelectAll selects every region.
func (s *Set) SelectAll() {
	for _, r := range s.regions {
		r.Selected = true
	}
}

// ClearSelection deselects every region.
func (s *Set) ClearSelection() {
	for _, r := range s.regions {
		r.Selected = false
	}
}

// Selected returns the selected regions in z-order.
func (s *Set) Selected() []*Region {
	var out []*Region
	for _, r := range s.regions {
		if r.Selected {
			out = append(out, r)
		}
	}
	return out
}

// SelectedIndices returns the indices of the selected regions in
// ascending order.
func (s *Set) SelectedIndices() []int {
	var out []int
	for i, r := range s.regions {
		if r.Selected {
			out = append(out, i)
		}
	}
	return out
}

// SelectedCount returns the number of selected regions.
func (s *Set) SelectedCount() int {
	n := 0
	for _, r := range s.regions {
		if r.Selected {
			n++
		}
	}
	return n
}

// MoveSelected translates the selected regions by an image-space delta.
func (s *Set) MoveSelected(delta geometry.Point2D) {
	for _, r := range s.regions {
		if r.Selected {
			r.Move(delta)
		}
	}
}

// DeleteSelected removes the selected regions and returns how many were
// deleted.
func (s *Set) DeleteSelected() int {
	kept := s.regions[:0]
	deleted := 0
	for _, r := range s.regions {
		if r.Selected {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.regions); i++ {
		s.regions[i] = nil
	}
	s.regions = kept
	return deleted
}

// FindByTag returns the indices of regions carrying the given tag.
func (s *Set) FindByTag(tag string) []int {
	var out []int
	for i, r := range s.regions {
		if r.HasTag(tag) {
			out = append(out, i)
		}
	}
	return out
}

// FindByColor returns the indices of regions with the given color.
func (s *Set) FindByColor(color string) []int {
	var out []int
	for i, r := range s.regions {
		if r.Color == color {
			out = append(out, i)
		}
	}
	return out
}
