package cart

import "sort"

// Selection holds the modifiers picked for one product configuration, keyed by
// group id. It enforces single/multiple rules while editing; required and
// minimum rules are only checked by CanAddToCart.
type Selection struct {
	groups []ModifierGroup
	picked map[uint][]uint
	units  map[uint]int
}

func NewSelection(groups []ModifierGroup) *Selection {
	return &Selection{
		groups: groups,
		picked: make(map[uint][]uint),
		units:  make(map[uint]int),
	}
}

func (s *Selection) group(id uint) (ModifierGroup, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return ModifierGroup{}, false
}

// Select picks modifierID in groupID. A single group replaces its previous
// pick. A multiple group appends, and refuses when max_select would be
// exceeded. Unknown or inactive modifiers are refused. The return value
// reports whether the selection changed.
func (s *Selection) Select(groupID, modifierID uint) bool {
	g, ok := s.group(groupID)
	if !ok {
		return false
	}
	m, ok := g.modifier(modifierID)
	if !ok || !m.Active {
		return false
	}

	if g.IsSingle() {
		for _, prev := range s.picked[groupID] {
			delete(s.units, prev)
		}
		s.picked[groupID] = []uint{modifierID}
		return true
	}

	current := s.picked[groupID]
	for _, id := range current {
		if id == modifierID {
			return true
		}
	}
	if g.MaxSelect > 0 && len(current) >= g.MaxSelect {
		return false
	}
	s.picked[groupID] = append(current, modifierID)
	return true
}

// Deselect removes modifierID from groupID. No lower bound applies here.
func (s *Selection) Deselect(groupID, modifierID uint) {
	current := s.picked[groupID]
	for i, id := range current {
		if id == modifierID {
			s.picked[groupID] = append(current[:i:i], current[i+1:]...)
			delete(s.units, modifierID)
			break
		}
	}
	if len(s.picked[groupID]) == 0 {
		delete(s.picked, groupID)
	}
}

// SetUnits sets how many portions of an already selected modifier are taken.
// The POS terminal uses this for add-ons sold by the portion; values below one
// are stored as one.
func (s *Selection) SetUnits(groupID, modifierID uint, n int) bool {
	for _, id := range s.picked[groupID] {
		if id == modifierID {
			if n < 1 {
				n = 1
			}
			s.units[modifierID] = n
			return true
		}
	}
	return false
}

func (s *Selection) Count(groupID uint) int {
	return len(s.picked[groupID])
}

// Picked returns a copy of the modifier ids chosen in groupID.
func (s *Selection) Picked(groupID uint) []uint {
	return append([]uint(nil), s.picked[groupID]...)
}

// RequiredMinimum is the number of picks a required group needs before the
// configuration can be committed on the given surface.
func RequiredMinimum(g ModifierGroup, surface Surface) int {
	if !g.IsRequired {
		return 0
	}
	if surface == SurfacePOS && !g.IsSingle() && g.MinSelect > 1 {
		return g.MinSelect
	}
	return 1
}

// CanAddToCart reports whether every required group meets its minimum.
func (s *Selection) CanAddToCart(surface Surface) bool {
	return len(s.Unmet(surface)) == 0
}

// Unmet lists the required groups that are still short of their minimum, in
// display order.
func (s *Selection) Unmet(surface Surface) []ModifierGroup {
	var out []ModifierGroup
	for _, g := range s.groups {
		if s.Count(g.ID) < RequiredMinimum(g, surface) {
			out = append(out, g)
		}
	}
	return out
}

// Resolve flattens the selection into snapshots, ordered by group display
// order and then by modifier position.
func (s *Selection) Resolve() []SelectedModifier {
	var out []SelectedModifier
	for _, g := range s.groups {
		ids := s.picked[g.ID]
		if len(ids) == 0 {
			continue
		}
		mods := make([]Modifier, 0, len(ids))
		for _, id := range ids {
			if m, ok := g.modifier(id); ok {
				mods = append(mods, m)
			}
		}
		sort.SliceStable(mods, func(i, j int) bool { return mods[i].Position < mods[j].Position })
		for _, m := range mods {
			qty := s.units[m.ID]
			if qty < 1 {
				qty = 1
			}
			out = append(out, SelectedModifier{
				ID:         m.ID,
				GroupID:    g.ID,
				Name:       m.Name,
				PriceDelta: m.PriceDelta,
				Qty:        qty,
			})
		}
	}
	return out
}
