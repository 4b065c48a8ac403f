package battleship

// TryPlacement returns the coordinates a ship of kind would occupy when
// laid from origin along +x, or +y when vertical. It fails if any of
// them is off the board or not open water. Ships may touch.
func (b Board) TryPlacement(kind ShipKind, origin Coordinates, vertical bool) ([]Coordinates, bool) {
	if !kind.IsValid() {
		return nil, false
	}

	coords := make([]Coordinates, kind.Length())
	for i := range coords {
		c := origin
		if vertical {
			c.Y += i
		} else {
			c.X += i
		}

		if !b.InBounds(c.Y, c.X) || b.At(c.Y, c.X).State != CellWater {
			return nil, false
		}
		coords[i] = c
	}
	return coords, true
}

// placementCandidates lists, in row-major order, every origin at which
// kind fits with the given orientation.
func (b Board) placementCandidates(kind ShipKind, vertical bool) []Coordinates {
	candidates := make([]Coordinates, 0)
	for _, origin := range b.Coordinates() {
		if _, ok := b.TryPlacement(kind, origin, vertical); ok {
			candidates = append(candidates, origin)
		}
	}
	return candidates
}
