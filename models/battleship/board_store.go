package battleship

// DistinctPlacedKinds counts the ship kinds with at least one section
// on the board, whatever their damage.
func (b Board) DistinctPlacedKinds() int {
	return b.countKinds(Cell.IsShip)
}

// DistinctNominalKinds counts the ship kinds that still have an
// undamaged section. Zero means the owner of the board has lost.
func (b Board) DistinctNominalKinds() int {
	return b.countKinds(Cell.IsNominal)
}

// SetupState is PhaseSetupComplete once every kind has been placed.
func (b Board) SetupState() Phase {
	if b.DistinctPlacedKinds() == NumberOfShipKinds {
		return PhaseSetupComplete
	}
	return PhaseSetup
}

// HasShip reports whether any section of kind is on the board.
func (b Board) HasShip(kind ShipKind) bool {
	for _, c := range b.cells {
		if c.IsShip() && c.Kind == kind {
			return true
		}
	}
	return false
}

// HasNominalShip reports whether kind still has an undamaged section.
func (b Board) HasNominalShip(kind ShipKind) bool {
	for _, c := range b.cells {
		if c.IsNominal() && c.Kind == kind {
			return true
		}
	}
	return false
}

// ShipCoordinates lists the positions of every section of kind.
func (b Board) ShipCoordinates(kind ShipKind) []Coordinates {
	coords := make([]Coordinates, 0, kind.Length())
	for i, c := range b.cells {
		if c.IsShip() && c.Kind == kind {
			coords = append(coords, NewCoordinates(i/b.xDim, i%b.xDim))
		}
	}
	return coords
}

func (b Board) countKinds(match func(Cell) bool) int {
	var seen [NumberOfShipKinds + 1]bool
	count := 0
	for _, c := range b.cells {
		if !match(c) || !c.Kind.IsValid() || seen[c.Kind] {
			continue
		}
		seen[c.Kind] = true
		count++
	}
	return count
}

// sinkShip turns every section of kind into a sunk section.
func (b Board) sinkShip(kind ShipKind) Board {
	return b.with(SunkCell(kind), b.ShipCoordinates(kind)...)
}

// boardStore holds both players' boards. Replacing one board leaves
// the other shared with the previous store.
type boardStore struct {
	boards [2]Board
}

func newBoardStore(yDim, xDim int) boardStore {
	return boardStore{boards: [2]Board{NewBoard(yDim, xDim), NewBoard(yDim, xDim)}}
}

func (bs boardStore) board(playerId PlayerId) Board {
	if !playerId.IsValid() {
		return Board{}
	}
	return bs.boards[playerId]
}

func (bs boardStore) withBoard(playerId PlayerId, board Board) boardStore {
	bs.boards[playerId] = board
	return bs
}

// setupComplete is true when both fleets are fully placed.
func (bs boardStore) setupComplete() bool {
	return bs.board(Player1).SetupState() == PhaseSetupComplete &&
		bs.board(Player2).SetupState() == PhaseSetupComplete
}
