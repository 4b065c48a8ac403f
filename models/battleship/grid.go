package battleship

import (
	"strconv"
	"strings"
)

type CellState uint8

const (
	CellWater CellState = iota
	CellMiss
	CellShipNominal
	CellShipDamaged
	CellShipSunk
)

// Cell is the content of one grid position. Kind is only set for
// the three ship states.
type Cell struct {
	State CellState
	Kind  ShipKind
}

func WaterCell() Cell                { return Cell{State: CellWater} }
func MissCell() Cell                 { return Cell{State: CellMiss} }
func NominalCell(kind ShipKind) Cell { return Cell{State: CellShipNominal, Kind: kind} }
func DamagedCell(kind ShipKind) Cell { return Cell{State: CellShipDamaged, Kind: kind} }
func SunkCell(kind ShipKind) Cell    { return Cell{State: CellShipSunk, Kind: kind} }

// IsShip reports whether any ship section sits in the cell, whatever its damage.
func (c Cell) IsShip() bool {
	switch c.State {
	case CellShipNominal, CellShipDamaged, CellShipSunk:
		return true
	default:
		return false
	}
}

// IsNominal reports an undamaged ship section.
func (c Cell) IsNominal() bool {
	return c.State == CellShipNominal
}

// Code is the single character a presentation layer draws for the cell.
func (c Cell) Code() string {
	switch c.State {
	case CellWater:
		return "_"
	case CellMiss:
		return "~"
	case CellShipNominal:
		return c.Kind.Letter()
	case CellShipDamaged:
		return "X"
	case CellShipSunk:
		return strings.ToLower(c.Kind.Letter())
	default:
		return "?"
	}
}

func (c Cell) String() string {
	return c.Code()
}

// Equal compares cells the way a display sees them: two cells are
// equal when they render the same code.
func (c Cell) Equal(other Cell) bool {
	return c.Code() == other.Code()
}

type Coordinates struct {
	Y int `json:"y"`
	X int `json:"x"`
}

func NewCoordinates(y, x int) Coordinates {
	return Coordinates{Y: y, X: x}
}

// Board is one player's yDim x xDim grid. A Board handed out by a
// Battle is never written to again; every change goes through with,
// which copies the cells first.
type Board struct {
	yDim  int
	xDim  int
	cells []Cell
}

// NewBoard creates an all-water board. Negative dimensions are treated as zero.
func NewBoard(yDim, xDim int) Board {
	yDim, xDim = max(yDim, 0), max(xDim, 0)
	if yDim == 0 || xDim == 0 {
		return Board{}
	}
	return Board{
		yDim:  yDim,
		xDim:  xDim,
		cells: make([]Cell, yDim*xDim),
	}
}

func (b Board) YDim() int { return b.yDim }
func (b Board) XDim() int { return b.xDim }

func (b Board) InBounds(y, x int) bool {
	return y >= 0 && y < b.yDim && x >= 0 && x < b.xDim
}

// At returns the cell at (y, x). Out-of-bounds positions read as water.
func (b Board) At(y, x int) Cell {
	if !b.InBounds(y, x) {
		return WaterCell()
	}
	return b.cells[y*b.xDim+x]
}

// Coordinates lists every position of the board in row-major order.
func (b Board) Coordinates() []Coordinates {
	coords := make([]Coordinates, 0, len(b.cells))
	for y := 0; y < b.yDim; y++ {
		for x := 0; x < b.xDim; x++ {
			coords = append(coords, NewCoordinates(y, x))
		}
	}
	return coords
}

// Rows renders each row as a string of cell codes.
func (b Board) Rows() []string {
	rows := make([]string, b.yDim)
	for y := 0; y < b.yDim; y++ {
		var sb strings.Builder
		for x := 0; x < b.xDim; x++ {
			sb.WriteString(b.At(y, x).Code())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String prints the board with 1-based row and column labels.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 1; x <= b.xDim; x++ {
		sb.WriteString(" " + strconv.Itoa(x%10))
	}
	sb.WriteByte('\n')

	for y, row := range b.Rows() {
		label := strconv.Itoa(y + 1)
		sb.WriteString(label + strings.Repeat(" ", 3-min(len(label), 3)))
		for _, c := range row {
			sb.WriteString(" " + string(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// with returns a copy of the board with the given cells replaced.
func (b Board) with(cell Cell, coords ...Coordinates) Board {
	nb := b.clone()
	for _, c := range coords {
		nb.cells[c.Y*nb.xDim+c.X] = cell
	}
	return nb
}

func (b Board) clone() Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return Board{yDim: b.yDim, xDim: b.xDim, cells: cells}
}

// Diff lists, in row-major order, every coordinate whose cell differs
// between two boards. Boards of different dimensions differ everywhere
// on the new board.
func Diff(oldBoard, newBoard Board) []Coordinates {
	if oldBoard.yDim != newBoard.yDim || oldBoard.xDim != newBoard.xDim {
		return newBoard.Coordinates()
	}

	changed := make([]Coordinates, 0)
	for i := range newBoard.cells {
		if !oldBoard.cells[i].Equal(newBoard.cells[i]) {
			changed = append(changed, NewCoordinates(i/newBoard.xDim, i%newBoard.xDim))
		}
	}
	return changed
}
