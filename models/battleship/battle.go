package battleship

import (
	"fmt"
	"strings"
)

const DefaultGridSize = 10

// Battle is one point in time of a game. It is never modified once
// returned; every accepted operation produces a new Battle and leaves
// the previous one intact, so callers can keep them as history.
type Battle struct {
	store       boardStore
	phase       Phase
	lastShooter PlayerId
	hasShooter  bool
}

// NewBattle creates a battle in the setup phase with two all-water boards.
func NewBattle(yDim, xDim int) *Battle {
	return &Battle{
		store: newBoardStore(yDim, xDim),
		phase: PhaseSetup,
	}
}

func (b *Battle) Phase() Phase { return b.phase }
func (b *Battle) YDim() int    { return b.store.board(Player1).YDim() }
func (b *Battle) XDim() int    { return b.store.board(Player1).XDim() }

// BoardOf returns a read-only view of a player's board.
func (b *Battle) BoardOf(playerId PlayerId) Board {
	return b.store.board(playerId)
}

// LastShooter is the player who fired the most recent accepted shot.
func (b *Battle) LastShooter() (PlayerId, bool) {
	return b.lastShooter, b.hasShooter
}

// Winner is only known once the game is over.
func (b *Battle) Winner() (PlayerId, bool) {
	if b.phase != PhaseGameOver {
		return Player1, false
	}
	return b.lastShooter, true
}

// next builds the successor snapshot after playerId's board changed.
// The phase advances as far as the new state allows, never backwards.
func (b *Battle) next(playerId PlayerId, board Board, firedBy *PlayerId, didLose bool) *Battle {
	nb := &Battle{
		store:       b.store.withBoard(playerId, board),
		phase:       b.phase,
		lastShooter: b.lastShooter,
		hasShooter:  b.hasShooter,
	}

	if firedBy != nil {
		nb.lastShooter = *firedBy
		nb.hasShooter = true
	}

	if nb.phase == PhaseSetup && nb.store.setupComplete() {
		nb.phase = PhaseSetupComplete
	}
	if nb.phase == PhaseSetupComplete && firedBy != nil {
		nb.phase = PhasePlaying
	}
	if nb.phase == PhasePlaying && didLose {
		nb.phase = PhaseGameOver
	}
	return nb
}

func (b *Battle) result(msg Message) OperationResult {
	return OperationResult{Message: msg, Battle: b}
}

// AddShip places kind on the player's board with its first section at
// (y, x). A player can place each kind once and nothing more once the
// whole fleet is down.
func (b *Battle) AddShip(kind ShipKind, playerId PlayerId, y, x int, vertical bool) OperationResult {
	if !playerId.IsValid() {
		return b.result(MessageUnknownPlayer)
	}

	board := b.store.board(playerId)
	if board.SetupState() == PhaseSetupComplete {
		return b.result(MessageAllShipsPlaced)
	}
	if board.HasShip(kind) {
		return b.result(MessageShipAlreadyPlaced)
	}

	coords, ok := board.TryPlacement(kind, NewCoordinates(y, x), vertical)
	if !ok {
		return b.result(MessageShipNotAllowedHere)
	}

	nb := b.next(playerId, board.with(NominalCell(kind), coords...), nil, false)
	return nb.result(MessageShipPlaced)
}

// Shoot fires at (y, x) on the target's board. The shot comes from the
// target's opponent, who must not have fired the previous shot as well.
// The first shot of the game can come from either side.
func (b *Battle) Shoot(targetPlayerId PlayerId, y, x int) OperationResult {
	if !targetPlayerId.IsValid() {
		return b.result(MessageUnknownPlayer)
	}
	firingPlayerId := targetPlayerId.Opponent()

	if !b.phase.InPlay() {
		return b.result(MessageGameNotInPlay)
	}
	if b.hasShooter && b.lastShooter == firingPlayerId {
		return b.result(MessageNotThisPlayersTurn)
	}

	board := b.store.board(targetPlayerId)
	if !board.InBounds(y, x) {
		return b.result(MessageShotOutOfBounds)
	}

	var (
		msg      Message
		sunk     ShipKind
		didLose  bool
		target   = NewCoordinates(y, x)
		newBoard = board
	)

	switch cell := board.At(y, x); cell.State {
	case CellShipNominal:
		msg = MessageHit
		newBoard = board.with(DamagedCell(cell.Kind), target)
		if !newBoard.HasNominalShip(cell.Kind) {
			newBoard = newBoard.sinkShip(cell.Kind)
			sunk = cell.Kind
			didLose = newBoard.DistinctNominalKinds() == 0
		}

	case CellShipDamaged, CellShipSunk:
		msg = MessageHitSameSpot

	case CellWater:
		msg = MessageMiss
		newBoard = board.with(MissCell(), target)

	case CellMiss:
		msg = MessageMissSameSpot
	}

	res := b.next(targetPlayerId, newBoard, &firingPlayerId, didLose).result(msg)
	res.SunkShip = sunk
	return res
}

// String prints the phase and both boards; handy when debugging tests.
func (b *Battle) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Battle State %s\n", b.phase)
	for _, p := range []PlayerId{Player1, Player2} {
		fmt.Fprintf(&sb, "\n%s\n%s", p, b.BoardOf(p))
	}
	return sb.String()
}
