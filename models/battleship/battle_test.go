package battleship_test

import (
	"math/rand"
	"testing"

	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

type placement struct {
	kind     mb.ShipKind
	y, x     int
	vertical bool
}

// fleet5x5 fits a whole fleet into the top four rows of a 5x5 board,
// with the patrol boat alone at (0, 0).
var fleet5x5 = []placement{
	{kind: mb.ShipKindPatrol, y: 0, x: 0},
	{kind: mb.ShipKindCruiser, y: 0, x: 1},
	{kind: mb.ShipKindSubmarine, y: 1, x: 0},
	{kind: mb.ShipKindBattleship, y: 2, x: 0},
	{kind: mb.ShipKindCarrier, y: 3, x: 0},
}

func placeFleet(t *testing.T, b *mb.Battle, playerId mb.PlayerId) *mb.Battle {
	t.Helper()
	for _, p := range fleet5x5 {
		res := b.AddShip(p.kind, playerId, p.y, p.x, p.vertical)
		if res.Message != mb.MessageShipPlaced {
			t.Fatalf("placing %s for %s: expected: %s\t got: %s", p.kind, playerId, mb.MessageShipPlaced, res.Message)
		}
		b = res.Battle
	}
	return b
}

func readyBattle(t *testing.T) *mb.Battle {
	t.Helper()
	b := placeFleet(t, mb.NewBattle(5, 5), mb.Player1)
	return placeFleet(t, b, mb.Player2)
}

func TestNewBattle(t *testing.T) {
	b := mb.NewBattle(5, 7)
	if b.Phase() != mb.PhaseSetup {
		t.Fatalf("expected phase: %s\t got: %s", mb.PhaseSetup, b.Phase())
	}
	if b.YDim() != 5 || b.XDim() != 7 {
		t.Fatalf("expected dims: 5x7\t got: %dx%d", b.YDim(), b.XDim())
	}
	if _, ok := b.LastShooter(); ok {
		t.Fatal("a new battle has no last shooter")
	}
	if _, ok := b.Winner(); ok {
		t.Fatal("a new battle has no winner")
	}

	for _, p := range []mb.PlayerId{mb.Player1, mb.Player2} {
		for _, row := range b.BoardOf(p).Rows() {
			if row != "_______" {
				t.Fatalf("expected all water for %s\t got: %s", p, row)
			}
		}
	}
}

func TestAddShip(t *testing.T) {
	empty := mb.NewBattle(5, 5)
	withCruiser := empty.AddShip(mb.ShipKindCruiser, mb.Player1, 0, 0, false).Battle

	tests := []struct {
		name     string
		battle   *mb.Battle
		kind     mb.ShipKind
		player   mb.PlayerId
		y, x     int
		vertical bool
		expected mb.Message
	}{
		{name: "cruiser on empty board", battle: empty, kind: mb.ShipKindCruiser, player: mb.Player1, expected: mb.MessageShipPlaced},
		{name: "carrier fits the top row", battle: empty, kind: mb.ShipKindCarrier, player: mb.Player1, expected: mb.MessageShipPlaced},
		{name: "partially off the board", battle: empty, kind: mb.ShipKindCarrier, player: mb.Player1, y: 1, vertical: true, expected: mb.MessageShipNotAllowedHere},
		{name: "out of bounds", battle: empty, kind: mb.ShipKindPatrol, player: mb.Player1, y: -10, x: -20, expected: mb.MessageShipNotAllowedHere},
		{name: "on top of another ship", battle: withCruiser, kind: mb.ShipKindPatrol, player: mb.Player1, x: 1, expected: mb.MessageShipNotAllowedHere},
		{name: "overlapping the origin", battle: withCruiser, kind: mb.ShipKindPatrol, player: mb.Player1, expected: mb.MessageShipNotAllowedHere},
		{name: "same kind twice", battle: withCruiser, kind: mb.ShipKindCruiser, player: mb.Player1, y: 2, expected: mb.MessageShipAlreadyPlaced},
		{name: "other player's board is separate", battle: withCruiser, kind: mb.ShipKindCruiser, player: mb.Player2, expected: mb.MessageShipPlaced},
		{name: "unknown player", battle: empty, kind: mb.ShipKindPatrol, player: mb.PlayerId(7), expected: mb.MessageUnknownPlayer},
		{name: "invalid kind", battle: empty, kind: mb.ShipKindNone, player: mb.Player1, expected: mb.MessageShipNotAllowedHere},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := test.battle.AddShip(test.kind, test.player, test.y, test.x, test.vertical)
			if res.Message != test.expected {
				t.Fatalf("expected message: %s\t got: %s", test.expected, res.Message)
			}

			if test.expected != mb.MessageShipPlaced && res.Battle != test.battle {
				t.Fatal("a refused placement must return the same snapshot")
			}
			if test.expected == mb.MessageShipPlaced && res.Battle == test.battle {
				t.Fatal("a placement must return a new snapshot")
			}
		})
	}
}

func TestAddShipCells(t *testing.T) {
	res := mb.NewBattle(5, 5).AddShip(mb.ShipKindCruiser, mb.Player1, 0, 0, false)
	board := res.Battle.BoardOf(mb.Player1)

	for _, c := range []mb.Coordinates{{Y: 0, X: 0}, {Y: 0, X: 1}} {
		if cell := board.At(c.Y, c.X); cell != mb.NominalCell(mb.ShipKindCruiser) {
			t.Fatalf("expected cruiser at %v\t got: %s", c, cell)
		}
	}
	if board.At(0, 2) != mb.WaterCell() {
		t.Fatalf("expected water at (0, 2)\t got: %s", board.At(0, 2))
	}
}

func TestAllShipsPlaced(t *testing.T) {
	b := placeFleet(t, mb.NewBattle(5, 5), mb.Player1)
	if b.Phase() != mb.PhaseSetup {
		t.Fatalf("one fleet is not enough, expected phase: %s\t got: %s", mb.PhaseSetup, b.Phase())
	}

	res := b.AddShip(mb.ShipKindPatrol, mb.Player1, 4, 4, false)
	if res.Message != mb.MessageAllShipsPlaced {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageAllShipsPlaced, res.Message)
	}

	b = placeFleet(t, b, mb.Player2)
	if b.Phase() != mb.PhaseSetupComplete {
		t.Fatalf("expected phase: %s\t got: %s", mb.PhaseSetupComplete, b.Phase())
	}
}

func TestCantShootDuringSetup(t *testing.T) {
	tests := []struct {
		name   string
		battle *mb.Battle
	}{
		{name: "no ships", battle: mb.NewBattle(5, 5)},
		{name: "one ship", battle: mb.NewBattle(5, 5).AddShip(mb.ShipKindBattleship, mb.Player1, 1, 0, false).Battle},
		{name: "one player", battle: placeFleet(t, mb.NewBattle(5, 5), mb.Player1)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := test.battle.Shoot(mb.Player1, 0, 0)
			if res.Message != mb.MessageGameNotInPlay {
				t.Fatalf("expected message: %s\t got: %s", mb.MessageGameNotInPlay, res.Message)
			}
			if res.Battle != test.battle || res.Battle.Phase() != mb.PhaseSetup {
				t.Fatal("a refused shot must leave the battle in setup")
			}
		})
	}
}

func TestFirstShotStartsGame(t *testing.T) {
	b := readyBattle(t)
	res := b.Shoot(mb.Player1, 0, 0)
	if res.Battle.Phase() != mb.PhasePlaying {
		t.Fatalf("expected phase: %s\t got: %s", mb.PhasePlaying, res.Battle.Phase())
	}
	if shooter, ok := res.Battle.LastShooter(); !ok || shooter != mb.Player2 {
		t.Fatalf("expected last shooter: %s\t got: %s", mb.Player2, shooter)
	}
}

func TestSinkSingleCellShip(t *testing.T) {
	b := readyBattle(t)

	res := b.Shoot(mb.Player1, 0, 0)
	if res.Message != mb.MessageHit {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageHit, res.Message)
	}
	if kind, ok := res.Sunk(); !ok || kind != mb.ShipKindPatrol {
		t.Fatalf("expected sunk: %s\t got: %s", mb.ShipKindPatrol, kind)
	}
	if cell := res.Battle.BoardOf(mb.Player1).At(0, 0); cell != mb.SunkCell(mb.ShipKindPatrol) {
		t.Fatalf("expected sunk patrol at (0, 0)\t got: %s", cell)
	}

	// the opponent fires in between, then the same spot again
	res = res.Battle.Shoot(mb.Player2, 4, 4)
	before := res.Battle.BoardOf(mb.Player1)
	res = res.Battle.Shoot(mb.Player1, 0, 0)
	if res.Message != mb.MessageHitSameSpot {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageHitSameSpot, res.Message)
	}
	if _, ok := res.Sunk(); ok {
		t.Fatal("a ship is reported sunk only once")
	}
	if changed := mb.Diff(before, res.Battle.BoardOf(mb.Player1)); len(changed) != 0 {
		t.Fatalf("expected unchanged board\t got changes at: %v", changed)
	}
}

func TestSinkSinksEverySection(t *testing.T) {
	b := readyBattle(t)

	// cruiser on Player1's board sits at (0, 1) and (0, 2)
	res := b.Shoot(mb.Player1, 0, 1)
	if _, ok := res.Sunk(); ok {
		t.Fatal("cruiser must not sink after one hit")
	}
	if cell := res.Battle.BoardOf(mb.Player1).At(0, 1); cell != mb.DamagedCell(mb.ShipKindCruiser) {
		t.Fatalf("expected damaged cruiser\t got: %s", cell)
	}

	res = res.Battle.Shoot(mb.Player2, 4, 4)
	res = res.Battle.Shoot(mb.Player1, 0, 2)
	if kind, ok := res.Sunk(); !ok || kind != mb.ShipKindCruiser {
		t.Fatalf("expected sunk: %s\t got: %s", mb.ShipKindCruiser, kind)
	}

	board := res.Battle.BoardOf(mb.Player1)
	for _, c := range board.ShipCoordinates(mb.ShipKindCruiser) {
		if board.At(c.Y, c.X) != mb.SunkCell(mb.ShipKindCruiser) {
			t.Fatalf("expected sunk section at %v\t got: %s", c, board.At(c.Y, c.X))
		}
	}
	if rows := board.Rows(); rows[0] != "Pcc__" {
		t.Fatalf("expected first row: %s\t got: %s", "Pcc__", rows[0])
	}
}

func TestTakingTurns(t *testing.T) {
	b := readyBattle(t)

	res := b.Shoot(mb.Player1, 0, 0)
	again := res.Battle.Shoot(mb.Player1, 1, 1)
	if again.Message != mb.MessageNotThisPlayersTurn {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageNotThisPlayersTurn, again.Message)
	}
	if again.Battle != res.Battle {
		t.Fatal("a refused shot must return the same snapshot")
	}

	res = res.Battle.Shoot(mb.Player2, 0, 0)
	if res.Message != mb.MessageHit {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageHit, res.Message)
	}
	if res = res.Battle.Shoot(mb.Player1, 1, 1); res.Message != mb.MessageHit {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageHit, res.Message)
	}
}

func TestRepeatedShotsAreIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		y, x     int
		first    mb.Message
		repeated mb.Message
	}{
		{name: "miss", y: 4, x: 4, first: mb.MessageMiss, repeated: mb.MessageMissSameSpot},
		{name: "hit", y: 3, x: 2, first: mb.MessageHit, repeated: mb.MessageHitSameSpot},
		{name: "sunk", y: 0, x: 0, first: mb.MessageHit, repeated: mb.MessageHitSameSpot},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := readyBattle(t).Shoot(mb.Player2, test.y, test.x)
			if res.Message != test.first {
				t.Fatalf("expected message: %s\t got: %s", test.first, res.Message)
			}

			board := res.Battle.BoardOf(mb.Player2)
			for i := 0; i < 3; i++ {
				res = res.Battle.Shoot(mb.Player1, i, 4)
				res = res.Battle.Shoot(mb.Player2, test.y, test.x)
				if res.Message != test.repeated {
					t.Fatalf("attempt %d expected message: %s\t got: %s", i+2, test.repeated, res.Message)
				}
				if changed := mb.Diff(board, res.Battle.BoardOf(mb.Player2)); len(changed) != 0 {
					t.Fatalf("attempt %d changed cells: %v", i+2, changed)
				}
			}
		})
	}
}

func TestShotOutOfBounds(t *testing.T) {
	b := readyBattle(t)

	for _, c := range []mb.Coordinates{{Y: -1, X: 0}, {Y: 0, X: 5}, {Y: 5, X: 5}, {Y: 100, X: -100}} {
		res := b.Shoot(mb.Player2, c.Y, c.X)
		if res.Message != mb.MessageShotOutOfBounds {
			t.Fatalf("shot at %v expected message: %s\t got: %s", c, mb.MessageShotOutOfBounds, res.Message)
		}
		if res.Battle != b {
			t.Fatalf("shot at %v must not change the battle", c)
		}
	}

	// an out-of-bounds shot does not use up the turn
	res := b.Shoot(mb.Player2, 0, 0)
	res = res.Battle.Shoot(mb.Player1, 9, 9)
	if res.Message != mb.MessageShotOutOfBounds {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageShotOutOfBounds, res.Message)
	}
	if res = res.Battle.Shoot(mb.Player2, 4, 4); res.Message != mb.MessageNotThisPlayersTurn {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageNotThisPlayersTurn, res.Message)
	}
	if res = res.Battle.Shoot(mb.Player1, 4, 4); res.Message != mb.MessageMiss {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageMiss, res.Message)
	}
}

func TestPlayer1Win(t *testing.T) {
	b := readyBattle(t)
	res := mb.OperationResult{Battle: b}
	sunk := map[mb.ShipKind]int{}

shootLoop:
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			res = res.Battle.Shoot(mb.Player2, y, x)
			if kind, ok := res.Sunk(); ok {
				sunk[kind]++
			}
			if res.Battle.Phase() == mb.PhaseGameOver {
				break shootLoop
			}
			res = res.Battle.Shoot(mb.Player1, y, x)
		}
	}

	if res.Battle.Phase() != mb.PhaseGameOver {
		t.Fatalf("expected phase: %s\t got: %s", mb.PhaseGameOver, res.Battle.Phase())
	}
	if winner, ok := res.Battle.Winner(); !ok || winner != mb.Player1 {
		t.Fatalf("expected winner: %s\t got: %s", mb.Player1, winner)
	}
	if res.Battle.BoardOf(mb.Player2).DistinctNominalKinds() != 0 {
		t.Fatal("the loser has no nominal ships left")
	}
	for _, kind := range mb.AllShipKinds() {
		if sunk[kind] != 1 {
			t.Fatalf("expected %s to be reported sunk once\t got: %d", kind, sunk[kind])
		}
	}

	// nothing moves after the game is over
	after := res.Battle.Shoot(mb.Player1, 4, 4)
	if after.Message != mb.MessageGameNotInPlay || after.Battle.Phase() != mb.PhaseGameOver {
		t.Fatalf("expected message: %s\t got: %s", mb.MessageGameNotInPlay, after.Message)
	}
}

func TestSnapshotsAreNotModified(t *testing.T) {
	b := readyBattle(t)
	rowsBefore := b.BoardOf(mb.Player1).Rows()

	res := b.Shoot(mb.Player1, 0, 0)
	_ = res.Battle.Shoot(mb.Player2, 4, 4)

	if b.Phase() != mb.PhaseSetupComplete {
		t.Fatalf("old snapshot phase changed to: %s", b.Phase())
	}
	if _, ok := b.LastShooter(); ok {
		t.Fatal("old snapshot gained a last shooter")
	}
	rowsAfter := b.BoardOf(mb.Player1).Rows()
	for i := range rowsBefore {
		if rowsBefore[i] != rowsAfter[i] {
			t.Fatalf("old snapshot row %d changed: %s -> %s", i, rowsBefore[i], rowsAfter[i])
		}
	}
}

func TestPhaseNeverRegresses(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := mb.NewBattle(7, 7)
		last := b.Phase()

		for i := 0; i < 400; i++ {
			var res mb.OperationResult
			player := mb.PlayerId(rng.Intn(2))
			switch rng.Intn(4) {
			case 0:
				kinds := mb.AllShipKinds()
				res = b.AddShip(kinds[rng.Intn(len(kinds))], player, rng.Intn(9)-1, rng.Intn(9)-1, rng.Intn(2) == 0)
			case 1:
				res = b.RandomBoard(player, rng)
			default:
				res = b.Shoot(player, rng.Intn(9)-1, rng.Intn(9)-1)
			}

			if res.Battle.Phase() < last {
				t.Fatalf("seed %d op %d: phase went from %s to %s", seed, i, last, res.Battle.Phase())
			}
			if _, ok := res.Battle.Winner(); ok != (res.Battle.Phase() == mb.PhaseGameOver) {
				t.Fatalf("seed %d op %d: winner known in phase %s", seed, i, res.Battle.Phase())
			}
			last = res.Battle.Phase()
			b = res.Battle
		}
	}
}
