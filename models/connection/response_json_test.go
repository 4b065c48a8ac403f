package connection_test

import (
	"reflect"
	"testing"

	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

// Both fleets fill the first four rows of a 5x5 board:
//
//	PCC__
//	SSS__
//	BBBB_
//	AAAAA
//	_____
func readyBattle(t *testing.T) *mb.Battle {
	t.Helper()

	b := mb.NewBattle(5, 5)
	for _, p := range []mb.PlayerId{mb.Player1, mb.Player2} {
		for _, s := range []struct {
			kind mb.ShipKind
			y, x int
		}{
			{mb.ShipKindPatrol, 0, 0},
			{mb.ShipKindCruiser, 0, 1},
			{mb.ShipKindSubmarine, 1, 0},
			{mb.ShipKindBattleship, 2, 0},
			{mb.ShipKindCarrier, 3, 0},
		} {
			res := b.AddShip(s.kind, p, s.y, s.x, false)
			if res.Message != mb.MessageShipPlaced && res.Message != mb.MessageAllShipsPlaced {
				t.Fatalf("placing %s for %s\t got: %s", s.kind, p, res.Message)
			}
			b = res.Battle
		}
	}
	return b
}

func TestEnemyRows(t *testing.T) {
	b := readyBattle(t)
	b = b.Shoot(mb.Player2, 0, 1).Battle
	b = b.Shoot(mb.Player1, 4, 4).Battle
	b = b.Shoot(mb.Player2, 4, 0).Battle

	board := b.BoardOf(mb.Player2)
	if rows := board.Rows(); rows[0] != "PXC__" || rows[4] != "~____" {
		t.Fatalf("unexpected board: %v", rows)
	}

	expected := []string{"_X___", "_____", "_____", "_____", "~____"}
	if rows := mc.EnemyRows(board); !reflect.DeepEqual(rows, expected) {
		t.Fatalf("expected rows: %v\t got: %v", expected, rows)
	}
}

func TestNewRespBoards(t *testing.T) {
	b := readyBattle(t)
	boards := mc.NewRespBoards(b)

	if boards.Phase != mb.PhaseSetupComplete {
		t.Fatalf("expected phase: %s\t got: %s", mb.PhaseSetupComplete, boards.Phase)
	}
	if boards.PlayerBoard[3] != "AAAAA" {
		t.Fatalf("the player sees their own fleet\t got: %s", boards.PlayerBoard[3])
	}
	if boards.EnemyBoard[3] != "_____" {
		t.Fatalf("the enemy fleet must stay hidden\t got: %s", boards.EnemyBoard[3])
	}
}

func TestNewRespShot(t *testing.T) {
	res := readyBattle(t).Shoot(mb.Player2, 0, 0)

	shot := mc.NewRespShot(0, 0, res, []mb.Coordinates{{Y: 0, X: 0}})
	if shot.Result != mb.MessageHit {
		t.Fatalf("expected result: %s\t got: %s", mb.MessageHit, shot.Result)
	}
	if shot.SunkShip != mb.ShipKindPatrol.String() {
		t.Fatalf("expected sunk ship: %s\t got: %s", mb.ShipKindPatrol, shot.SunkShip)
	}

	miss := mc.NewRespShot(4, 4, res.Battle.Shoot(mb.Player1, 4, 4), nil)
	if miss.Result != mb.MessageMiss || miss.SunkShip != "" {
		t.Fatalf("expected a plain miss\t got: %s %s", miss.Result, miss.SunkShip)
	}
}
