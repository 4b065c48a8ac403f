package api

import (
	"context"
	"testing"

	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

// rematchCounter only answers the rematch counter; any other query
// panics on the nil embedded Querier.
type rematchCounter struct {
	sqlc.Querier
	rematches int
}

func (q *rematchCounter) IncrementRematchCalledCount(ctx context.Context, serverIp pqtype.Inet) error {
	q.rematches++
	return nil
}

func TestRematchIsCountedOnlyOnSuccess(t *testing.T) {
	bgm := mb.NewSeededBattleshipGameManager(7)
	game, err := bgm.CreateGame(mb.GameDifficultyEasy)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name              string
		game              *mb.Game
		expectError       bool
		expectedRematches int
	}{
		{
			name:              "restart deploys a new fleet",
			game:              game,
			expectedRematches: 1,
		},
		{
			// a game without a grid can never deploy a fleet
			name:              "restart fails",
			game:              &mb.Game{},
			expectError:       true,
			expectedRematches: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			q := &rematchCounter{}
			rp := NewRequestProcessor(mc.NewBattleshipSessionManager(), bgm, q)

			resp := rp.rematch(test.game)
			if resp.Code != mc.CodeRematch {
				t.Fatalf("expected code: %d\t got: %d", mc.CodeRematch, resp.Code)
			}
			if (resp.Error != nil) != test.expectError {
				t.Fatalf("expected error: %t\t got: %+v", test.expectError, resp.Error)
			}
			if q.rematches != test.expectedRematches {
				t.Fatalf("expected rematches: %d\t got: %d", test.expectedRematches, q.rematches)
			}
		})
	}
}
