package battleship

import "math/rand"

// Randomizer is the source of randomness for fleet generation and the
// random opponent. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRandomizer struct{}

func (globalRandomizer) Intn(n int) int                     { return rand.Intn(n) }
func (globalRandomizer) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

func randomizerOrDefault(rng Randomizer) Randomizer {
	if rng == nil {
		return globalRandomizer{}
	}
	return rng
}

// RandomBoard places the given kinds (all of them, longest first, when
// none are given) at random positions on the player's board, searching
// with backtracking. Kinds already on the board are kept where they are.
// If no arrangement fits, the result is MessageShipNotAllowedHere with
// the battle unchanged.
func (b *Battle) RandomBoard(playerId PlayerId, rng Randomizer, kinds ...ShipKind) OperationResult {
	if !playerId.IsValid() {
		return b.result(MessageUnknownPlayer)
	}
	if len(kinds) == 0 {
		kinds = AllShipKinds()
	}
	return b.randomBoard(playerId, randomizerOrDefault(rng), kinds)
}

func (b *Battle) randomBoard(playerId PlayerId, rng Randomizer, kinds []ShipKind) OperationResult {
	if len(kinds) == 0 {
		return b.result(MessageAllShipsPlaced)
	}

	kind, rest := kinds[0], kinds[1:]
	board := b.store.board(playerId)
	if board.HasShip(kind) {
		return b.randomBoard(playerId, rng, rest)
	}

	// The orientation is drawn once for this ship. Only when none of its
	// positions lead to a full fleet is the other orientation tried.
	vertical := rng.Intn(2) == 0
	for _, v := range []bool{vertical, !vertical} {
		candidates := board.placementCandidates(kind, v)
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, origin := range candidates {
			placed := b.AddShip(kind, playerId, origin.Y, origin.X, v)
			if placed.Message != MessageShipPlaced {
				continue
			}

			if res := placed.Battle.randomBoard(playerId, rng, rest); res.Message == MessageAllShipsPlaced {
				return res
			}
		}
	}

	return b.result(MessageShipNotAllowedHere)
}
