package battleship

import (
	"sync"
	"time"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const (
	GameDifficultyEasy uint8 = iota
	GameDifficultyNormal
	GameDifficultyHard
)

const (
	GridSizeEasy   int = 6
	GridSizeNormal int = 8
	GridSizeHard   int = 10
)

// The person at the table always plays Player1; the computer answers
// every shot as Player2.
const (
	HumanPlayer    = Player1
	ComputerPlayer = Player2
)

// Game is a single-player session against a random opponent. It keeps
// every snapshot of the battle so that placements can be undone, and it
// serialises all updates to the current snapshot.
type Game struct {
	uuid       string
	difficulty uint8
	gridSize   int
	createdAt  time.Time
	rng        Randomizer

	mu         sync.Mutex
	enemyStart *Battle
	history    []*Battle
	opponent   *RandomOpponent
}

// AttackResult is what happened on both boards after the player fired.
// Computer is nil when the computer did not fire back.
type AttackResult struct {
	Player          OperationResult
	Computer        *OperationResult
	ComputerShot    Coordinates
	EnemyChanged    []Coordinates
	PlayerChanged   []Coordinates
	GameOverMessage string
}

func gridSizeFor(difficulty uint8) (int, bool) {
	switch difficulty {
	case GameDifficultyEasy:
		return GridSizeEasy, true
	case GameDifficultyNormal:
		return GridSizeNormal, true
	case GameDifficultyHard:
		return GridSizeHard, true
	default:
		return 0, false
	}
}

// NewGame creates a game whose computer fleet is already deployed.
func NewGame(gameUuid string, difficulty uint8, rng Randomizer) (*Game, error) {
	gsize, ok := gridSizeFor(difficulty)
	if !ok {
		return nil, cerr.ErrInvalidGameDifficulty(difficulty)
	}

	g := &Game{
		uuid:       gameUuid,
		difficulty: difficulty,
		gridSize:   gsize,
		createdAt:  time.Now(),
		rng:        randomizerOrDefault(rng),
	}
	if err := g.deployEnemy(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) deployEnemy() error {
	res := NewBattle(g.gridSize, g.gridSize).RandomBoard(ComputerPlayer, g.rng)
	if res.Message != MessageAllShipsPlaced {
		return cerr.ErrFleetPlacementFailed(g.gridSize)
	}

	g.enemyStart = res.Battle
	g.history = []*Battle{res.Battle}
	g.opponent = NewRandomOpponent(g.gridSize, g.gridSize, g.rng)
	return nil
}

func (g *Game) Uuid() string         { return g.uuid }
func (g *Game) Difficulty() uint8    { return g.difficulty }
func (g *Game) GridSize() int        { return g.gridSize }
func (g *Game) CreatedAt() time.Time { return g.createdAt }

// Snapshot returns the current battle.
func (g *Game) Snapshot() *Battle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current()
}

// History returns every snapshot from the enemy deployment up to now.
func (g *Game) History() []*Battle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Battle(nil), g.history...)
}

func (g *Game) IsFinished() bool {
	return g.Snapshot().Phase() == PhaseGameOver
}

func (g *Game) current() *Battle {
	return g.history[len(g.history)-1]
}

// push records res's snapshot if the operation produced a new one.
func (g *Game) push(res OperationResult) {
	if res.Battle != g.current() {
		g.history = append(g.history, res.Battle)
	}
}

func (g *Game) started() bool {
	return g.current().Phase() >= PhasePlaying
}

// PlaceShip adds one of the player's ships.
func (g *Game) PlaceShip(kind ShipKind, y, x int, vertical bool) OperationResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	res := g.current().AddShip(kind, HumanPlayer, y, x, vertical)
	g.push(res)
	return res
}

// RandomizeShips throws away the player's placements and deals a whole
// new fleet. It is refused once the first shot has been fired.
func (g *Game) RandomizeShips() (OperationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started() {
		return g.current().result(MessageAllShipsPlaced), cerr.ErrGameAlreadyStarted(g.uuid)
	}

	res := g.enemyStart.RandomBoard(HumanPlayer, g.rng)
	if res.Message == MessageAllShipsPlaced {
		g.history = []*Battle{g.enemyStart, res.Battle}
	}
	return res, nil
}

// Undo steps back to the snapshot before the last placement.
func (g *Game) Undo() (*Battle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started() {
		return g.current(), cerr.ErrGameAlreadyStarted(g.uuid)
	}
	if len(g.history) < 2 {
		return g.current(), cerr.ErrNothingToUndo(g.uuid)
	}

	g.history = g.history[:len(g.history)-1]
	return g.current(), nil
}

// Attack fires the player's shot at the computer's board. If the shot
// was taken and the game goes on, the computer fires back straight away.
func (g *Game) Attack(y, x int) AttackResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	before := g.current()
	res := before.Shoot(ComputerPlayer, y, x)
	g.push(res)

	out := AttackResult{
		Player:       res,
		EnemyChanged: Diff(before.BoardOf(ComputerPlayer), res.Battle.BoardOf(ComputerPlayer)),
	}

	if res.Message.IsShotResolved() && res.Battle.Phase() != PhaseGameOver {
		if target, ok := g.opponent.NextShot(); ok {
			cres := res.Battle.Shoot(HumanPlayer, target.Y, target.X)
			g.push(cres)
			out.Computer = &cres
			out.ComputerShot = target
			out.PlayerChanged = Diff(res.Battle.BoardOf(HumanPlayer), cres.Battle.BoardOf(HumanPlayer))
		}
	}

	out.GameOverMessage, _ = gameOverMessage(g.current())
	return out
}

// Restart deploys a new computer fleet and forgets everything else.
func (g *Game) Restart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deployEnemy()
}

// GameOverMessage is the line shown to the player when the game ends.
func (g *Game) GameOverMessage() (string, bool) {
	return gameOverMessage(g.Snapshot())
}

func gameOverMessage(b *Battle) (string, bool) {
	winner, ok := b.Winner()
	switch {
	case !ok:
		return "", false
	case winner == HumanPlayer:
		return "Game Over and You Won! Play again?", true
	default:
		return "Sorry you have been beaten! Do you want to try one more time?", true
	}
}
