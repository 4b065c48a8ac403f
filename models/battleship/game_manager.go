package battleship

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

type GameManager interface {
	CreateGame(difficulty uint8) (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	Count() int

	isDifficultyValid(uint8) bool
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex

	// seeded managers give every game its own source, since games are
	// played from different goroutines.
	seeded bool
	seed   int64
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
	}
}

// NewSeededBattleshipGameManager makes fleets and computer shots
// reproducible; the nth game created uses seed+n.
func NewSeededBattleshipGameManager(seed int64) *BattleshipGameManager {
	bgm := NewBattleshipGameManager()
	bgm.seeded = true
	bgm.seed = seed
	return bgm
}

func (bgm *BattleshipGameManager) CreateGame(difficulty uint8) (*Game, error) {
	if !bgm.isDifficultyValid(difficulty) {
		return nil, cerr.ErrInvalidGameDifficulty(difficulty)
	}

	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	var rng Randomizer
	if bgm.seeded {
		rng = rand.New(rand.NewSource(bgm.seed))
		bgm.seed++
	}

	gameUuid := uuid.NewString()[:6]
	game, err := NewGame(gameUuid, difficulty, rng)
	if err != nil {
		return nil, err
	}

	bgm.games[gameUuid] = game
	return game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}

func (bgm *BattleshipGameManager) isDifficultyValid(difficulty uint8) bool {
	_, ok := gridSizeFor(difficulty)
	return ok
}
