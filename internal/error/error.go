package error

import "fmt"

const (
	ConstErrAttackFailed    = "attack operation failed"
	ConstErrPlacementFailed = "ship placement failed"
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrNoActiveGame(sessionId string) error {
	return fmt.Errorf("session has no active game, session id: %s", sessionId)
}

func ErrInvalidGameDifficulty(difficulty uint8) error {
	return fmt.Errorf("invalid game difficulty: %d", difficulty)
}

func ErrFleetPlacementFailed(gridSize int) error {
	return fmt.Errorf("could not place a random fleet on a %dx%d grid", gridSize, gridSize)
}

func ErrGameAlreadyStarted(gameUuid string) error {
	return fmt.Errorf("game has already started, fleet can no longer change, uuid: %s", gameUuid)
}

func ErrNothingToUndo(gameUuid string) error {
	return fmt.Errorf("there is no placement to undo, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrInvalidShipKind(ship string) error {
	return fmt.Errorf("invalid ship kind: %q", ship)
}

func ErrInvalidPayload(err error) error {
	return fmt.Errorf("the payload could not be decoded: %w", err)
}
