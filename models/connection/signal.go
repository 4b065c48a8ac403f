package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodePlaceShip
	CodeRandomBoard
	CodeUndo

	// Sent once the player's fleet is complete and
	// the first shot may be fired
	CodeReady

	CodeAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Start over against a new computer fleet
	CodeRematch

	// Ask for both boards as they are now
	CodeBoard
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
