package battleship

import "fmt"

// Message tells the caller what an operation on a Battle did, or why
// it was refused.
type Message uint8

const (
	// placement
	MessageShipPlaced Message = iota
	MessageAllShipsPlaced
	MessageShipAlreadyPlaced
	MessageShipNotAllowedHere

	// sequencing
	MessageGameNotInPlay
	MessageNotThisPlayersTurn
	MessageUnknownPlayer

	// shots
	MessageHit
	MessageMiss
	MessageHitSameSpot
	MessageMissSameSpot
	MessageShotOutOfBounds
)

func (m Message) String() string {
	switch m {
	case MessageShipPlaced:
		return "ShipPlaced"
	case MessageAllShipsPlaced:
		return "AllShipsPlaced"
	case MessageShipAlreadyPlaced:
		return "ShipAlreadyPlaced"
	case MessageShipNotAllowedHere:
		return "ShipNotAllowedHere"
	case MessageGameNotInPlay:
		return "GameNotInPlay"
	case MessageNotThisPlayersTurn:
		return "NotThisPlayersTurn"
	case MessageUnknownPlayer:
		return "UnknownPlayer"
	case MessageHit:
		return "Hit"
	case MessageMiss:
		return "Miss"
	case MessageHitSameSpot:
		return "HitSameSpot"
	case MessageMissSameSpot:
		return "MissSameSpot"
	case MessageShotOutOfBounds:
		return "ShotOutOfBounds"
	default:
		return "Unknown"
	}
}

func (m Message) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Message) UnmarshalText(text []byte) error {
	for candidate := MessageShipPlaced; candidate <= MessageShotOutOfBounds; candidate++ {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown message: %q", text)
}

// IsShotResolved reports whether a shot was taken, i.e. the firing
// player used up their turn.
func (m Message) IsShotResolved() bool {
	switch m {
	case MessageHit, MessageMiss, MessageHitSameSpot, MessageMissSameSpot:
		return true
	default:
		return false
	}
}

// OperationResult pairs the outcome of an operation with the snapshot
// it produced. Refused operations return the snapshot they were called on.
type OperationResult struct {
	Message  Message
	Battle   *Battle
	SunkShip ShipKind
}

// Sunk returns the kind sunk by this shot, if any.
func (r OperationResult) Sunk() (ShipKind, bool) {
	return r.SunkShip, r.SunkShip.IsValid()
}
