package battleship

import "fmt"

type PlayerId uint8

const (
	Player1 PlayerId = iota
	Player2
)

func (p PlayerId) IsValid() bool {
	return p == Player1 || p == Player2
}

// Opponent is the player on the other side of the table.
func (p PlayerId) Opponent() PlayerId {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p PlayerId) String() string {
	switch p {
	case Player1:
		return "Player1"
	case Player2:
		return "Player2"
	default:
		return "Unknown"
	}
}

func (p PlayerId) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PlayerId) UnmarshalText(text []byte) error {
	switch string(text) {
	case Player1.String():
		*p = Player1
	case Player2.String():
		*p = Player2
	default:
		return fmt.Errorf("unknown player: %q", text)
	}
	return nil
}
