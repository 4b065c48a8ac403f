package battleship

import "fmt"

// Phase only ever moves forward:
// Setup -> SetupComplete -> Playing -> GameOver.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseSetupComplete
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseSetupComplete:
		return "SetupComplete"
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := PhaseSetup; candidate <= PhaseGameOver; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase: %q", text)
}

// InPlay reports whether shots are accepted in this phase.
func (p Phase) InPlay() bool {
	return p == PhaseSetupComplete || p == PhasePlaying
}
