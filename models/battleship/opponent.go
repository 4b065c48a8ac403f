package battleship

// RandomOpponent picks targets uniformly at random and never fires at
// the same position twice.
type RandomOpponent struct {
	targets []Coordinates
}

func NewRandomOpponent(yDim, xDim int, rng Randomizer) *RandomOpponent {
	targets := NewBoard(yDim, xDim).Coordinates()
	randomizerOrDefault(rng).Shuffle(len(targets), func(i, j int) {
		targets[i], targets[j] = targets[j], targets[i]
	})
	return &RandomOpponent{targets: targets}
}

// NextShot pops the next target. It returns false once every position
// has been fired at.
func (o *RandomOpponent) NextShot() (Coordinates, bool) {
	if len(o.targets) == 0 {
		return Coordinates{}, false
	}
	last := len(o.targets) - 1
	c := o.targets[last]
	o.targets = o.targets[:last]
	return c, true
}

func (o *RandomOpponent) Remaining() int {
	return len(o.targets)
}
