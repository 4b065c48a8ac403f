package battleship

// ShipKind identifies one of the five ships in a fleet.
// The zero value is not a ship.
type ShipKind uint8

const (
	ShipKindNone ShipKind = iota
	ShipKindCarrier
	ShipKindBattleship
	ShipKindSubmarine
	ShipKindCruiser
	ShipKindPatrol
)

// Every fleet has exactly one ship of each kind.
const NumberOfShipKinds = 5

// AllShipKinds returns every kind, longest first.
func AllShipKinds() []ShipKind {
	return []ShipKind{
		ShipKindCarrier,
		ShipKindBattleship,
		ShipKindSubmarine,
		ShipKindCruiser,
		ShipKindPatrol,
	}
}

func (k ShipKind) IsValid() bool {
	return k >= ShipKindCarrier && k <= ShipKindPatrol
}

// Length is the number of consecutive cells the ship occupies.
func (k ShipKind) Length() int {
	switch k {
	case ShipKindCarrier:
		return 5
	case ShipKindBattleship:
		return 4
	case ShipKindSubmarine:
		return 3
	case ShipKindCruiser:
		return 2
	case ShipKindPatrol:
		return 1
	default:
		return 0
	}
}

// Letter is the uppercase code used to render an undamaged section.
func (k ShipKind) Letter() string {
	switch k {
	case ShipKindCarrier:
		return "A"
	case ShipKindBattleship:
		return "B"
	case ShipKindSubmarine:
		return "S"
	case ShipKindCruiser:
		return "C"
	case ShipKindPatrol:
		return "P"
	default:
		return "?"
	}
}

func (k ShipKind) String() string {
	switch k {
	case ShipKindCarrier:
		return "Carrier"
	case ShipKindBattleship:
		return "Battleship"
	case ShipKindSubmarine:
		return "Submarine"
	case ShipKindCruiser:
		return "Cruiser"
	case ShipKindPatrol:
		return "Patrol"
	default:
		return "Unknown"
	}
}

// ParseShipKind accepts either the ship name or its letter.
func ParseShipKind(s string) (ShipKind, bool) {
	for _, k := range AllShipKinds() {
		if s == k.String() || s == k.Letter() {
			return k, true
		}
	}
	return ShipKindNone, false
}
