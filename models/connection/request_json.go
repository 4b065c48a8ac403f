package connection

type ReqCreateGame struct {
	GameDifficulty uint8 `json:"game_difficulty"`
}

// Ship is either the name ("Carrier") or the letter ("A") of the kind.
type ReqPlaceShip struct {
	Ship     string `json:"ship"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Vertical bool   `json:"vertical"`
}

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
