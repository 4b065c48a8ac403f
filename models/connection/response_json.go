package connection

import (
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

// Boards travel as one string of cell codes per row. The enemy board is
// sent through EnemyRows so that undamaged ships stay hidden.
type RespBoards struct {
	Phase       mb.Phase `json:"phase"`
	PlayerBoard []string `json:"player_board"`
	EnemyBoard  []string `json:"enemy_board"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string `json:"game_uuid"`
	GridSize int    `json:"grid_size"`
	RespBoards
}

type RespPlacement struct {
	Result mb.Message `json:"result"`
	RespBoards
}

type RespShot struct {
	X        int              `json:"x"`
	Y        int              `json:"y"`
	Result   mb.Message       `json:"result"`
	SunkShip string           `json:"sunk_ship,omitempty"`
	Changed  []mb.Coordinates `json:"changed,omitempty"`
}

type RespAttack struct {
	Player   RespShot  `json:"player"`
	Computer *RespShot `json:"computer,omitempty"`
	RespBoards
}

type RespEndGame struct {
	Winner    mb.PlayerId `json:"winner"`
	PlayerWon bool        `json:"player_won"`
	Message   string      `json:"message"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}

// EnemyRows renders a board as its opponent may see it: undamaged
// sections look like water.
func EnemyRows(board mb.Board) []string {
	rows := board.Rows()
	hidden := mb.WaterCell().Code()
	for y, row := range rows {
		masked := []byte(row)
		for x := range masked {
			if board.At(y, x).IsNominal() {
				masked[x] = hidden[0]
			}
		}
		rows[y] = string(masked)
	}
	return rows
}

func NewRespBoards(b *mb.Battle) RespBoards {
	return RespBoards{
		Phase:       b.Phase(),
		PlayerBoard: b.BoardOf(mb.HumanPlayer).Rows(),
		EnemyBoard:  EnemyRows(b.BoardOf(mb.ComputerPlayer)),
	}
}

func NewRespShot(y, x int, res mb.OperationResult, changed []mb.Coordinates) RespShot {
	shot := RespShot{
		X:       x,
		Y:       y,
		Result:  res.Message,
		Changed: changed,
	}
	if kind, ok := res.Sunk(); ok {
		shot.SunkShip = kind.String()
	}
	return shot
}
