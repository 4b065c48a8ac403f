package api

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlacement]
	HandleRandomBoard(game *mb.Game) mc.Message[mc.RespPlacement]
	HandleUndo(game *mb.Game) mc.Message[mc.RespBoards]
	HandleAttack(game *mb.Game) mc.Message[mc.RespAttack]
	HandleRematch(game *mb.Game) mc.Message[mc.RespCreateGame]
	HandleBoard(game *mb.Game) mc.Message[mc.RespBoards]
}

// Every incoming valid request will have this structure.
// The payload is the raw frame read from the websocket.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func decodePayload[T any](r Request) (T, error) {
	var req mc.Message[T]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		return req.Payload, cerr.ErrInvalidPayload(err)
	}
	return req.Payload, nil
}

// The game is created with a computer fleet already deployed. The
// player's board comes back empty.
func (r Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := decodePayload[mc.ReqCreateGame](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to create the game")
		return nil, resp
	}

	game, err := gm.CreateGame(req.GameDifficulty)
	if err != nil {
		resp.AddError(err.Error(), "failed to create the game")
		return nil, resp
	}

	resp.AddPayload(newRespCreateGame(game))
	return game, resp
}

func (r Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodePlaceShip)

	req, err := decodePayload[mc.ReqPlaceShip](r)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	kind, ok := mb.ParseShipKind(req.Ship)
	if !ok {
		resp.AddError(cerr.ErrInvalidShipKind(req.Ship).Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	res := game.PlaceShip(kind, req.Y, req.X, req.Vertical)
	resp.AddPayload(mc.RespPlacement{
		Result:     res.Message,
		RespBoards: mc.NewRespBoards(game.Snapshot()),
	})
	return resp
}

// Deals a whole fleet for the player, dropping ships placed by hand.
func (r Request) HandleRandomBoard(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodeRandomBoard)

	res, err := game.RandomizeShips()
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlacementFailed)
		return resp
	}

	resp.AddPayload(mc.RespPlacement{
		Result:     res.Message,
		RespBoards: mc.NewRespBoards(game.Snapshot()),
	})
	return resp
}

func (r Request) HandleUndo(game *mb.Game) mc.Message[mc.RespBoards] {
	resp := mc.NewMessage[mc.RespBoards](mc.CodeUndo)

	b, err := game.Undo()
	if err != nil {
		resp.AddError(err.Error(), "undo failed")
		return resp
	}

	resp.AddPayload(mc.NewRespBoards(b))
	return resp
}

// The player fires first. When the shot counts, the response also
// carries the computer's answer.
func (r Request) HandleAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decodePayload[mc.ReqAttack](r)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	out := game.Attack(req.Y, req.X)

	payload := mc.RespAttack{
		Player:     mc.NewRespShot(req.Y, req.X, out.Player, out.EnemyChanged),
		RespBoards: mc.NewRespBoards(game.Snapshot()),
	}
	if out.Computer != nil {
		shot := mc.NewRespShot(out.ComputerShot.Y, out.ComputerShot.X, *out.Computer, out.PlayerChanged)
		payload.Computer = &shot
	}

	resp.AddPayload(payload)
	return resp
}

func (r Request) HandleRematch(game *mb.Game) mc.Message[mc.RespCreateGame] {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeRematch)

	if err := game.Restart(); err != nil {
		resp.AddError(err.Error(), "rematch failed")
		return resp
	}

	resp.AddPayload(newRespCreateGame(game))
	return resp
}

func (r Request) HandleBoard(game *mb.Game) mc.Message[mc.RespBoards] {
	resp := mc.NewMessage[mc.RespBoards](mc.CodeBoard)
	resp.AddPayload(mc.NewRespBoards(game.Snapshot()))
	return resp
}

func NewEndGameMessage(game *mb.Game) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)

	winner, _ := game.Snapshot().Winner()
	text, _ := game.GameOverMessage()
	resp.AddPayload(mc.RespEndGame{
		Winner:    winner,
		PlayerWon: winner == mb.HumanPlayer,
		Message:   text,
	})
	return resp
}

func newRespCreateGame(game *mb.Game) mc.RespCreateGame {
	return mc.RespCreateGame{
		GameUuid:   game.Uuid(),
		GridSize:   game.GridSize(),
		RespBoards: mc.NewRespBoards(game.Snapshot()),
	}
}
