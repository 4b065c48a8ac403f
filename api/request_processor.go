package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-engine/db/sqlc"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{
		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      sqlc.NewAnalyticsManager(q),
		ipnet:          findServerIpNet(),
	}
}

// findServerIpNet picks the first IPv4 address of an interface that is
// up and not a loopback. Hosts without one are counted as 127.0.0.1.
func findServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(8, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn().Err(err).Msg("could not list network interfaces")
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Warn().Err(err).Str("iface", iface.Name).Msg("could not read interface addresses")
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}
			}
		}
	}

	log.Warn().Msg("no external ipv4 address found; using loopback")
	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

// record runs one analytics update. Failures are logged and never
// interrupt the game.
func (rp RequestProcessor) record(name string, f func(context.Context, pqtype.Inet) error) {
	if !rp.analytics.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := f(ctx, rp.serverInet()); err != nil {
		log.Error().Err(err).Str("counter", name).Msg("analytics update failed")
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("could not open websocket connection")
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("a new connection established")
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	// The goroutine serving the session keeps using this connection
	if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
		// This either means an expired session or invalid session ID
		log.Info().Err(err).Msg("reconnection refused")
		_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
		_ = conn.Close()
	}
}

func (rp RequestProcessor) write(session *mc.Session, msg interface{}) error {
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()
	logger := log.With().Str("session", sessionId).Logger()

	defer func() {
		if game := session.Game(); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		logger.Info().Msg("session closed")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.write(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), "incoming req payload must contain 'code' field")
			if err = rp.write(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		game := session.Game()
		if game == nil && requiresGame(code) {
			msg := mc.NewMessage[mc.NoPayload](code)
			msg.AddError(cerr.ErrNoActiveGame(sessionId).Error(), "create a game first")
			if err = rp.write(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// A session plays one game at a time; creating another one
		// drops the current game.
		case mc.CodeCreateGame:
			newGame, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager)
			if newGame != nil {
				if game != nil {
					rp.gameManager.TerminateGame(game.Uuid())
				}
				session.SetGame(newGame)
				rp.record("games_created", rp.analytics.IncrementGamesCreatedCount)
				logger.Info().Str("game", newGame.Uuid()).Uint8("difficulty", newGame.Difficulty()).Msg("game created")
			}

			if err := rp.write(session, respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			before := game.Snapshot().Phase()
			respMsg := NewRequest(payload).HandlePlaceShip(game)
			if err := rp.writeWithReady(session, game, before, respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodeRandomBoard:
			before := game.Snapshot().Phase()
			respMsg := NewRequest(payload).HandleRandomBoard(game)
			if err := rp.writeWithReady(session, game, before, respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodeUndo:
			if err := rp.write(session, NewRequest(payload).HandleUndo(game)); err != nil {
				break sessionLoop
			}

		// The computer answers in the same response. Once either
		// fleet is gone the end of the game follows.
		case mc.CodeAttack:
			wasFinished := game.IsFinished()
			respMsg := NewRequest(payload).HandleAttack(game)
			if err := rp.write(session, respMsg); err != nil {
				break sessionLoop
			}

			if !wasFinished && game.IsFinished() {
				rp.record("games_finished", rp.analytics.IncrementGamesFinishedCount)
				if err := rp.write(session, NewEndGameMessage(game)); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeRematch:
			if err := rp.write(session, rp.rematch(game)); err != nil {
				break sessionLoop
			}

		case mc.CodeBoard:
			if err := rp.write(session, NewRequest(payload).HandleBoard(game)); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.write(session, respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

// writeWithReady sends a placement response, followed by the ready
// signal when the placement moved the game out of setup.
func (rp RequestProcessor) writeWithReady(session *mc.Session, game *mb.Game, before mb.Phase, respMsg mc.Message[mc.RespPlacement]) error {
	if err := rp.write(session, respMsg); err != nil {
		return err
	}
	if before != mb.PhaseSetup || game.Snapshot().Phase() != mb.PhaseSetupComplete {
		return nil
	}
	return rp.write(session, mc.NewMessage[mc.NoPayload](mc.CodeReady))
}

// rematch restarts the game and counts it only when a new computer
// fleet was deployed.
func (rp RequestProcessor) rematch(game *mb.Game) mc.Message[mc.RespCreateGame] {
	respMsg := NewRequest().HandleRematch(game)
	if respMsg.Error == nil {
		rp.record("rematch_called", rp.analytics.IncrementRematchCalledCount)
	}
	return respMsg
}

func requiresGame(code uint8) bool {
	switch code {
	case mc.CodePlaceShip, mc.CodeRandomBoard, mc.CodeUndo, mc.CodeAttack, mc.CodeRematch, mc.CodeBoard:
		return true
	default:
		return false
	}
}
