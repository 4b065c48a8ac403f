package connection

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	gracePeriod       time.Duration = time.Minute * 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn) error
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one client connection and the game it is playing. The
// connection may be swapped when the client reconnects with its id.
type Session struct {
	id        string
	createdAt time.Time

	mu                     sync.RWMutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan bool
	awaitingReconnection   bool
	game                   *mb.Game
}

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Session) Game() *mb.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

func (s *Session) SetGame(game *mb.Game) {
	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
}

// awaitReconnection opens the window in which a new connection is
// accepted. The returned channel is closed once one arrives.
func (s *Session) awaitReconnection() <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingReconnection = true
	return s.reconnectionSignalChan
}

func (s *Session) stopAwaitingReconnection() {
	s.mu.Lock()
	s.awaitingReconnection = false
	s.mu.Unlock()
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	logger := log.With().Str("session", s.id).Err(err).Logger()

	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		logger.Warn().Msg("timeout error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		logger.Warn().Msg("high server load/traffic error")
		return ConnLoopRetry
	}

	// Happens if the IOS client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		logger.Info().Msg("abnormal closure error")
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		logger.Info().Msg("close error")
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		logger.Error().Msg("critical error")
		return ConnLoopBreak
	}

	/*
		This might mean that the client is not from the application.
		Breaking not to overwhelm the server with invalid payloads (e.g. binary data)

		CloseUnsupportedData (1003):
		- Client sends a binary message to a server that only supports text messages.

		CloseInvalidFramePayloadData (1007):
		- Client sends a text message with a payload that is not properly encoded as UTF-8.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		logger.Warn().Msg("non-critical error")
		return ConnLoopBreak
	}

	logger.Error().Msg("unexpected error")
	return ConnLoopBreak
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

writeJsonLoop:
	for {
		var err error

		s.mu.Lock()
		switch msgType {
		case MessageTypeJSON:
			err = s.conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				s.mu.Unlock()
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = s.conn.WriteMessage(websocket.TextMessage, respBytes)

		default:
			s.mu.Unlock()
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}
		s.mu.Unlock()

		if err != nil {
			switch s.onConnErr(err) {
			case ConnLoopRetry:
				if retries < maxWriteWsRetries {
					retries++
					log.Warn().Str("remote", s.remoteAddr()).Uint8("retry", retries).Msg("writing json to ws failed; retrying")
					time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
					continue writeJsonLoop
				}
				log.Error().Str("remote", s.remoteAddr()).Err(err).Msg("max retries reached for writing to ws")
				return NewConnErr(ConnLoopBreak)

			case ConnLoopAbnormalClosureRetry:
				return NewConnErr(ConnLoopAbnormalClosureRetry)

			default:
				return NewConnErr(ConnLoopBreak).AddDesc("breaking writeJsonLoop due to: " + err.Error())
			}
		}
		return nil
	}
}

// Handles the errors that occurs when reading from
// ws connection. `ConnLoopContinue` means the read
// should be tried again.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Warn().Str("remote", s.remoteAddr()).Uint8("retry", retries).Msg("failed to read from ws conn; retrying")
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Info().Str("remote", s.remoteAddr()).Err(err).Msg("break ws conn loop")
		return ConnLoopBreak
	}
}

// reconnectionAfterAbnormalClosure swaps in the client's new connection
// and closes the old one. It is refused unless the session is waiting
// out an abnormal closure.
func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.awaitingReconnection {
		return NewConnErr(ConnLoopBreak).AddDesc("session is not waiting for a reconnection: " + s.id)
	}

	// Signal for reconnection
	close(s.reconnectionSignalChan)

	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.reconnectionSignalChan = make(chan bool)
	s.awaitingReconnection = false
	return nil
}

var _ ConnectionHandler = (*Session)(nil)
