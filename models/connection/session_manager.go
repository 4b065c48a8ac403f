package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const defaultCleanupInterval = time.Minute * 20

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	HandleAbnormalClosureSession(session *Session) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	Count() int
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

type SessionManagerOption func(*BattleshipSessionManager)

// WithCleanupInterval sets both how often stale sessions are looked
// for and how old a session must be to count as stale.
func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

// WithGracePeriod sets how long a dropped client has to reconnect.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: defaultCleanupInterval,
		gracePeriod:     gracePeriod,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

// ReconnectSession hands a new connection to a session whose client
// dropped. The goroutine serving the session picks it up. Sessions that
// are not in their grace period refuse it.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}
	return session.reconnectionAfterAbnormalClosure(conn)
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// To ensure that there is no dangling connections,
// server session manager marks the sessions older than
// the cleanup interval as stale and deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bsm.cleanup()
		}
	}
}

func (bsm *BattleshipSessionManager) cleanup() {
	assumedClosedConns := 10
	toDelete := make([]string, 0, assumedClosedConns)

	bsm.mu.Lock()
	for id, session := range bsm.sessions {
		if time.Since(session.createdAt) > bsm.cleanupInterval {
			toDelete = append(toDelete, id)
		}
	}
	for _, id := range toDelete {
		delete(bsm.sessions, id)
	}
	bsm.mu.Unlock()

	if len(toDelete) > 0 {
		log.Info().Strs("sessions", toDelete).Msg("cleaned up stale sessions")
	}
}

// This function takes care of abnormal closures. This happens due to
// backgrounding in IOS clients or any other unexpected reasons for web
// apps. A session without a game has nothing worth waiting for.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	if s.Game() == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("game is nil")
	}

	reconnected := s.awaitReconnection()
	defer s.stopAwaitingReconnection()
	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Info().Str("session", s.id).Msg("grace period is over; session terminated")
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		log.Info().Str("session", s.id).Msg("player reconnected")
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	if code, ok := ConnErrCode(err); !ok || code != ConnLoopAbnormalClosureRetry {
		return err
	}
	if err := bsm.HandleAbnormalClosureSession(session); err != nil {
		return err
	}

	// the client came back on a new connection
	return session.writeToConnWithRetry(msg, msgType)
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg reads the code every incoming frame must carry.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	if err := json.Unmarshal(payload, &signal); err != nil {
		return 0, cerr.ErrInvalidPayload(err)
	}
	if signal.Code == nil {
		return 0, NewConnErr(ConnLoopPassThrough).AddDesc("incoming req payload must contain 'code' field")
	}
	return *signal.Code, nil
}
