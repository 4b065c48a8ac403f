package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const DefaultPort = 9191

type Server struct {
	port           int
	stage          string
	q              sqlc.Querier
	GameManager    mb.GameManager
	SessionManager mc.SessionManager
}

type Option func(*Server) error

func NewServer(sessionManager mc.SessionManager, gameManager mb.GameManager, optFuncs ...Option) *Server {
	server := Server{
		port:           DefaultPort,
		stage:          StageDev,
		GameManager:    gameManager,
		SessionManager: sessionManager,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}
	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

// WithQuerier turns on the analytics counters.
func WithQuerier(q sqlc.Querier) Option {
	return func(s *Server) error {
		s.q = q
		return nil
	}
}

func (s *Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.port)
}

func (s *Server) Stage() string {
	return s.stage
}

// Router installs the middleware and mounts the websocket endpoint
// next to the plain HTTP diagnostics.
func (s *Server) Router() chi.Router {
	rp := NewRequestProcessor(s.SessionManager, s.GameManager, s.q)
	analytics := sqlc.NewAnalyticsManager(s.q)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"stage":    s.stage,
			"games":    s.GameManager.Count(),
			"sessions": s.SessionManager.Count(),
		})
	})

	r.Get("/analytics", func(w http.ResponseWriter, r *http.Request) {
		if !analytics.Enabled() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "analytics disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), sqlc.QuerierCtxTimeout)
		defer cancel()
		row, err := analytics.GetServerAnalytics(ctx, rp.serverInet())
		if err != nil {
			log.Error().Err(err).Msg("read analytics")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not read analytics"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"server_ip":      row.ServerIp.IPNet.String(),
			"games_created":  row.GamesCreated,
			"games_finished": row.GamesFinished,
			"rematch_called": row.RematchCalled,
		})
	})

	r.Method(http.MethodGet, "/battleship", rp)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
