package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-engine/api"
	"github.com/saeidalz13/battleship-engine/db"
	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

type config struct {
	stage        string
	port         int
	databaseUrl  string
	migrationDir string
	logLevel     string
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustLoadConfig() config {
	if os.Getenv("STAGE") != api.StageProd {
		// a missing .env is fine when the variables are already exported
		_ = godotenv.Load(".env")
	}

	stage := os.Getenv("STAGE")
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(api.DefaultPort)))
	if err != nil {
		panic(err)
	}

	return config{
		stage:        stage,
		port:         port,
		databaseUrl:  os.Getenv("DATABASE_URL"),
		migrationDir: getEnv("MIGRATION_DIR", db.DefaultMigrationDir),
		logLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func setupLogger(cfg config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.stage == api.StageDev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg := mustLoadConfig()
	setupLogger(cfg)

	opts := []api.Option{api.WithPort(cfg.port), api.WithStage(cfg.stage)}
	if cfg.databaseUrl != "" {
		psql := db.MustConnectToDb(cfg.databaseUrl, cfg.migrationDir)
		defer psql.Close()
		opts = append(opts, api.WithQuerier(sqlc.New(psql)))
	} else {
		log.Warn().Msg("DATABASE_URL is empty; analytics disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bsm := mc.NewBattleshipSessionManager()
	go bsm.CleanupPeriodically(ctx)

	bgm := mb.NewBattleshipGameManager()
	server := api.NewServer(bsm, bgm, opts...)

	httpServer := &http.Server{
		Addr:              server.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Int("port", cfg.port).Str("stage", cfg.stage).Msg("starting battleship server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
