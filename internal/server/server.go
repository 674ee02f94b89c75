package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yigit/clubportal/internal/bootstrap"
	"github.com/yigit/clubportal/internal/config"
	"github.com/yigit/clubportal/internal/db"
	"github.com/yigit/clubportal/internal/seed"
)

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	db     *db.PostgresDB
	redis  *redis.Client
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context, configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if err := bootstrap.RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	redisClient := bootstrap.ConnectRedis(ctx, cfg, lgr)

	deps, err := bootstrap.BuildDependencies(cfg, database, redisClient, lgr)
	if err != nil {
		closeRedis(redisClient)
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	if _, err := seed.EnsureAdmin(ctx, deps.AuthService, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password, lgr); err != nil {
		// the portal is still usable for browsing without an administrator
		lgr.Error().Err(err).Msg("Failed to ensure administrator account, proceeding anyway...")
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config: cfg,
		db:     database,
		redis:  redisClient,
		logger: lgr,
		http:   bootstrap.NewHTTPServer(cfg, router),
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = fmt.Errorf("server shutdown completed with errors: %w", err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	s.closeResources()
	s.logger.Info().Msg("Server shutdown process complete.")
	return shutdownErr
}

func (s *Server) closeResources() {
	closeRedis(s.redis)
	if s.db != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.db.Close()
	}
}

func closeRedis(client *redis.Client) {
	if client != nil {
		_ = client.Close()
	}
}
