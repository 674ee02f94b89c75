package main

import (
	"context"
	"flag"
	"os"

	"github.com/yigit/clubportal/internal/bootstrap"
	"github.com/yigit/clubportal/internal/pkg/logger"
	"github.com/yigit/clubportal/internal/server"
)

// @title Club Portal API
// @version 1.0
// @description API of the university club portal: club registration and approval, posts, direct messages and feedback.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token as "Bearer <token>"

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(context.Background(), *configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
