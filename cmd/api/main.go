package main

import (
	"context"
	"flag"
	"os"

	"github.com/yigit/volunteerhub/internal/bootstrap"
	"github.com/yigit/volunteerhub/internal/pkg/logger"
	"github.com/yigit/volunteerhub/internal/server"
)

// @title VolunteerHub API
// @version 1.0
// @description API for matching volunteers with community events

// @contact.name API Support
// @contact.email support@volunteerhub.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

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
