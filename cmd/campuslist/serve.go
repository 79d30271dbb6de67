package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/infrastructure/api"
	apimiddleware "github.com/campuslist/campuslist/infrastructure/api/middleware"
	"github.com/campuslist/campuslist/internal/config"
	"github.com/campuslist/campuslist/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server and the chain scheduler",
		Long: `Start the HTTP API server and the chain scheduler.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                    Server host to bind to (default: 0.0.0.0)
  PORT                    Server port to listen on (default: 8080)
  DATA_DIR                Data directory (default: ~/.campuslist)
  DB_URL                  Database URL (default: sqlite:///{data_dir}/campuslist.db)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)
  API_KEYS                Comma-separated list of valid API keys
  NOTIFY_URL              Downstream endpoint notified after chain runs

  TRENDS_API_KEY          SerpApi key for rising query ingestion
  TRENDS_QUERY            Seed query (default: university)
  TRENDS_GEO              Geo restriction (default: US)

  PLACES_API_KEY          Google Places key for institution lookups

  OPENAI_API_KEY          OpenAI key for fact and score prompts
  OPENAI_FACT_PROMPT_ID   Prompt template id for facts
  OPENAI_SCORE_PROMPT_ID  Prompt template id for scores

  CHAIN_ENABLED           Run the scheduled chain (default: true)
  CHAIN_WINDOW_START_HOUR Daily window start hour (default: 9)
  CHAIN_WINDOW_END_HOUR   Daily window end hour, exclusive (default: 21)
  CHAIN_TIMEZONE          Window timezone (default: America/New_York)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting campuslist", attrs...)

	client, err := campuslist.New(
		campuslist.WithConfig(cfg),
		campuslist.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create campuslist client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close campuslist client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client)
	router := apiServer.Router()

	// Custom middleware must be registered before MountRoutes.
	router.Use(apimiddleware.Logging(slogger))

	apiServer.MountRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	addr := cfg.Addr()
	server := api.NewServer(addr, slogger)
	server.Router().Mount("/", router)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	slogger.Info("starting server", slog.String("addr", addr))
	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
