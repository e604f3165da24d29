package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hackathon-badges/internal/config"
	"hackathon-badges/internal/database"
	"hackathon-badges/internal/handlers"
	"hackathon-badges/internal/metrics"
	"hackathon-badges/internal/repository"
	"hackathon-badges/internal/seed"
	"hackathon-badges/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Command is a sub-command of the binary
type Command string

const (
	CommandServe   Command = "serve"
	CommandMigrate Command = "migrate"
	CommandSeed    Command = "seed"
)

// ParseCommand splits args into the sub-command and its own arguments.
// No arguments, or a leading flag, means serve.
func ParseCommand(args []string) (Command, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return CommandServe, args, nil
	}

	switch cmd := Command(args[0]); cmd {
	case CommandServe, CommandMigrate, CommandSeed:
		return cmd, args[1:], nil
	default:
		return "", nil, errors.New("unknown command: " + args[0])
	}
}

// Run executes the sub-command named by args
func Run(args []string) {
	command, rest, err := ParseCommand(args)
	if err != nil {
		log.Fatal().Err(err).Msg("Usage: badges [serve|migrate|seed -source <path|s3://bucket/key>]")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case CommandMigrate:
		err = runMigrate(cfg)
	case CommandSeed:
		err = runSeed(ctx, cfg, rest)
	default:
		err = runServe(ctx, cfg)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", string(command)).Msg("Command failed")
	}
}

func runMigrate(cfg *config.Config) error {
	if err := database.RunMigrations(cfg.Database.MigrateURL()); err != nil {
		return err
	}
	log.Info().Msg("Migrations applied")
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	source := fs.String("source", "data/participants.json", "roster file path or s3://bucket/key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var getter seed.ObjectGetter
	if strings.HasPrefix(*source, "s3://") {
		client, err := seed.NewS3Client(ctx, cfg.Seed)
		if err != nil {
			return err
		}
		getter = client
	}

	rc, err := seed.Open(ctx, *source, getter)
	if err != nil {
		return err
	}
	defer rc.Close()

	participants, err := seed.Decode(rc)
	if err != nil {
		return err
	}

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.MigrateURL()); err != nil {
		return err
	}

	result, err := seed.NewSeeder(repository.NewPostgresStore(db)).Run(ctx, participants)
	if err != nil {
		return err
	}

	log.Info().
		Str("source", *source).
		Int("attendees_inserted", result.AttendeesInserted).
		Int("attendees_existing", result.AttendeesExisting).
		Int("attendees_rejected", result.AttendeesRejected).
		Int("participants_skipped", result.ParticipantsSkipped).
		Int("scans_inserted", result.ScansInserted).
		Msg("Database seeded")
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	// Connect to database
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		return err
	}
	log.Info().Msg("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.MigrateURL()); err != nil {
			return err
		}
		log.Info().Msg("Migrations applied")
	}

	store := repository.NewPostgresStore(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Initialize services
	attendeeService := services.NewAttendeeService(store)
	scanService := services.NewScanService(store, collector)
	checkinService := services.NewCheckinService(store, collector)

	router := handlers.NewRouter(handlers.RouterDeps{
		Attendees:         attendeeService,
		Scans:             scanService,
		Checkins:          checkinService,
		DB:                store,
		Metrics:           collector,
		MetricsHandler:    metrics.Handler(reg),
		CORSAllowedOrigin: cfg.Server.CORSAllowedOrigin,
		RateLimit:         cfg.Server.RateLimit,
		RateBurst:         cfg.Server.RateBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// setupLogger configures the global zerolog logger
func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
