package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizmaster/internal/config"
	"quizmaster/internal/engine"
	"quizmaster/internal/infra/memory"
	pgloader "quizmaster/internal/infra/postgres"
	redisinfra "quizmaster/internal/infra/redis"
	transport "quizmaster/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 0) // zero = no expiry on player state

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(SampleBank())
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bank engine.BankRepository
	if redisClient != nil {
		bank = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bank = memory.NewBankRepository(loader, bankTTL)
	}

	var sessions engine.SessionStore
	var state engine.StateStore
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, time.Hour)
		state = redisinfra.NewStateStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
		state = memory.NewStateStore()
	}

	eng := engine.New(sessions, bank, state, engine.WithTiming(timingFromConfig(cfg)))
	wsHandler := transport.NewWSHandler(eng)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizmaster on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func timingFromConfig(cfg config.Config) engine.Timing {
	timing := engine.DefaultTiming()
	if cfg.Quiz.QuestionSeconds > 0 {
		timing.QuestionSeconds = cfg.Quiz.QuestionSeconds
	}
	if cfg.Quiz.TotalPerQuestion > 0 {
		timing.TotalPerQuestion = cfg.Quiz.TotalPerQuestion
	}
	timing.Grace = config.TTLDuration(cfg.Quiz.Grace, timing.Grace)
	if cfg.Quiz.ExtraTimeSeconds > 0 {
		timing.ExtraTimeSeconds = cfg.Quiz.ExtraTimeSeconds
	}
	return timing
}
