package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/attributely-go/internal/auth"
	"github.com/AngelCh415/attributely-go/internal/config"
	"github.com/AngelCh415/attributely-go/internal/enrich"
	"github.com/AngelCh415/attributely-go/internal/httpx"
	"github.com/AngelCh415/attributely-go/internal/ingest"
	"github.com/AngelCh415/attributely-go/internal/metrics"
	"github.com/AngelCh415/attributely-go/internal/platforms"
	"github.com/AngelCh415/attributely-go/internal/queue"
	"github.com/AngelCh415/attributely-go/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Examples:
  attributely serve              # PORT from env, default 8080
  attributely serve --port 3000
  attributely serve --memory     # in-memory store, no database`,
	RunE: runServe,
}

var (
	servePort   string
	serveMemory bool
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Use the in-memory store")
}

func openStore(cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	if serveMemory {
		return store.NewMemoryStore(), func() {}, nil
	}
	db, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info("database ready", slog.String("driver", cfg.DatabaseDriver))
	return store.NewGormStore(db), func() { _ = store.Close(db) }, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, err := queue.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	pipeline := enrich.New(logger)
	meta, err := ingest.NewMetaClient(cl, cfg, logger, pipeline)
	if errors.Is(err, ingest.ErrNotConfigured) {
		logger.Warn("meta ads integration disabled: credentials missing")
	}

	r := httpx.NewRouter(httpx.Deps{
		Log:       logger,
		Cfg:       cfg,
		Store:     st,
		Enricher:  pipeline,
		Meta:      meta,
		Exporter:  ingest.NewExporter(cl, st, logger, cfg),
		Metrics:   metrics.NewService(st),
		Platforms: platforms.NewRegistry(cfg, cl, logger),
		Queue:     pub,
		JWT:       auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
