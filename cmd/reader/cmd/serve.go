package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/tbourn/go-reader-backend/internal/http"
	"github.com/tbourn/go-reader-backend/internal/observability"
	"github.com/tbourn/go-reader-backend/internal/sysutil"
)

const shutdownGrace = 10 * time.Second

var (
	serveAddr string
	serveWarm bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Serves the reader API under API_BASE_PATH, plus /health, /metrics and,\n" +
		"when SWAGGER_ENABLED is set, /swagger. Stops gracefully on SIGINT or SIGTERM.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :PORT)")
	serveCmd.Flags().BoolVar(&serveWarm, "warm", true, "Build the search index at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := maybeOpenDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	engine := httpapi.RegisterRoutes(r, db, contentSource(cfg, db), cfg)

	if serveWarm {
		go func() {
			ix, err := engine.Index(ctx)
			if err != nil {
				// requests retry the build
				log.Error().Err(err).Msg("index warm-up failed")
				return
			}
			log.Info().Int("essays", len(ix.Essays())).Int("sections", ix.Len()).Msg("index ready")
		}()
	}

	srv := &http.Server{
		Addr:              sysutil.FirstNonEmpty(serveAddr, ":"+cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("api", cfg.APIBasePath).
			Str("content", cfg.ContentSource).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(sctx)
}
