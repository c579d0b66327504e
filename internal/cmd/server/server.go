// Package server wires the vault and layout services into a single HTTP
// process: configuration, storage, authentication, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	otelapi "go.opentelemetry.io/otel"

	"github.com/fenwick-games/lorekeeper/internal/platform/assets/imagestore"
	"github.com/fenwick-games/lorekeeper/internal/platform/config"
	"github.com/fenwick-games/lorekeeper/internal/platform/otel"
	layouthttp "github.com/fenwick-games/lorekeeper/internal/services/layout/api/http"
	layoutsqlite "github.com/fenwick-games/lorekeeper/internal/services/layout/storage/sqlite"
	"github.com/fenwick-games/lorekeeper/internal/services/shared/authctx"
	vaulthttp "github.com/fenwick-games/lorekeeper/internal/services/vault/api/http"
	"github.com/fenwick-games/lorekeeper/internal/services/vault/app"
	vaultsqlite "github.com/fenwick-games/lorekeeper/internal/services/vault/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server process settings.
type Config struct {
	Port         int    `env:"LOREKEEPER_SERVER_PORT" envDefault:"8080"`
	VaultDBPath  string `env:"LOREKEEPER_VAULT_DB_PATH" envDefault:"lorekeeper-vault.db"`
	LayoutDBPath string `env:"LOREKEEPER_LAYOUT_DB_PATH" envDefault:"lorekeeper-layout.db"`

	// AuthSecret signs session tokens. When empty, all requests are
	// anonymous and every authenticated endpoint returns 401.
	AuthSecret string `env:"LOREKEEPER_AUTH_SECRET"`

	// OTelEndpoint is the OTLP collector URL. Tracing stays off while it
	// is empty; OTelDisabled turns it off even when an endpoint is set.
	OTelEndpoint string `env:"LOREKEEPER_OTEL_ENDPOINT"`
	OTelDisabled bool   `env:"LOREKEEPER_OTEL_DISABLED"`

	// S3 settings enable portrait uploads. When the bucket is empty the
	// portrait endpoint reports uploads as unavailable.
	S3Bucket        string `env:"LOREKEEPER_S3_BUCKET"`
	S3Region        string `env:"LOREKEEPER_S3_REGION"`
	S3BaseEndpoint  string `env:"LOREKEEPER_S3_BASE_ENDPOINT"`
	S3PublicBaseURL string `env:"LOREKEEPER_S3_PUBLIC_BASE_URL"`
}

// ParseConfig loads configuration from the environment, with flags taking
// precedence over environment variables.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.VaultDBPath, "vault-db", cfg.VaultDBPath, "path to the vault SQLite database")
	fs.StringVar(&cfg.LayoutDBPath, "layout-db", cfg.LayoutDBPath, "path to the layout SQLite database")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP collector URL; empty disables tracing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// traceRequests opens a span per request on the global tracer. A no-op when
// tracing is not configured.
func traceRequests(next http.Handler) http.Handler {
	tracer := otelapi.Tracer("lorekeeper/http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "lorekeeper", otel.Config{
		Endpoint: cfg.OTelEndpoint,
		Disabled: cfg.OTelDisabled,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	vaultStore, err := vaultsqlite.Open(cfg.VaultDBPath)
	if err != nil {
		return fmt.Errorf("open vault store: %w", err)
	}
	defer func() {
		if err := vaultStore.Close(); err != nil {
			log.Printf("close vault store: %v", err)
		}
	}()

	layoutStore, err := layoutsqlite.Open(cfg.LayoutDBPath)
	if err != nil {
		return fmt.Errorf("open layout store: %w", err)
	}
	defer func() {
		if err := layoutStore.Close(); err != nil {
			log.Printf("close layout store: %v", err)
		}
	}()

	var opts []app.Option
	if cfg.S3Bucket != "" {
		images, err := imagestore.NewS3(ctx, imagestore.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("setup image store: %w", err)
		}
		opts = append(opts, app.WithImages(images))
	}
	vaultService := app.NewService(vaultStore, opts...)

	mux := http.NewServeMux()
	vaulthttp.NewHandler(vaultService).Register(mux)
	layouthttp.NewHandler(layoutStore).Register(mux)

	var verifier *authctx.TokenVerifier
	if cfg.AuthSecret != "" {
		verifier, err = authctx.NewTokenVerifier([]byte(cfg.AuthSecret))
		if err != nil {
			return fmt.Errorf("setup token verifier: %w", err)
		}
	} else {
		log.Printf("LOREKEEPER_AUTH_SECRET is not set; all requests are anonymous")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           traceRequests(authctx.Middleware(verifier, mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
