package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/shakehands/internal/account"
	"github.com/dropDatabas3/shakehands/internal/cache"
	"github.com/dropDatabas3/shakehands/internal/config"
	"github.com/dropDatabas3/shakehands/internal/email"
	"github.com/dropDatabas3/shakehands/internal/handshake"
	httpserver "github.com/dropDatabas3/shakehands/internal/http"
	jwtx "github.com/dropDatabas3/shakehands/internal/jwt"
	"github.com/dropDatabas3/shakehands/internal/metrics"
	"github.com/dropDatabas3/shakehands/internal/oauth"
	"github.com/dropDatabas3/shakehands/internal/observability/logger"
	"github.com/dropDatabas3/shakehands/internal/provider"
	tokens "github.com/dropDatabas3/shakehands/internal/security/token"
	"github.com/dropDatabas3/shakehands/internal/session"
	"github.com/dropDatabas3/shakehands/internal/store"
)

func main() {
	var (
		cfgPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:   "shakehands",
		Short: "Servicio de login social (OAuth1a/OAuth2)",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("SHAKEHANDS_CONFIG", "configs/config.example.yaml"), "ruta del YAML de configuración (env SHAKEHANDS_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "nivel de log: debug|info|warn|error")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath, logLevel)
		},
	}

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Lista los proveedores habilitados según la configuración",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			reg, err := provider.NewRegistry(cfg.Providers)
			if err != nil {
				return err
			}
			for _, id := range reg.Enabled() {
				fmt.Println(id)
			}
			return nil
		},
	}

	root.AddCommand(serveCmd, providersCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfgPath, logLevel string) error {
	// .env es opcional; si no está seguimos con el entorno del sistema.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: logLevel, ServiceName: "shakehands"})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	// Sin CSPRNG no hay tokens CSRF ni session ids: abortar el arranque.
	if err := tokens.EntropyCheck(); err != nil {
		return err
	}

	ctx := context.Background()

	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() { _ = cacheClient.Close() }()

	var users store.UserStore
	switch cfg.Storage.Driver {
	case "postgres":
		users, err = store.NewPostgres(ctx, cfg.Storage.Postgres.DSN, cfg.Storage.Postgres.MaxOpenConns)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
	default:
		users = store.NewMemory()
	}
	defer users.Close()

	registry, err := provider.NewRegistry(cfg.Providers)
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	log.Info("providers configured", logger.Int("count", len(registry.Enabled())))

	var mailer account.Mailer
	if m := email.New(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}); m != nil {
		mailer = m
	}

	var signer *jwtx.Signer
	if cfg.Session.JWTSecret != "" {
		signer, err = jwtx.NewSigner(cfg.Session.JWTSecret, cfg.Session.Issuer, cfg.Session.TTL)
		if err != nil {
			return err
		}
	} else {
		log.Warn("session.jwt_secret not set; login completes without a session token cookie")
	}

	mets := metrics.New()
	sessions := session.New(cacheClient, 0, cfg.Session.TTL)
	reconciler := account.New(users, mailer)
	controller := handshake.New(registry, sessions, oauth.NewFactory(), reconciler, mets)

	handler := httpserver.NewRouter(httpserver.Deps{
		Controller:   controller,
		Sessions:     sessions,
		Signer:       signer,
		Metrics:      mets.Handler(),
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.Secure,
	})

	srv := &nethttp.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
