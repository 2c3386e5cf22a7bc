package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neuroscreen/portal/internal/api"
	"github.com/neuroscreen/portal/internal/backend"
	"github.com/neuroscreen/portal/internal/config"
	"github.com/neuroscreen/portal/internal/gemini"
	"github.com/neuroscreen/portal/internal/metrics"
	"github.com/neuroscreen/portal/internal/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (default $NEUROSCREEN_CONFIG or "+config.DefaultPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openSessionStore(ctx, cfg.Session, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Printf("warning: failed to close session store: %v", cerr)
		}
	}()

	keys, err := middleware.DeriveKeys(cfg.Session.Secret)
	if err != nil {
		log.Fatalf("session keys: %v", err)
	}

	if cfg.Gemini.APIKey == "" {
		log.Printf("warning: NEUROSCREEN_GEMINI_API_KEY is not set; the AI assistant will report failures")
	}
	gen := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, &http.Client{Timeout: cfg.Gemini.Timeout})

	router, err := api.NewRouter(api.Config{
		Backend:   backend.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}),
		Generator: gen,
		Store:     store,
		Metrics:   metrics.NewMetrics(),
		Commit:    cfg.Server.Commit,
		BuildTime: cfg.Server.BuildTime,
		StaticDir: cfg.Server.StaticDir,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	go router.RunJanitor(ctx, 10*time.Minute, cfg.Session.TTL)

	mux := http.NewServeMux()
	router.Register(mux)

	sessions := middleware.NewSessionManager(store, keys.Session, cfg.Session.TTL, cfg.Session.SecureCookie)
	protect := middleware.CSRF(keys.CSRF, cfg.Session.SecureCookie)
	handler := middleware.NoStore(middleware.SecureHeaders(middleware.LocaleMiddleware(protect(sessions.WithSession(mux)))))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("NeuroScreen listening on %s (backend %s)", cfg.Server.Addr, cfg.Backend.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
