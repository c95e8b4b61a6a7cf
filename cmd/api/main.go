package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/config"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/handler"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/completion"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/conversation"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/training"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	completions := newCompletionClient(ctx, cfg)
	trainings := newTrainingClient(cfg)

	store := conversation.NewStore()
	dispatcher := conversation.NewDispatcher(store, conversation.NewKeywordClassifier(), completions, trainings)

	router := handler.NewRouter(dispatcher, store)

	startServer(ctx, cfg.Server, router)
}

// newCompletionClient prefers the Ark chat model when credentials are
// present, falls back to the plain HTTP completer, and runs without a
// completion backend otherwise (free-form questions then get the fixed
// fallback reply).
func newCompletionClient(ctx context.Context, cfg *config.Config) completion.Client {
	if cfg.Ark.Enabled() {
		client, err := completion.NewArkClient(ctx, cfg.Ark)
		if err != nil {
			log.Printf("warning: failed to initialize ark completion backend: %v", err)
		} else {
			log.Println("completion backend: ark chat model")
			return client
		}
	}

	if cfg.Completion.Enabled() {
		log.Println("completion backend: http")
		return completion.NewHTTPClient(cfg.Completion.BaseURL, cfg.Completion.APIKey, cfg.Completion.MaxTokens, cfg.Completion.Timeout)
	}

	log.Println("completion backend not configured, continuing without free-form answers")
	return nil
}

func newTrainingClient(cfg *config.Config) training.Client {
	if !cfg.HR.Enabled() {
		log.Println("hr system not configured, training lookups will return empty results")
		return nil
	}
	log.Println("hr training lookup enabled")
	return training.NewHTTPClient(cfg.HR.BaseURL, cfg.HR.Token, cfg.HR.Timeout)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("employee chatbot backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
