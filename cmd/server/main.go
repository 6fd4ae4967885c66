package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/adk/model"

	"github.com/PKM100/mnemocyte-sub001/internal/config"
	"github.com/PKM100/mnemocyte-sub001/internal/handler"
	"github.com/PKM100/mnemocyte-sub001/internal/memory"
	"github.com/PKM100/mnemocyte-sub001/internal/models"
	"github.com/PKM100/mnemocyte-sub001/internal/storage"
	"github.com/PKM100/mnemocyte-sub001/internal/turn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var (
		characters    handler.CharacterStore
		conversations handler.ConversationStore
		messages      handler.MessageStore

		engineCharacters    turn.CharacterRepo
		engineConversations turn.ConversationRepo
		engineMessages      turn.MessageRepo
		recaller            turn.Recaller
		memoryWriter        handler.MemoryWriter
	)

	if cfg.DatabaseURL != "" {
		store, err := storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.AutoMigrate(); err != nil {
			slog.Error("failed to migrate schema", "error", err)
			os.Exit(1)
		}

		characters = store.Characters
		conversations = store.Conversations
		messages = store.Messages
		engineCharacters = store.Characters
		engineConversations = store.Conversations
		engineMessages = store.Messages

		if cfg.GoogleAPIKey != "" {
			embedder, err := memory.NewEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
			if err != nil {
				slog.Warn("failed to initialize embedder, memory recall disabled", "error", err)
			} else {
				service := memory.NewService(embedder, store.Memories, cfg.TopK, cfg.SimilarityThreshold)
				recaller = service
				memoryWriter = service
				slog.Info("memory recall enabled", "model", cfg.EmbeddingModel)
			}
		}
		slog.Info("using postgres store")
	} else {
		mem := storage.NewMemStore()
		characters = mem.Characters
		conversations = mem.Conversations
		messages = mem.Messages
		engineCharacters = mem.Characters
		engineConversations = mem.Conversations
		engineMessages = mem.Messages
		slog.Info("DATABASE_URL not set, using in-memory store")
	}

	var backend model.LLM
	if cfg.Provider == config.ProviderOpenAI {
		backend, err = models.NewOpenAIModel(cfg.LLMModel, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			slog.Warn("failed to initialize backend, using template replies", "error", err)
		} else {
			slog.Info("generation backend enabled", "model", cfg.LLMModel)
		}
	} else {
		slog.Info("no generation backend configured, using template replies")
	}

	engine := turn.NewEngine(turn.Config{
		Characters:     engineCharacters,
		Conversations:  engineConversations,
		Messages:       engineMessages,
		Recaller:       recaller,
		Backend:        backend,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		BackendTimeout: cfg.BackendTimeout,
		HistoryLimit:   cfg.HistoryLimit,
	})

	router := handler.NewRouter(characters, conversations, messages, engine, memoryWriter)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("server listening", "addr", cfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
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
