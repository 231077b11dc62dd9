package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vidsync/server/internal/controller"
	"github.com/vidsync/server/internal/library"
	conninmemory "github.com/vidsync/server/internal/repository/connection/inmemory"
	progressinmemory "github.com/vidsync/server/internal/repository/progress/inmemory"
	roominmemory "github.com/vidsync/server/internal/repository/room/inmemory"
	"github.com/vidsync/server/internal/service/room"
	"github.com/vidsync/server/pkg/ctxlogger"
)

type AppConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	MediaRoot   string `json:"media_root"`
	ChunkWindow int64  `json:"chunk_window"`
	LogLevel    string `json:"log_level"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MediaRoot == "" {
		return fmt.Errorf("media root must be set")
	}
	if cfg.ChunkWindow < 1 {
		return fmt.Errorf("chunk window must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	lib, err := library.New(cfg.MediaRoot, logger)
	if err != nil {
		return fmt.Errorf("failed to open media library: %w", err)
	}

	roomRepo := roominmemory.NewRepo()
	connRepo := conninmemory.NewRepo()
	progressRepo := progressinmemory.NewRepo()
	roomService := room.NewService(roomRepo, connRepo, progressRepo, logger)
	ctrl := controller.NewController(roomService, lib, &controller.Config{
		ChunkWindow: cfg.ChunkWindow,
	}, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: ctrl.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "media_root", lib.Root())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
