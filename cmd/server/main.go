package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/handler"
	"github.com/paisatrack/paisatrack/internal/observability"
	"github.com/paisatrack/paisatrack/internal/service"
	"github.com/paisatrack/paisatrack/internal/storage/sqlite"
	"github.com/paisatrack/paisatrack/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	metrics := observability.NewMetrics()

	svcs := handler.Services{
		Auth:         service.NewAuthService(authenticator, jwtManager),
		Splits:       service.NewSplitService(store),
		Groups:       service.NewGroupService(store),
		Transactions: service.NewTransactionService(store),
		Forecast:     service.NewForecastService(store, time.Now),
	}

	router := handler.NewRouter(svcs, jwtManager, metrics)

	// h2c allows HTTP/2 without TLS for clients behind a terminating proxy.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
