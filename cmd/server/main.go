package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	"github.com/Apurva-Raj-FF/bt-backend/internal/config"
	"github.com/Apurva-Raj-FF/bt-backend/internal/handler"
	infradb "github.com/Apurva-Raj-FF/bt-backend/internal/infrastructure/database"
	"github.com/Apurva-Raj-FF/bt-backend/internal/infrastructure/engine"
	"github.com/Apurva-Raj-FF/bt-backend/internal/router"
	"github.com/Apurva-Raj-FF/bt-backend/internal/usecase"
	dbpkg "github.com/Apurva-Raj-FF/bt-backend/pkg/database"
	"github.com/Apurva-Raj-FF/bt-backend/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "bt-backend",
	Short: "Backtest API server for portfolio strategy analytics",
	Long: `bt-backend is a high-performance HTTP API server built with the Hertz framework.
It runs the external backtest engine for portfolio strategies, serves their
computed performance, and manages user accounts and saved strategies.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("backtest API server starting...",
		"version", version,
		"config", cfgFile,
	)

	// Route Hertz framework logs through slog
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)

	// Initialize database
	dbClient, err := dbpkg.NewClient(cfg.Database, slog.Default())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("database connected successfully")

	// Initialize user components
	userRepo := infradb.NewUserRepository(dbClient)
	userUsecase := usecase.NewUserUsecase(userRepo, slog.Default())
	userHandler := handler.NewUserHandler(userUsecase, cfg.JWT.Secret, cfg.JWT.TokenTTL, slog.Default())

	// Initialize strategy components
	engineRunner := engine.NewRunner(cfg.Engine, slog.Default())
	strategyRepo := infradb.NewStrategyRepository(dbClient)
	strategyUsecase := usecase.NewStrategyUsecase(strategyRepo, engineRunner, slog.Default())
	strategyHandler := handler.NewStrategyHandler(strategyUsecase, slog.Default())

	healthHandler := handler.NewHealthHandler(dbClient)

	slog.Info("handlers initialized")

	// Create Hertz server with performance optimization
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.GetReadTimeout()),
		server.WithWriteTimeout(cfg.GetWriteTimeout()),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	// Setup routes
	router.Setup(h, userHandler, strategyHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	if err := dbpkg.Close(dbClient, slog.Default()); err != nil {
		slog.Error("failed to close database", "error", err)
	} else {
		slog.Info("database closed successfully")
	}

	slog.Info("server stopped gracefully")
}
