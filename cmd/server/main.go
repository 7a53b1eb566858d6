package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FreePeak/cortex/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmcp/shopify-mcp-server/internal/cache"
	"github.com/shopmcp/shopify-mcp-server/internal/config"
	delivery "github.com/shopmcp/shopify-mcp-server/internal/delivery/mcp"
	"github.com/shopmcp/shopify-mcp-server/internal/instrumentation"
	"github.com/shopmcp/shopify-mcp-server/internal/logger"
	"github.com/shopmcp/shopify-mcp-server/internal/shopify"
	"github.com/shopmcp/shopify-mcp-server/internal/usecase"
)

const (
	serverName    = "Shopify MCP Server"
	serverVersion = "1.0.0"
)

func main() {
	// Best-effort .env load for local development.
	_ = godotenv.Load()

	// Parse command line flags
	transportMode := flag.String("t", "", "Transport mode (stdio or sse)")
	port := flag.Int("port", 0, "Server port for SSE mode")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags if provided
	if *transportMode != "" {
		cfg.TransportMode = *transportMode
	}
	if *port != 0 {
		cfg.ServerPort = *port
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(cfg.LogLevel)
	logger.Info("Starting %s for shop %s with %s transport", serverName, cfg.Shopify.ShopDomain, cfg.TransportMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := instrumentation.NewMetrics()

	client := shopify.NewClient(cfg.Shopify.ShopDomain, cfg.Shopify.AccessToken, cfg.Shopify.APIVersion)
	storeUseCase := usecase.NewStoreUseCase(instrumentation.WrapExecutor(client, metrics), shopify.NewComposer())

	dispatcherOpts := []delivery.DispatcherOption{delivery.WithMetrics(metrics)}
	if cfg.Cache.Enabled {
		store, err := buildCacheStore(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize cache: %v", err)
			os.Exit(1)
		}
		dispatcherOpts = append(dispatcherOpts, delivery.WithCache(store, cfg.Cache.TTL()))
		logger.Info("Tool-result cache enabled with TTL %s", cfg.Cache.TTL())
	}

	dispatcher := delivery.NewDispatcher(storeUseCase, dispatcherOpts...)

	mcpServer := server.NewMCPServer(serverName, serverVersion, log.New(os.Stderr, "", log.LstdFlags))

	registry := delivery.NewToolRegistry(mcpServer, dispatcher)
	if err := registry.RegisterAllTools(ctx); err != nil {
		logger.Error("Failed to register tools: %v", err)
		os.Exit(1)
	}

	switch cfg.TransportMode {
	case "stdio":
		logger.Info("Serving MCP over stdio")
		if err := mcpServer.ServeStdio(); err != nil {
			logger.Error("stdio server error: %v", err)
			os.Exit(1)
		}
	case "sse":
		startSSEServer(ctx, cfg, mcpServer)
	}
}

// buildCacheStore picks the Redis store when a URL is configured, falling
// back to the in-process store with a background sweeper.
func buildCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.RedisURL != "" {
		return cache.NewRedisStore(cfg.Cache.RedisURL)
	}
	store := cache.NewMemoryStore()
	store.StartSweeper(ctx, time.Minute)
	return store, nil
}

func startSSEServer(ctx context.Context, cfg *config.Config, mcpServer *server.MCPServer) {
	mcpServer.SetAddress(fmt.Sprintf(":%d", cfg.ServerPort))

	// Sidecar listener for health and metrics, kept off the MCP port.
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: router,
	}

	go func() {
		logger.Info("Metrics listening on :%d", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error: %v", err)
		}
	}()

	go func() {
		logger.Info("MCP server listening on :%d", cfg.ServerPort)
		if err := mcpServer.ServeHTTP(); err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	// Shutdown server gracefully
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := mcpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error: %v", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Metrics server shutdown error: %v", err)
	}

	logger.Info("Server stopped")
}
