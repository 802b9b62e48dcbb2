package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	conn, err := Connect(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to SurrealDB", zap.Error(err))
		os.Exit(1)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if version, err := conn.Version(ctx); err != nil {
		logger.Warn("could not determine server version", zap.Error(err))
	} else {
		logger.Info("connected to SurrealDB", zap.String("version", version))
	}

	server := NewServer(cfg, conn, logger)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server shutdown gracefully")
}

// newLogger builds the process logger. Output always goes to stderr:
// in stdio mode stdout belongs to the MCP protocol.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}
