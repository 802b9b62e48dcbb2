package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	ServerName    = "surrealmcp"
	ServerVersion = "1.0.0"
)

// Server wires the MCP server, the database connection and the rate
// limiter together. One Server handles one transport session over stdio,
// or any number of concurrent clients over HTTP.
type Server struct {
	cfg       *Config
	conn      Conn
	limiter   *RateLimiter
	logger    *zap.Logger
	mcpServer *mcp.Server
	connID    string
	queryID   atomic.Uint64
}

func NewServer(cfg *Config, conn Conn, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		conn:    conn,
		limiter: NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
		logger:  logger,
		connID:  GenerateConnectionID(),
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Instructions: instructionsText,
	})
	s.registerTools()
	s.registerResources()
	return s
}

// RunStdio serves a single MCP session over stdin/stdout. The rate
// limiter does not apply here: a stdio session has exactly one local
// client.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("serving over stdio", zap.String("connection_id", s.connID))
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable MCP endpoint behind the rate limiter,
// plus health and metrics endpoints.
func (s *Server) RunHTTP(ctx context.Context) error {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", s.limiter.Middleware(streamable))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    s.cfg.BindAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving over http",
			zap.String("connection_id", s.connID),
			zap.String("bind_address", s.cfg.BindAddress),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Run selects the transport from the configuration.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.BindAddress != "" {
		return s.RunHTTP(ctx)
	}
	return s.RunStdio(ctx)
}
