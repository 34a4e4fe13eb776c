package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tmdb-mcp-server/internal/api/handlers"
	"tmdb-mcp-server/internal/api/middleware"
	"tmdb-mcp-server/internal/mcp/protocol"
	"tmdb-mcp-server/internal/mcp/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP listener
const ShutdownTimeout = 5 * time.Second

// SetupRouter configures and returns a Gin router with the MCP routes
func SetupRouter(dispatcher *server.Dispatcher, info protocol.ServerInfo, logger logrus.FieldLogger) *gin.Engine {
	r := gin.New()

	// Global middleware; also applied to unmatched routes so any OPTIONS gets a preflight answer
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(gin.Recovery())

	mcpHandler := handlers.NewMCPHandler(dispatcher, logger)
	healthHandler := handlers.NewHealthHandler(info)

	r.POST("/mcp", mcpHandler.Handle)
	r.GET("/health", healthHandler.Health)
	r.GET("/", healthHandler.Info)

	return r
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully
func Serve(ctx context.Context, addr string, handler http.Handler, logger logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("TMDB MCP Server running on http://%s", displayAddr(addr))
		logger.Infof("MCP endpoint available at http://%s/mcp", displayAddr(addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
