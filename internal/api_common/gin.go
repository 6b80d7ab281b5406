package api_common

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pblog"
)

const CorrelationHeader = "X-Correlation-Id"

// GinForService creates an engine that recovers from panics, tags every request with a correlation id and logs
// each request through logger.
func GinForService(logger *slog.Logger) *gin.Engine {
	logger = pblog.OrNoop(logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), correlationMiddleware(), requestLogMiddleware(logger))

	return engine
}

func correlationMiddleware() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		if cid := gctx.GetHeader(CorrelationHeader); cid != "" {
			ctx = pbctx.WithCorrelationID(ctx, cid)
		} else {
			ctx = pbctx.EnsureCorrelationID(ctx)
		}

		gctx.Request = gctx.Request.WithContext(ctx)
		gctx.Header(CorrelationHeader, pbctx.CorrelationID(ctx))
		gctx.Next()
	}
}

func requestLogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()
		gctx.Next()

		level := slog.LevelInfo
		if gctx.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		pblog.NewBuilder(logger).
			WithCtx(gctx.Request.Context()).
			Build().
			Log(gctx.Request.Context(), level, "request",
				"method", gctx.Request.Method,
				"path", gctx.Request.URL.Path,
				"status", gctx.Writer.Status(),
				"latency", time.Since(start),
				"client_ip", gctx.ClientIP(),
			)
	}
}

// RunServer serves until ctx is cancelled, then shuts the server down gracefully.
func RunServer(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	logger = pblog.OrNoop(logger)
	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	logger.Info("server exited")
	return nil
}
