// Package api is the development server: the REST surface that backend/rest talks to, backed by the local
// database and blob storage.
package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/pblog"
	common_routes "github.com/Salehmangrio/postbase/internal/routes"
	"github.com/Salehmangrio/postbase/internal/service"
)

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = append(c.AllowHeaders,
		api_common.ProjectHeader,
		api_common.SessionHeader,
		api_common.CorrelationHeader,
		api_common.DebugHeader,
	)
	c.ExposeHeaders = []string{api_common.CorrelationHeader, "Content-Disposition"}

	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}

	return c
}

// GetGinEngine builds the router with every route registered.
func GetGinEngine(dm *service.DependencyManager) *gin.Engine {
	root := dm.GetConfigRoot()
	logger := dm.GetLogger()

	server := api_common.GinForService(logger)
	server.Use(cors.New(corsConfig(root.Server.GetCorsOrigins())))

	server.GET("/ping", func(c *gin.Context) {
		c.PureJSON(http.StatusOK, gin.H{
			"service": "api",
			"message": "pong",
		})
	})

	server.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		dbOk := dm.GetDatabase().Ping(ctx)
		status := http.StatusOK
		if !dbOk {
			status = http.StatusServiceUnavailable
		}

		c.PureJSON(status, gin.H{
			"service": "api",
			"db":      dbOk,
			"ok":      dbOk,
		})
	})

	routesAccounts := common_routes.NewAccountsRoutes(
		dm.GetConfig(),
		dm.GetIdentity(),
		logger,
	)
	routesDocuments := common_routes.NewDocumentsRoutes(
		dm.GetConfig(),
		dm.GetServerDocuments(),
		logger,
	)
	routesFiles := common_routes.NewFilesRoutes(
		dm.GetConfig(),
		dm.GetBlobFiles(),
		logger,
	)

	api := server.Group("/v1")

	routesAccounts.Register(api)
	routesDocuments.Register(api)
	routesFiles.Register(api)

	return server
}

func GetGinServer(dm *service.DependencyManager) *http.Server {
	return &http.Server{
		Addr:    dm.GetConfigRoot().Server.GetBindAddress(),
		Handler: GetGinEngine(dm),
	}
}

// Serve runs the server until ctx is cancelled.
func Serve(ctx context.Context, cfg config.C) error {
	dm := service.NewDependencyManager("api", cfg)
	pblog.SetDefaultLog(dm.GetRootLogger())
	logger := dm.GetLogger()

	if !cfg.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	defer func() {
		if err := dm.Close(); err != nil {
			logger.Error("failed to close dependencies", "error", err)
		}
	}()

	if err := dm.AutoMigrateDatabase(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	server := GetGinServer(dm)
	logger.Info("running service", "addr", server.Addr)

	if err := api_common.RunServer(ctx, server, logger); err != nil {
		return err
	}

	logger.Info("API shutdown complete")
	return nil
}
