// Package httpapi exposes the file service over HTTP with gin.
//
// The surface is small and fixed: five file routes under /api/files plus a
// health probe. Every file route passes wallet validation; routes addressing
// a single file also pass ownership verification.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/server/services"
)

type Router struct {
	engine *gin.Engine
	log    logging.Logger
	files  *services.FileService
}

func NewRouter(log logging.Logger, files *services.FileService) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{engine: engine, log: log, files: files}

	engine.Use(gin.Recovery())
	engine.Use(r.requestLogger())

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	files := api.Group("/files")
	files.Use(r.walletValidation())
	{
		files.POST("/upload", r.upload)
		files.GET("", r.list)

		owned := files.Group("/:fileId")
		owned.Use(r.verifyOwnership())
		{
			owned.GET("/encrypted", r.getEncrypted)
			owned.PUT("", r.update)
			owned.DELETE("", r.remove)
		}
	}
}

func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// Engine exposes the underlying gin engine for http.Server and tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
