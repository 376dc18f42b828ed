package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"

	synchandler "github.com/drivelinehq/driveline/internal/server/handlers/sync"
	"github.com/drivelinehq/driveline/internal/version"
)

func SetupRoutes(svc *Services) http.Handler {
	r := gin.New()

	syncH := synchandler.New(svc.Manager, svc.Ingest)

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	// provider callbacks
	r.POST("/webhook/storage/:ownerId", syncH.StorageWebhook)
	r.POST("/webhook/chat", syncH.ChatWebhook)

	// sync operations
	syncGroup := r.Group("/sync")
	{
		syncGroup.GET("/status/:ownerId", syncH.Status)
		syncGroup.POST("/force/:ownerId", syncH.ForceSync)
		syncGroup.POST("/register/:ownerId", syncH.Register)
	}

	v1 := r.Group("/api/v1")
	{
		// websocket event feed
		v1.GET("/events", svc.Feed.WebsocketHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.DetailedWithApp())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
