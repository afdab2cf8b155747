package api

import (
    "net/http"

    "github.com/gin-contrib/gzip"
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-gonic/gin"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    _ "github.com/d60-Lab/visit-push/docs"
    "github.com/d60-Lab/visit-push/internal/api/handler"
)

// NewRouter 组装路由与中间件
func NewRouter(h *handler.Handler) *gin.Engine {
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    r.Use(otelgin.Middleware("visit-push"))
    r.Use(gzip.Gzip(gzip.DefaultCompression))

    r.GET("/healthz", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"status": "ok"})
    })
    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    v1 := r.Group("/api/v1")
    {
        v1.POST("/notify", h.Notify)
        v1.POST("/visits", h.PublishVisit)
        v1.POST("/devices", h.RegisterDevice)
        v1.DELETE("/devices", h.UnregisterDevice)
    }
    return r
}
