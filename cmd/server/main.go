package main

import (
    "context"
    "errors"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "golang.org/x/time/rate"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/config"
    "github.com/d60-Lab/visit-push/internal/api"
    "github.com/d60-Lab/visit-push/internal/api/handler"
    "github.com/d60-Lab/visit-push/internal/apns"
    "github.com/d60-Lab/visit-push/internal/cache"
    "github.com/d60-Lab/visit-push/internal/repository"
    "github.com/d60-Lab/visit-push/internal/service"
    "github.com/d60-Lab/visit-push/pkg/database"
    "github.com/d60-Lab/visit-push/pkg/logger"
    "github.com/d60-Lab/visit-push/pkg/telemetry"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
    cfg := must(config.Load())
    if err := logger.Init(cfg.Server.Mode); err != nil {
        panic(err)
    }
    defer logger.Sync()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Error("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }
    shutdownTracing := must(telemetry.Init(ctx, cfg.Telemetry.Endpoint, "visit-push"))
    defer func() { _ = shutdownTracing(context.Background()) }()

    // 存储可以缺席启动；届时 notify 请求按配置缺失报 500
    var (
        db          *gorm.DB
        friendRepo  repository.FriendRepository
        deviceRepo  repository.DeviceRepository
        publisher   *service.Publisher
    )
    if cfg.Database.DSN != "" {
        db = must(database.InitDB(cfg))
        friendRepo = repository.NewFriendRepository(db)
        deviceRepo = repository.NewDeviceRepository(db)
        publisher = service.NewPublisher(db)
    } else {
        logger.Warn("database not configured, notify requests will fail")
    }

    var friendCache *cache.FriendCache
    if cfg.Redis.Addr != "" {
        rdb := redis.NewClient(&redis.Options{
            Addr:     cfg.Redis.Addr,
            Password: cfg.Redis.Password,
            DB:       cfg.Redis.DB,
        })
        friendCache = cache.NewFriendCache(rdb, cfg.Redis.TTL)
    }

    // APNs 可以不配置；届时扇出返回 apns_configured=false，不投递
    var push service.Pusher
    if cfg.APNS.Configured() {
        tokens, err := apns.NewTokenSource(cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.PrivateKey)
        if err != nil {
            logger.Error("apns signing key invalid, push disabled", zap.Error(err))
        } else {
            push = apns.NewClient(
                apns.Host(cfg.APNS.Production),
                cfg.APNS.BundleID,
                tokens,
                rate.Limit(cfg.Fanout.RatePerSecond),
            )
        }
    } else {
        logger.Warn("apns credentials incomplete, push disabled")
    }

    fanout := service.NewFanoutService(friendRepo, deviceRepo, friendCache, push, cfg.Fanout.Platform, cfg.Fanout.Workers)

    if db != nil {
        worker := service.NewEventWorker(db, fanout, 2, cfg.Fanout.ClaimLimit, cfg.Fanout.PollInterval)
        stopWorker := worker.Start()
        defer func() { _ = stopWorker(context.Background()) }()
    }

    if cfg.Server.Mode == "release" {
        gin.SetMode(gin.ReleaseMode)
    }
    h := handler.New(fanout, publisher, deviceRepo)
    srv := &http.Server{Addr: cfg.Server.Addr, Handler: api.NewRouter(h)}

    go func() {
        logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server stopped", zap.Error(err))
            stop()
        }
    }()

    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Error("graceful shutdown failed", zap.Error(err))
    }
}
