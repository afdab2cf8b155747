package service

import (
    "context"
    "time"

    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/pkg/logger"
)

// EventWorker 从 visit_events 拉取 pending 事件并执行推送扇出
type EventWorker struct {
    db           *gorm.DB
    fanout       *FanoutService
    claimLimit   int
    pollInterval time.Duration
    workers      int
}

func NewEventWorker(db *gorm.DB, fanout *FanoutService, workers, claimLimit int, pollInterval time.Duration) *EventWorker {
    if workers <= 0 {
        workers = 2
    }
    if claimLimit <= 0 {
        claimLimit = 128
    }
    if pollInterval <= 0 {
        pollInterval = 50 * time.Millisecond
    }
    return &EventWorker{db: db, fanout: fanout, workers: workers, claimLimit: claimLimit, pollInterval: pollInterval}
}

// Start 启动若干 worker 轮询处理事件；返回停止函数。
func (w *EventWorker) Start() func(context.Context) error {
    stop := make(chan struct{})
    for i := 0; i < w.workers; i++ {
        go w.loop(stop)
    }
    return func(ctx context.Context) error { close(stop); return nil }
}

func (w *EventWorker) loop(stop <-chan struct{}) {
    ticker := time.NewTicker(w.pollInterval)
    defer ticker.Stop()
    for {
        select {
        case <-stop:
            return
        case <-ticker.C:
            if err := w.ProcessOnce(context.Background()); err != nil {
                logger.Error("visit event batch failed", zap.Error(err))
            }
        }
    }
}

// ProcessOnce claim 一批 pending 事件并逐个扇出
func (w *EventWorker) ProcessOnce(ctx context.Context) error {
    type ev struct {
        ID         string
        VisitID    string
        AuthorID   string
        Visibility string
    }
    var batch []ev
    err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        q := `
            SELECT id, visit_id, author_id, visibility
            FROM visit_events
            WHERE status = 'pending'
            ORDER BY created_at
            LIMIT ?`
        if tx.Dialector.Name() == "postgres" {
            q += `
            FOR UPDATE SKIP LOCKED`
        }
        if err := tx.Raw(q, w.claimLimit).Scan(&batch).Error; err != nil {
            return err
        }
        if len(batch) == 0 {
            return nil
        }
        ids := make([]string, len(batch))
        for i, b := range batch {
            ids[i] = b.ID
        }
        return tx.Model(&model.VisitEvent{}).Where("id IN ?", ids).Update("status", "processing").Error
    })
    if err != nil {
        return err
    }

    for _, b := range batch {
        res, err := w.fanout.Notify(ctx, model.ActivityEvent{
            VisitID:    b.VisitID,
            AuthorID:   b.AuthorID,
            Visibility: b.Visibility,
        })
        if err != nil {
            logger.Error("visit event fanout failed", zap.String("event", b.ID), zap.Error(err))
            continue
        }
        now := time.Now()
        _ = w.db.WithContext(ctx).Model(&model.VisitEvent{}).
            Where("id = ?", b.ID).
            Updates(map[string]any{
                "status":       "done",
                "processed_at": now,
                "sent_count":   int64(res.Sent),
                "failed_count": int64(res.Failed),
            }).Error
    }
    return nil
}
