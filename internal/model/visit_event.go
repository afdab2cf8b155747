package model

import "time"

// VisitEvent 拜访发布事件（outbox，供异步推送扇出消费）
type VisitEvent struct {
    ID          string    `gorm:"primaryKey;type:varchar(36)"`
    VisitID     string    `gorm:"type:varchar(36);uniqueIndex"`
    AuthorID    string    `gorm:"type:varchar(36);index:idx_visit_event_author"`
    Visibility  string    `gorm:"type:varchar(16)"`
    CreatedAt   time.Time `gorm:"index"`
    Status      string    `gorm:"type:varchar(16);index"` // pending, processing, done
    ProcessedAt *time.Time
    SentCount   int64
    FailedCount int64
}

func (VisitEvent) TableName() string { return "visit_events" }
