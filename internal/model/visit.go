package model

import "time"

// 可见性取值；private 是唯一拦截推送的值
const (
    VisibilityPrivate  = "private"
    VisibilityFriends  = "friends"
    VisibilityEveryone = "everyone"
)

// Visit 拜访记录（仅推送链路所需字段）
type Visit struct {
    ID         string    `gorm:"primaryKey;type:varchar(36)"`
    AuthorID   string    `gorm:"type:varchar(36);index:idx_visit_author;not null"`
    Visibility string    `gorm:"type:varchar(16);not null;default:everyone"`
    Payload    string    `gorm:"type:text"`
    CreatedAt  time.Time
    UpdatedAt  time.Time
}

func (Visit) TableName() string { return "visits" }

// ActivityEvent 规范化后的触发事件，扇出管道的统一入参
type ActivityEvent struct {
    VisitID    string
    AuthorID   string
    Visibility string
}

// Notifiable 仅 private 拦截，其余可见性均推送
func (e ActivityEvent) Notifiable() bool { return e.Visibility != VisibilityPrivate }
