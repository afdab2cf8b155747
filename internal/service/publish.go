package service

import (
    "context"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/internal/model"
)

// Publisher 负责事务内写 visits + visit_events
type Publisher struct{ db *gorm.DB }

func NewPublisher(db *gorm.DB) *Publisher { return &Publisher{db: db} }

// Publish 在一个事务内落地 Visit 与待扇出事件
func (p *Publisher) Publish(ctx context.Context, authorID, visibility, payload string) (string, error) {
    if visibility == "" {
        visibility = model.VisibilityEveryone
    }
    visitID := uuid.New().String()
    now := time.Now()
    err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        visit := &model.Visit{ID: visitID, AuthorID: authorID, Visibility: visibility, Payload: payload, CreatedAt: now, UpdatedAt: now}
        if err := tx.Create(visit).Error; err != nil {
            return err
        }
        ev := &model.VisitEvent{ID: uuid.New().String(), VisitID: visitID, AuthorID: authorID, Visibility: visibility, CreatedAt: now, Status: "pending"}
        if err := tx.Create(ev).Error; err != nil {
            return err
        }
        return nil
    })
    if err != nil {
        return "", err
    }
    return visitID, nil
}
