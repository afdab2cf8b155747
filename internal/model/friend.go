package model

import "time"

// Friend 好友关系（无向边，A/B 位置等价）
type Friend struct {
    ID      string    `gorm:"primaryKey;type:varchar(36)"`
    UserAID string    `gorm:"type:varchar(36);index:idx_friend_a;index:idx_friend_pair,unique;not null"`
    UserBID string    `gorm:"type:varchar(36);not null;index:idx_friend_b;index:idx_friend_pair,unique"`
    // 复合唯一键，避免重复加好友
    // idx_friend_pair = (user_a_id, user_b_id)
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (Friend) TableName() string { return "friendships" }
