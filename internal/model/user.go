package model

import "time"

// User 用户（推送链路只依赖 ID，其余字段供基准与测试造数）
type User struct {
    ID        string `gorm:"primaryKey;type:varchar(36)"`
    Username  string `gorm:"type:varchar(64);uniqueIndex;not null"`
    Email     string `gorm:"type:varchar(128);uniqueIndex;not null"`
    Password  string `gorm:"type:varchar(128);not null"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
