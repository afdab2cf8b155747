package model

import "time"

// 设备平台
const (
    PlatformIOS     = "ios"
    PlatformAndroid = "android"
)

// Device 用户注册的推送端点
type Device struct {
    ID       string    `gorm:"primaryKey;type:varchar(36)"`
    OwnerID  string    `gorm:"type:varchar(36);index:idx_device_owner;index:idx_device_reg,unique;not null"`
    Platform string    `gorm:"type:varchar(16);index;index:idx_device_reg,unique;not null"`
    Token    string    `gorm:"type:varchar(255);not null;index:idx_device_reg,unique"`
    // idx_device_reg = (owner_id, platform, token)，同一设备重复注册幂等
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (Device) TableName() string { return "devices" }
