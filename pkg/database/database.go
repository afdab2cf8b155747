package database

import (
    "errors"
    "strings"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/config"
    "github.com/d60-Lab/visit-push/internal/model"
)

// ErrNotConfigured 未配置存储连接串
var ErrNotConfigured = errors.New("database credentials not configured")

// InitDB 初始化数据库连接并迁移表结构
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    dsn := strings.TrimSpace(cfg.Database.DSN)
    if dsn == "" {
        return nil, ErrNotConfigured
    }

    var dialector gorm.Dialector
    switch cfg.Database.Driver {
    case "sqlite":
        dialector = sqlite.Open(dsn)
    default:
        dialector = postgres.Open(dsn)
    }

    db, err := gorm.Open(dialector, &gorm.Config{})
    if err != nil {
        return nil, err
    }
    if err := db.AutoMigrate(
        &model.User{},
        &model.Friend{},
        &model.Device{},
        &model.Visit{},
        &model.VisitEvent{},
    ); err != nil {
        return nil, err
    }
    return db, nil
}
