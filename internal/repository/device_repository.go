package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/visit-push/internal/model"
)

type DeviceRepository interface {
    Upsert(ctx context.Context, ownerID, platform, token string) error
    Delete(ctx context.Context, ownerID, token string) error
    // ListByOwners 返回指定平台的注册端点；ownerIDs 为空时直接返回，不发查询
    ListByOwners(ctx context.Context, ownerIDs []string, platform string) ([]*model.Device, error)
}

type deviceRepository struct {
    db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository { return &deviceRepository{db: db} }

func (r *deviceRepository) Upsert(ctx context.Context, ownerID, platform, token string) error {
    d := &model.Device{ID: uuid.New().String(), OwnerID: ownerID, Platform: platform, Token: token}
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(d).Error
}

func (r *deviceRepository) Delete(ctx context.Context, ownerID, token string) error {
    return r.db.WithContext(ctx).
        Where("owner_id = ? AND token = ?", ownerID, token).
        Delete(&model.Device{}).Error
}

func (r *deviceRepository) ListByOwners(ctx context.Context, ownerIDs []string, platform string) ([]*model.Device, error) {
    if len(ownerIDs) == 0 {
        return nil, nil
    }
    var res []*model.Device
    err := r.db.WithContext(ctx).
        Where("owner_id IN ? AND platform = ?", ownerIDs, platform).
        Find(&res).Error
    return res, err
}
