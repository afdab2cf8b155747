package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/visit-push/internal/model"
)

type FriendRepository interface {
    Create(ctx context.Context, userA, userB string) error
    Delete(ctx context.Context, userA, userB string) error
    // ListFriendIDs 返回 userID 的全部好友（命中边的任一侧），去重
    ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

type friendRepository struct {
    db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository { return &friendRepository{db: db} }

func (r *friendRepository) Create(ctx context.Context, userA, userB string) error {
    f := &model.Friend{ID: uuid.New().String(), UserAID: userA, UserBID: userB}
    // 幂等：重复加好友不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *friendRepository) Delete(ctx context.Context, userA, userB string) error {
    return r.db.WithContext(ctx).
        Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
            userA, userB, userB, userA).
        Delete(&model.Friend{}).Error
}

func (r *friendRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
    var edges []*model.Friend
    err := r.db.WithContext(ctx).
        Where("user_a_id = ? OR user_b_id = ?", userID, userID).
        Find(&edges).Error
    if err != nil {
        return nil, err
    }

    seen := make(map[string]struct{}, len(edges))
    ids := make([]string, 0, len(edges))
    for _, e := range edges {
        other := e.UserBID
        if e.UserBID == userID {
            other = e.UserAID
        }
        if other == userID {
            continue
        }
        if _, ok := seen[other]; ok {
            continue
        }
        seen[other] = struct{}{}
        ids = append(ids, other)
    }
    return ids, nil
}
