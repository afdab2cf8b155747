package repository

import (
    "context"
    "testing"

    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.User{}, &model.Friend{}, &model.Device{}))
    return db
}

func TestFriendListMatchesEitherPosition(t *testing.T) {
    db := setupTestDB(t)
    repo := NewFriendRepository(db)
    ctx := context.Background()

    // u1 出现在边的两侧都要被算作好友关系
    require.NoError(t, repo.Create(ctx, "u1", "u2"))
    require.NoError(t, repo.Create(ctx, "u3", "u1"))

    ids, err := repo.ListFriendIDs(ctx, "u1")
    require.NoError(t, err)
    require.ElementsMatch(t, []string{"u2", "u3"}, ids)
}

func TestFriendListDeduplicates(t *testing.T) {
    db := setupTestDB(t)
    repo := NewFriendRepository(db)
    ctx := context.Background()

    // 两个方向各存一条边也只算一个好友
    require.NoError(t, repo.Create(ctx, "u1", "u2"))
    require.NoError(t, repo.Create(ctx, "u2", "u1"))

    ids, err := repo.ListFriendIDs(ctx, "u1")
    require.NoError(t, err)
    require.Equal(t, []string{"u2"}, ids)
}

func TestFriendListEmpty(t *testing.T) {
    db := setupTestDB(t)
    repo := NewFriendRepository(db)

    ids, err := repo.ListFriendIDs(context.Background(), "nobody")
    require.NoError(t, err)
    require.Empty(t, ids)
}

func TestFriendCreateIdempotent(t *testing.T) {
    db := setupTestDB(t)
    repo := NewFriendRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Create(ctx, "u1", "u2"))
    require.NoError(t, repo.Create(ctx, "u1", "u2"))

    var cnt int64
    require.NoError(t, db.Model(&model.Friend{}).Count(&cnt).Error)
    require.EqualValues(t, 1, cnt)
}

func TestFriendDeleteEitherDirection(t *testing.T) {
    db := setupTestDB(t)
    repo := NewFriendRepository(db)
    ctx := context.Background()

    require.NoError(t, repo.Create(ctx, "u1", "u2"))
    require.NoError(t, repo.Delete(ctx, "u2", "u1"))

    ids, err := repo.ListFriendIDs(ctx, "u1")
    require.NoError(t, err)
    require.Empty(t, ids)
}
