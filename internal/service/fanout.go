package service

import (
    "context"
    "errors"
    "sync"
    "sync/atomic"

    "go.uber.org/zap"

    "github.com/d60-Lab/visit-push/internal/apns"
    "github.com/d60-Lab/visit-push/internal/cache"
    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/internal/repository"
    "github.com/d60-Lab/visit-push/pkg/logger"
)

// ErrStorageNotConfigured 存储凭证缺失，请求级致命错误
var ErrStorageNotConfigured = errors.New("storage credentials not configured")

// Pusher 单设备投递；*apns.Client 实现之
type Pusher interface {
    Push(ctx context.Context, deviceToken string, payload apns.Payload) error
}

// Result 一次扇出的聚合结果；Sent + Failed == DevicesCount 恒成立
type Result struct {
    FriendsCount int
    DevicesCount int
    Sent         int
    Failed       int
    Configured   bool
    Message      string
}

// FanoutService 扇出编排：可见性门控 → 凭证检查 → 好友解析 →
// 端点解析 → 并发投递 → 聚合
type FanoutService struct {
    friends  repository.FriendRepository
    devices  repository.DeviceRepository
    cache    *cache.FriendCache // 可空
    push     Pusher             // 空表示 APNs 未配置
    platform string
    workers  int
}

func NewFanoutService(
    friends repository.FriendRepository,
    devices repository.DeviceRepository,
    friendCache *cache.FriendCache,
    push Pusher,
    platform string,
    workers int,
) *FanoutService {
    if platform == "" {
        platform = model.PlatformIOS
    }
    if workers <= 0 {
        workers = 8
    }
    return &FanoutService{
        friends:  friends,
        devices:  devices,
        cache:    friendCache,
        push:     push,
        platform: platform,
        workers:  workers,
    }
}

// Notify 处理一个规范化事件，按序短路：
// private 拦截、APNs 未配置、零好友、零设备均为正常结果而非错误
func (s *FanoutService) Notify(ctx context.Context, event model.ActivityEvent) (*Result, error) {
    if s.friends == nil || s.devices == nil {
        return nil, ErrStorageNotConfigured
    }

    if !event.Notifiable() {
        return &Result{Configured: true, Message: "visit is private, no notifications sent"}, nil
    }

    if s.push == nil {
        return &Result{Message: "APNs credentials not configured"}, nil
    }

    friendIDs := s.resolveFriends(ctx, event.AuthorID)
    if len(friendIDs) == 0 {
        return &Result{Configured: true, Message: "no friends to notify"}, nil
    }

    devices, err := s.devices.ListByOwners(ctx, friendIDs, s.platform)
    if err != nil {
        // 软失败：端点存储不可达时放弃本次通知，不影响调用方
        logger.Warn("device lookup failed", zap.String("author", event.AuthorID), zap.Error(err))
        devices = nil
    }
    if len(devices) == 0 {
        return &Result{
            FriendsCount: len(friendIDs),
            Configured:   true,
            Message:      "no registered devices",
        }, nil
    }

    payload := apns.NewPayload(event.VisitID, event.AuthorID)
    sent, failed := s.dispatch(ctx, devices, payload)

    return &Result{
        FriendsCount: len(friendIDs),
        DevicesCount: len(devices),
        Sent:         sent,
        Failed:       failed,
        Configured:   true,
    }, nil
}

// resolveFriends 缓存优先；图存储故障按零好友处理（记日志，不上抛）
func (s *FanoutService) resolveFriends(ctx context.Context, authorID string) []string {
    if s.cache != nil {
        if ids, ok := s.cache.Get(ctx, authorID); ok {
            return ids
        }
    }
    ids, err := s.friends.ListFriendIDs(ctx, authorID)
    if err != nil {
        logger.Warn("friend lookup failed", zap.String("author", authorID), zap.Error(err))
        return nil
    }
    if s.cache != nil {
        s.cache.Set(ctx, authorID, ids)
    }
    return ids
}

// dispatch 固定大小 worker 池并发投递；单设备失败不影响其余设备，
// 等全部落定后才返回
func (s *FanoutService) dispatch(ctx context.Context, devices []*model.Device, payload apns.Payload) (sent, failed int) {
    workers := s.workers
    if workers > len(devices) {
        workers = len(devices)
    }

    jobs := make(chan *model.Device)
    var sentN, failedN atomic.Int64
    var wg sync.WaitGroup
    wg.Add(workers)
    for i := 0; i < workers; i++ {
        go func() {
            defer wg.Done()
            for d := range jobs {
                if err := s.push.Push(ctx, d.Token, payload); err != nil {
                    failedN.Add(1)
                    continue
                }
                sentN.Add(1)
            }
        }()
    }
    for _, d := range devices {
        jobs <- d
    }
    close(jobs)
    wg.Wait()

    return int(sentN.Load()), int(failedN.Load())
}
