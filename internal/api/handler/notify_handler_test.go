package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "sync"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/internal/apns"
    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/internal/repository"
    "github.com/d60-Lab/visit-push/internal/service"
)

type fakePusher struct {
    mu    sync.Mutex
    fail  map[string]bool
    calls int
}

func (f *fakePusher) Push(_ context.Context, token string, _ apns.Payload) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls++
    if f.fail[token] {
        return errors.New("rejected")
    }
    return nil
}

type fixture struct {
    db     *gorm.DB
    pusher *fakePusher
    router *gin.Engine
}

func newFixture(t *testing.T, pusher service.Pusher) fixture {
    t.Helper()
    gin.SetMode(gin.TestMode)

    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.User{}, &model.Friend{}, &model.Device{},
        &model.Visit{}, &model.VisitEvent{},
    ))

    friendRepo := repository.NewFriendRepository(db)
    deviceRepo := repository.NewDeviceRepository(db)
    fanout := service.NewFanoutService(friendRepo, deviceRepo, nil, pusher, model.PlatformIOS, 4)
    h := New(fanout, service.NewPublisher(db), deviceRepo)

    r := gin.New()
    r.POST("/api/v1/notify", h.Notify)
    r.POST("/api/v1/visits", h.PublishVisit)
    r.POST("/api/v1/devices", h.RegisterDevice)
    r.DELETE("/api/v1/devices", h.UnregisterDevice)

    fp, _ := pusher.(*fakePusher)
    return fixture{db: db, pusher: fp, router: r}
}

func (f fixture) post(t *testing.T, path, body string) (*httptest.ResponseRecorder, map[string]any) {
    t.Helper()
    w := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
    req.Header.Set("Content-Type", "application/json")
    f.router.ServeHTTP(w, req)

    var parsed map[string]any
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
    return w, parsed
}

func (f fixture) seedFriendWithDevice(t *testing.T, author, friend, token string) {
    t.Helper()
    ctx := context.Background()
    require.NoError(t, repository.NewFriendRepository(f.db).Create(ctx, author, friend))
    if token != "" {
        require.NoError(t, repository.NewDeviceRepository(f.db).Upsert(ctx, friend, model.PlatformIOS, token))
    }
}

func TestNotifyTriggerEnvelope(t *testing.T) {
    f := newFixture(t, &fakePusher{})
    f.seedFriendWithDevice(t, "author-1", "friend-1", "tok-1")

    w, body := f.post(t, "/api/v1/notify",
        `{"record":{"id":"visit-1","user_id":"author-1","visibility":"friends","place":"ignored"}}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.EqualValues(t, 1, body["friends_count"])
    require.EqualValues(t, 1, body["devices_count"])
    require.EqualValues(t, 1, body["sent"])
    require.EqualValues(t, 0, body["failed"])
}

func TestNotifyDirectEnvelopeDefaultsVisibility(t *testing.T) {
    f := newFixture(t, &fakePusher{})
    f.seedFriendWithDevice(t, "author-1", "friend-1", "tok-1")

    w, body := f.post(t, "/api/v1/notify", `{"author_id":"author-1","visit_id":"visit-1"}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.EqualValues(t, 1, body["sent"])
}

func TestNotifyPrivateVisit(t *testing.T) {
    f := newFixture(t, &fakePusher{})
    f.seedFriendWithDevice(t, "author-1", "friend-1", "tok-1")

    w, body := f.post(t, "/api/v1/notify",
        `{"record":{"id":"visit-1","user_id":"author-1","visibility":"private"}}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.NotEmpty(t, body["message"])
    require.NotContains(t, body, "friends_count")
    require.Zero(t, f.pusher.calls)
}

func TestNotifyInvalidPayload(t *testing.T) {
    f := newFixture(t, &fakePusher{})

    for _, payload := range []string{
        `{"foo":"bar"}`,
        `{"record":{"visibility":"everyone"}}`,
        `{"author_id":"a"}`,
        `not json`,
    } {
        w, body := f.post(t, "/api/v1/notify", payload)
        require.Equal(t, http.StatusBadRequest, w.Code, "payload: %s", payload)
        require.Equal(t, false, body["success"])
        require.Equal(t, "Invalid payload", body["error"])
    }
}

func TestNotifyAPNSNotConfigured(t *testing.T) {
    // push 为空即凭证不完整：成功返回但不投递
    f := newFixture(t, nil)
    f.seedFriendWithDevice(t, "author-1", "friend-1", "tok-1")

    w, body := f.post(t, "/api/v1/notify", `{"author_id":"author-1","visit_id":"visit-1"}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.Equal(t, false, body["apns_configured"])
    require.NotContains(t, body, "sent")
}

func TestNotifyZeroFriends(t *testing.T) {
    f := newFixture(t, &fakePusher{})

    w, body := f.post(t, "/api/v1/notify", `{"author_id":"loner","visit_id":"visit-1"}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.EqualValues(t, 0, body["friends_count"])
}

func TestNotifyFriendsWithoutDevices(t *testing.T) {
    f := newFixture(t, &fakePusher{})
    f.seedFriendWithDevice(t, "author-1", "friend-1", "")

    w, body := f.post(t, "/api/v1/notify", `{"author_id":"author-1","visit_id":"visit-1"}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.EqualValues(t, 1, body["friends_count"])
    require.EqualValues(t, 0, body["devices_count"])
    require.Zero(t, f.pusher.calls)
}

func TestNotifyPartialFailure(t *testing.T) {
    // 5 个好友，3 人有端点，其中 1 人两台设备；1 次投递被拒
    f := newFixture(t, &fakePusher{fail: map[string]bool{"tok-3": true}})
    f.seedFriendWithDevice(t, "author-1", "friend-1", "tok-1")
    f.seedFriendWithDevice(t, "author-1", "friend-2", "tok-2")
    f.seedFriendWithDevice(t, "author-1", "friend-3", "tok-3")
    f.seedFriendWithDevice(t, "author-1", "friend-4", "")
    f.seedFriendWithDevice(t, "author-1", "friend-5", "")
    require.NoError(t, repository.NewDeviceRepository(f.db).Upsert(
        context.Background(), "friend-1", model.PlatformIOS, "tok-1b"))

    w, body := f.post(t, "/api/v1/notify", `{"author_id":"author-1","visit_id":"visit-1"}`)

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, true, body["success"])
    require.EqualValues(t, 5, body["friends_count"])
    require.EqualValues(t, 4, body["devices_count"])
    require.EqualValues(t, 3, body["sent"])
    require.EqualValues(t, 1, body["failed"])
}

func TestNotifyStorageNotConfigured(t *testing.T) {
    gin.SetMode(gin.TestMode)
    fanout := service.NewFanoutService(nil, nil, nil, &fakePusher{}, model.PlatformIOS, 4)
    h := New(fanout, nil, nil)
    r := gin.New()
    r.POST("/api/v1/notify", h.Notify)

    w := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodPost, "/api/v1/notify",
        bytes.NewBufferString(`{"author_id":"a","visit_id":"v"}`))
    r.ServeHTTP(w, req)

    require.Equal(t, http.StatusInternalServerError, w.Code)
    var body map[string]any
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
    require.Equal(t, false, body["success"])
    require.NotEmpty(t, body["error"])
}
