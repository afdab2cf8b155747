package main

import (
    "context"
    "crypto/ecdsa"
    "crypto/elliptic"
    "crypto/rand"
    "crypto/x509"
    "encoding/pem"
    "fmt"
    "math"
    "net/http"
    "net/http/httptest"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/google/uuid"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/visit-push/internal/apns"
    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/internal/repository"
    "github.com/d60-Lab/visit-push/internal/service"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func main() {
    db := must(gorm.Open(sqlite.Open(":memory:"), &gorm.Config{}))
    if err := db.AutoMigrate(&model.User{}, &model.Friend{}, &model.Device{}); err != nil { panic(err) }

    FRIENDS := 1000
    if s := os.Getenv("FRIENDS"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { FRIENDS = n }
    }
    REPEAT := 20
    if s := os.Getenv("REPEAT"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { REPEAT = n }
    }
    WORKERS := 32
    if s := os.Getenv("WORKERS"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { WORKERS = n }
    }

    friendRepo := repository.NewFriendRepository(db)
    deviceRepo := repository.NewDeviceRepository(db)
    ctx := context.Background()

    // seed: author u0 with FRIENDS friends, one ios device each
    author := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
    _ = db.Create(&author).Error
    for i := 1; i <= FRIENDS; i++ {
        uid := fmt.Sprintf("u%v", i)
        _ = db.Create(&model.User{ID: uid, Username: uid, Email: uid + "@example.com", Password: "p"}).Error
        _ = friendRepo.Create(ctx, author.ID, uid)
        _ = deviceRepo.Upsert(ctx, uid, model.PlatformIOS, uuid.New().String())
    }

    // stub gateway: always 200
    gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
    }))
    defer gateway.Close()

    key := must(ecdsa.GenerateKey(elliptic.P256(), rand.Reader))
    der := must(x509.MarshalPKCS8PrivateKey(key))
    keyPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
    tokens := must(apns.NewTokenSource("BENCHKEY01", "BENCHTEAM0", keyPEM))
    client := apns.NewClient(gateway.URL, "com.example.visits", tokens, 0)

    fanout := service.NewFanoutService(friendRepo, deviceRepo, nil, client, model.PlatformIOS, WORKERS)

    lats := make([]time.Duration, 0, REPEAT)
    var sent, failed int
    for i := 0; i < REPEAT; i++ {
        st := time.Now()
        res := must(fanout.Notify(ctx, model.ActivityEvent{
            VisitID:    uuid.New().String(),
            AuthorID:   author.ID,
            Visibility: model.VisibilityEveryone,
        }))
        lats = append(lats, time.Since(st))
        sent += res.Sent
        failed += res.Failed
    }

    var sum time.Duration
    for _, d := range lats { sum += d }
    fmt.Printf("FRIENDS=%d REPEAT=%d WORKERS=%d\n", FRIENDS, REPEAT, WORKERS)
    fmt.Printf("sent=%d failed=%d\n", sent, failed)
    fmt.Printf("fanout: avg=%v p95=%v p99=%v\n", sum/time.Duration(len(lats)), pct(lats, 0.95), pct(lats, 0.99))
}
