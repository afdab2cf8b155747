package apns

import (
    "bytes"
    "context"
    "fmt"
    "io"
    "net/http"
    "time"

    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/visit-push/pkg/logger"
)

const (
    hostProduction = "https://api.push.apple.com"
    hostSandbox    = "https://api.sandbox.push.apple.com"
)

// Host 按环境选择网关地址
func Host(production bool) string {
    if production {
        return hostProduction
    }
    return hostSandbox
}

// Client 单设备投递客户端；静默推送必须 background + 低优先级
type Client struct {
    host    string
    topic   string
    tokens  *TokenSource
    client  *http.Client
    limiter *rate.Limiter
}

// NewClient limit <= 0 表示不限速
func NewClient(host, topic string, tokens *TokenSource, limit rate.Limit) *Client {
    var limiter *rate.Limiter
    if limit > 0 {
        limiter = rate.NewLimiter(limit, int(limit))
    }
    return &Client{
        host:    host,
        topic:   topic,
        tokens:  tokens,
        client:  &http.Client{Timeout: 10 * time.Second},
        limiter: limiter,
    }
}

// Push 向单个设备投递一次，至多一次，不重试。
// 网关拒绝与传输故障都折叠为 error，由上层计入 failed
func (c *Client) Push(ctx context.Context, deviceToken string, payload Payload) error {
    bearer, err := c.tokens.Bearer()
    if err != nil {
        return err
    }

    body, err := payload.Encode()
    if err != nil {
        return err
    }

    if c.limiter != nil {
        if err := c.limiter.Wait(ctx); err != nil {
            return err
        }
    }

    url := c.host + "/3/device/" + deviceToken
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
    if err != nil {
        return err
    }
    req.Header.Set("authorization", "bearer "+bearer)
    req.Header.Set("apns-topic", c.topic)
    req.Header.Set("apns-push-type", "background")
    req.Header.Set("apns-priority", "5")
    req.Header.Set("content-type", "application/json")

    resp, err := c.client.Do(req)
    if err != nil {
        logger.Warn("apns transport error",
            zap.String("device", truncateToken(deviceToken)),
            zap.Error(err))
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
        logger.Warn("apns rejected push",
            zap.Int("status", resp.StatusCode),
            zap.String("device", truncateToken(deviceToken)),
            zap.ByteString("body", detail))
        return fmt.Errorf("apns: status %d", resp.StatusCode)
    }
    return nil
}

// truncateToken 日志里只留设备标识前缀
func truncateToken(token string) string {
    if len(token) <= 8 {
        return token
    }
    return token[:8] + "..."
}
