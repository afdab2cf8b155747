package apns

import "encoding/json"

// Payload 静默推送负载：只带 content-available，不含 alert/sound/badge，
// 客户端收到后在后台刷新好友拜访缓存
type Payload struct {
    APS      APS    `json:"aps"`
    Type     string `json:"type"`
    VisitID  string `json:"visit_id"`
    AuthorID string `json:"author_id"`
    Action   string `json:"action"`
}

type APS struct {
    ContentAvailable int `json:"content-available"`
}

// NewPayload 同一事件对所有接收者共享一份负载（内容与接收者无关）
func NewPayload(visitID, authorID string) Payload {
    return Payload{
        APS:      APS{ContentAvailable: 1},
        Type:     "widget_update",
        VisitID:  visitID,
        AuthorID: authorID,
        Action:   "refresh_friend_visits",
    }
}

// Encode 固定字段序，同一 (visit, author) 两次编码字节一致
func (p Payload) Encode() ([]byte, error) {
    return json.Marshal(p)
}
