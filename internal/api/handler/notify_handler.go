package handler

import (
    "errors"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/pkg/response"
)

var errInvalidPayload = errors.New("invalid payload")

// triggerRecord 数据库触发器信封里的 record
type triggerRecord struct {
    ID         string `json:"id"`
    UserID     string `json:"user_id"`
    Visibility string `json:"visibility"`
}

// notifyRequest 两种信封的标签联合：触发器式带 record，直连式平铺字段
type notifyRequest struct {
    Record *triggerRecord `json:"record"`

    AuthorID   string `json:"author_id"`
    VisitID    string `json:"visit_id"`
    Visibility string `json:"visibility"`
}

// normalize 把任一信封归一成规范事件；两种形状都不满足即无效
func (r *notifyRequest) normalize() (model.ActivityEvent, error) {
    if r.Record != nil {
        if r.Record.ID == "" || r.Record.UserID == "" {
            return model.ActivityEvent{}, errInvalidPayload
        }
        return model.ActivityEvent{
            VisitID:    r.Record.ID,
            AuthorID:   r.Record.UserID,
            Visibility: defaultVisibility(r.Record.Visibility),
        }, nil
    }
    if r.AuthorID == "" || r.VisitID == "" {
        return model.ActivityEvent{}, errInvalidPayload
    }
    return model.ActivityEvent{
        VisitID:    r.VisitID,
        AuthorID:   r.AuthorID,
        Visibility: defaultVisibility(r.Visibility),
    }, nil
}

func defaultVisibility(v string) string {
    if v == "" {
        return model.VisibilityEveryone
    }
    return v
}

// Notify 新拜访事件入口，向作者好友的设备扇出静默推送
// @Summary 拜访推送扇出
// @Tags 推送
// @Accept json
// @Produce json
// @Param request body notifyRequest true "触发事件（触发器式或直连式）"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/notify [post]
func (h *Handler) Notify(c *gin.Context) {
    var req notifyRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, "Invalid payload")
        return
    }
    event, err := req.normalize()
    if err != nil {
        response.BadRequest(c, "Invalid payload")
        return
    }

    res, err := h.fanout.Notify(c.Request.Context(), event)
    if err != nil {
        response.InternalError(c, err)
        return
    }

    fields := gin.H{}
    if res.Message != "" {
        fields["message"] = res.Message
    }
    if !res.Configured {
        fields["apns_configured"] = false
        response.Success(c, fields)
        return
    }
    if event.Notifiable() {
        fields["friends_count"] = res.FriendsCount
        fields["devices_count"] = res.DevicesCount
        fields["sent"] = res.Sent
        fields["failed"] = res.Failed
    }
    response.Success(c, fields)
}
