package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/visit-push/internal/service"
    "github.com/d60-Lab/visit-push/pkg/response"
)

type publishVisitRequest struct {
    AuthorID   string `json:"author_id" binding:"required"`
    Visibility string `json:"visibility"`
    Payload    string `json:"payload"`
}

// PublishVisit 发布拜访并写入待扇出事件（异步推送）
// @Summary 发布拜访
// @Tags 拜访
// @Accept json
// @Produce json
// @Param request body publishVisitRequest true "拜访内容"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/visits [post]
func (h *Handler) PublishVisit(c *gin.Context) {
    var req publishVisitRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if h.publisher == nil {
        response.InternalError(c, service.ErrStorageNotConfigured)
        return
    }
    visitID, err := h.publisher.Publish(c.Request.Context(), req.AuthorID, req.Visibility, req.Payload)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"visit_id": visitID})
}
