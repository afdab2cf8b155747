package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/visit-push/internal/model"
    "github.com/d60-Lab/visit-push/internal/service"
    "github.com/d60-Lab/visit-push/pkg/response"
)

type registerDeviceRequest struct {
    UserID   string `json:"user_id" binding:"required"`
    Platform string `json:"platform"`
    Token    string `json:"token" binding:"required"`
}

// RegisterDevice 注册设备端点（重复注册幂等）
// @Summary 注册推送设备
// @Tags 设备
// @Accept json
// @Produce json
// @Param request body registerDeviceRequest true "设备信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
    var req registerDeviceRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if req.Platform == "" {
        req.Platform = model.PlatformIOS
    }
    if h.devices == nil {
        response.InternalError(c, service.ErrStorageNotConfigured)
        return
    }
    if err := h.devices.Upsert(c.Request.Context(), req.UserID, req.Platform, req.Token); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

type unregisterDeviceRequest struct {
    UserID string `json:"user_id" binding:"required"`
    Token  string `json:"token" binding:"required"`
}

// UnregisterDevice 注销设备端点
// @Summary 注销推送设备
// @Tags 设备
// @Accept json
// @Produce json
// @Param request body unregisterDeviceRequest true "设备信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/devices [delete]
func (h *Handler) UnregisterDevice(c *gin.Context) {
    var req unregisterDeviceRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if h.devices == nil {
        response.InternalError(c, service.ErrStorageNotConfigured)
        return
    }
    if err := h.devices.Delete(c.Request.Context(), req.UserID, req.Token); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}
