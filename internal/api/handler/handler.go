package handler

import (
    "github.com/d60-Lab/visit-push/internal/repository"
    "github.com/d60-Lab/visit-push/internal/service"
)

// Handler HTTP 处理器集合
type Handler struct {
    fanout    *service.FanoutService
    publisher *service.Publisher
    devices   repository.DeviceRepository
}

func New(fanout *service.FanoutService, publisher *service.Publisher, devices repository.DeviceRepository) *Handler {
    return &Handler{fanout: fanout, publisher: publisher, devices: devices}
}
