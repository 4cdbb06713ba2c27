package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// GaugeHandler 量检具处理器
type GaugeHandler struct {
	svc *service.GaugeService
}

func NewGaugeHandler(svc *service.GaugeService) *GaugeHandler {
	return &GaugeHandler{svc: svc}
}

// List 获取量检具列表
func (h *GaugeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "site_id", "calibration_due")

	gauges, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(gauges, page, pageSize, total))
}

// Get 获取量检具详情（含校准历史）
func (h *GaugeHandler) Get(c *gin.Context) {
	gauge, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gauge)
}

// Create 创建量检具
func (h *GaugeHandler) Create(c *gin.Context) {
	var req service.CreateGaugeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	gauge, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, gauge)
}

// Update 更新量检具
func (h *GaugeHandler) Update(c *gin.Context) {
	var req service.UpdateGaugeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	gauge, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gauge)
}

// Delete 删除量检具
func (h *GaugeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换量检具启用状态
func (h *GaugeHandler) ToggleActive(c *gin.Context) {
	gauge, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gauge)
}

// RecordCalibration 记录一次校准
func (h *GaugeHandler) RecordCalibration(c *gin.Context) {
	var req service.RecordCalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	cal, err := h.svc.RecordCalibration(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, cal)
}
