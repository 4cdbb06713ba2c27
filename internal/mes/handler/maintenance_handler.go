package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// MaintenanceHandler 设备与维修单处理器
type MaintenanceHandler struct {
	svc *service.MaintenanceService
}

func NewMaintenanceHandler(svc *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

// ListEquipment 获取设备列表
func (h *MaintenanceHandler) ListEquipment(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "site_id")

	equipments, total, err := h.svc.ListEquipment(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(equipments, page, pageSize, total))
}

// GetEquipment 获取设备详情
func (h *MaintenanceHandler) GetEquipment(c *gin.Context) {
	equipment, err := h.svc.GetEquipment(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, equipment)
}

// CreateEquipment 创建设备
func (h *MaintenanceHandler) CreateEquipment(c *gin.Context) {
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	equipment, err := h.svc.CreateEquipment(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, equipment)
}

// UpdateEquipment 更新设备
func (h *MaintenanceHandler) UpdateEquipment(c *gin.Context) {
	var req service.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	equipment, err := h.svc.UpdateEquipment(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, equipment)
}

// DeleteEquipment 删除设备
func (h *MaintenanceHandler) DeleteEquipment(c *gin.Context) {
	if err := h.svc.DeleteEquipment(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleEquipmentActive 切换设备启用状态
func (h *MaintenanceHandler) ToggleEquipmentActive(c *gin.Context) {
	equipment, err := h.svc.ToggleEquipmentActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, equipment)
}

// ListOrders 获取维修单列表
func (h *MaintenanceHandler) ListOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "equipment_id", "status", "type")

	orders, total, err := h.svc.ListOrders(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(orders, page, pageSize, total))
}

// GetOrder 获取维修单详情
func (h *MaintenanceHandler) GetOrder(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// CreateOrder 创建维修单
func (h *MaintenanceHandler) CreateOrder(c *gin.Context) {
	var req service.CreateMaintenanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, order)
}

// UpdateOrder 更新维修单，状态只能沿OPEN→IN_PROGRESS→COMPLETED前进
func (h *MaintenanceHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateMaintenanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.UpdateOrder(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// DeleteOrder 删除维修单
func (h *MaintenanceHandler) DeleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
