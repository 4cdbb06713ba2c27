package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// InspectionHandler 检验单与改进措施处理器
type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// List 获取检验单列表
func (h *InspectionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "type", "result", "work_order_id")

	inspections, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(inspections, page, pageSize, total))
}

// Get 获取检验单详情
func (h *InspectionHandler) Get(c *gin.Context) {
	inspection, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, inspection)
}

// Create 创建检验单
func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	inspection, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, inspection)
}

// Update 更新检验单
func (h *InspectionHandler) Update(c *gin.Context) {
	var req service.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	inspection, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, inspection)
}

// Delete 删除检验单
func (h *InspectionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ListActions 获取检验单下的改进措施
func (h *InspectionHandler) ListActions(c *gin.Context) {
	actions, err := h.svc.ListActions(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": actions})
}

// CreateAction 创建改进措施
func (h *InspectionHandler) CreateAction(c *gin.Context) {
	var req service.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	action, err := h.svc.CreateAction(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, action)
}

// UpdateAction 更新改进措施，状态只能沿OPEN→IN_PROGRESS→COMPLETED前进
func (h *InspectionHandler) UpdateAction(c *gin.Context) {
	var req service.UpdateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	action, err := h.svc.UpdateAction(c.Request.Context(), GetTenantID(c), c.Param("id"), c.Param("actionId"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, action)
}

// DeleteAction 删除改进措施
func (h *InspectionHandler) DeleteAction(c *gin.Context) {
	if err := h.svc.DeleteAction(c.Request.Context(), GetTenantID(c), c.Param("id"), c.Param("actionId")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
