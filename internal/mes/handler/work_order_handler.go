package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// WorkOrderHandler 工单处理器
type WorkOrderHandler struct {
	svc *service.WorkOrderService
}

func NewWorkOrderHandler(svc *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc}
}

// List 获取工单列表
func (h *WorkOrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "status", "product_id", "site_id")

	orders, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(orders, page, pageSize, total))
}

// Get 获取工单详情
func (h *WorkOrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// Create 创建工单
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, order)
}

// Update 更新工单计划字段
func (h *WorkOrderHandler) Update(c *gin.Context) {
	var req service.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	order, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// Delete 删除工单
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// Ready 工单下发
func (h *WorkOrderHandler) Ready(c *gin.Context) {
	order, err := h.svc.Ready(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// Start 工单开工
func (h *WorkOrderHandler) Start(c *gin.Context) {
	order, err := h.svc.Start(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// Complete 工单完工
func (h *WorkOrderHandler) Complete(c *gin.Context) {
	order, err := h.svc.Complete(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// Cancel 工单取消
func (h *WorkOrderHandler) Cancel(c *gin.Context) {
	order, err := h.svc.Cancel(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, order)
}

// WorkResultHandler 报工处理器
type WorkResultHandler struct {
	svc *service.WorkResultService
}

func NewWorkResultHandler(svc *service.WorkResultService) *WorkResultHandler {
	return &WorkResultHandler{svc: svc}
}

// List 获取报工记录列表
func (h *WorkResultHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "work_order_id", "worker_id")

	results, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(results, page, pageSize, total))
}

// Get 获取报工记录详情
func (h *WorkResultHandler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, result)
}

// Create 提交报工，同时重算所属工单数量
func (h *WorkResultHandler) Create(c *gin.Context) {
	var req service.CreateWorkResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, result)
}

// Update 修正报工记录，同时重算所属工单数量
func (h *WorkResultHandler) Update(c *gin.Context) {
	var req service.UpdateWorkResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, result)
}

// Delete 删除报工记录，同时重算所属工单数量
func (h *WorkResultHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id"), GetUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}
