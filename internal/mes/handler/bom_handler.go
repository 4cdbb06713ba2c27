package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// copyVersionRequest 版本复制请求体
type copyVersionRequest struct {
	Version string `json:"version" binding:"required"`
}

// BomHandler BOM处理器
type BomHandler struct {
	svc *service.BomService
}

func NewBomHandler(svc *service.BomService) *BomHandler {
	return &BomHandler{svc: svc}
}

// List 获取BOM列表
func (h *BomHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "product_id", "is_active")

	boms, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(boms, page, pageSize, total))
}

// Get 获取BOM详情（含明细行）
func (h *BomHandler) Get(c *gin.Context) {
	bom, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, bom)
}

// ListVersions 获取同编码BOM的全部版本
func (h *BomHandler) ListVersions(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code is required")
		return
	}

	versions, err := h.svc.ListVersions(c.Request.Context(), GetTenantID(c), code)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": versions})
}

// Create 创建BOM
func (h *BomHandler) Create(c *gin.Context) {
	var req service.CreateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	bom, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, bom)
}

// Update 更新BOM
func (h *BomHandler) Update(c *gin.Context) {
	var req service.UpdateBomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	bom, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, bom)
}

// Delete 删除BOM
func (h *BomHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换BOM启用状态
func (h *BomHandler) ToggleActive(c *gin.Context) {
	bom, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, bom)
}

// CopyVersion 从现有BOM复制出新版本
func (h *BomHandler) CopyVersion(c *gin.Context) {
	var req copyVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	bom, err := h.svc.CopyVersion(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Version, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, bom)
}

// AddDetail 追加BOM行项
func (h *BomHandler) AddDetail(c *gin.Context) {
	var req service.BomDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	detail, err := h.svc.AddDetail(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, detail)
}

// RemoveDetail 删除BOM行项
func (h *BomHandler) RemoveDetail(c *gin.Context) {
	if err := h.svc.RemoveDetail(c.Request.Context(), GetTenantID(c), c.Param("id"), c.Param("detailId")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// RoutingHandler 工艺路线处理器
type RoutingHandler struct {
	svc *service.RoutingService
}

func NewRoutingHandler(svc *service.RoutingService) *RoutingHandler {
	return &RoutingHandler{svc: svc}
}

// List 获取工艺路线列表
func (h *RoutingHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "product_id", "is_active")

	routings, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(routings, page, pageSize, total))
}

// Get 获取工艺路线详情（含工序）
func (h *RoutingHandler) Get(c *gin.Context) {
	routing, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, routing)
}

// ListVersions 获取同编码工艺路线的全部版本
func (h *RoutingHandler) ListVersions(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code is required")
		return
	}

	versions, err := h.svc.ListVersions(c.Request.Context(), GetTenantID(c), code)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": versions})
}

// Create 创建工艺路线
func (h *RoutingHandler) Create(c *gin.Context) {
	var req service.CreateRoutingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	routing, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, routing)
}

// Update 更新工艺路线
func (h *RoutingHandler) Update(c *gin.Context) {
	var req service.UpdateRoutingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	routing, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, routing)
}

// Delete 删除工艺路线
func (h *RoutingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换工艺路线启用状态
func (h *RoutingHandler) ToggleActive(c *gin.Context) {
	routing, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, routing)
}

// CopyVersion 从现有工艺路线复制出新版本
func (h *RoutingHandler) CopyVersion(c *gin.Context) {
	var req copyVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	routing, err := h.svc.CopyVersion(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Version, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, routing)
}
