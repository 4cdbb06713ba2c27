package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// SiteHandler 基地处理器
type SiteHandler struct {
	svc *service.SiteService
}

func NewSiteHandler(svc *service.SiteService) *SiteHandler {
	return &SiteHandler{svc: svc}
}

// List 获取基地列表
func (h *SiteHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search")

	sites, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(sites, page, pageSize, total))
}

// Get 获取基地详情
func (h *SiteHandler) Get(c *gin.Context) {
	site, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, site)
}

// Create 创建基地
func (h *SiteHandler) Create(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	site, err := h.svc.Create(c.Request.Context(), GetTenantID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, site)
}

// Update 更新基地
func (h *SiteHandler) Update(c *gin.Context) {
	var req service.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	site, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, site)
}

// Delete 删除基地
func (h *SiteHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换基地启用状态
func (h *SiteHandler) ToggleActive(c *gin.Context) {
	site, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, site)
}

// DepartmentHandler 部门处理器
type DepartmentHandler struct {
	svc *service.DepartmentService
}

func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// List 获取部门列表
func (h *DepartmentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "site_id")

	departments, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(departments, page, pageSize, total))
}

// Get 获取部门详情
func (h *DepartmentHandler) Get(c *gin.Context) {
	department, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, department)
}

// Create 创建部门
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	department, err := h.svc.Create(c.Request.Context(), GetTenantID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, department)
}

// Update 更新部门
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req service.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	department, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, department)
}

// Delete 删除部门
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换部门启用状态
func (h *DepartmentHandler) ToggleActive(c *gin.Context) {
	department, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, department)
}
