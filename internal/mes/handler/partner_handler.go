package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// PartnerHandler 往来单位处理器
type PartnerHandler struct {
	svc *service.PartnerService
}

func NewPartnerHandler(svc *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

// List 获取往来单位列表
func (h *PartnerHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "search", "type", "is_active")

	partners, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(partners, page, pageSize, total))
}

// Get 获取往来单位详情
func (h *PartnerHandler) Get(c *gin.Context) {
	partner, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, partner)
}

// Create 创建往来单位
func (h *PartnerHandler) Create(c *gin.Context) {
	var req service.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	partner, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, partner)
}

// Update 更新往来单位
func (h *PartnerHandler) Update(c *gin.Context) {
	var req service.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	partner, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, partner)
}

// Delete 删除往来单位
func (h *PartnerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ToggleActive 切换启用状态
func (h *PartnerHandler) ToggleActive(c *gin.Context) {
	partner, err := h.svc.ToggleActive(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, partner)
}
