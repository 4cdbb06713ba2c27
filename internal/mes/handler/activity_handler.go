package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// ActivityLogHandler 操作日志处理器
type ActivityLogHandler struct {
	svc *service.ActivityLogService
}

func NewActivityLogHandler(svc *service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{svc: svc}
}

// List 获取操作日志列表
func (h *ActivityLogHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := collectFilters(c, "entity_type", "action", "operator_id")

	logs, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, NewListResponse(logs, page, pageSize, total))
}

// ListByEntity 获取某实体的操作日志
// GET /activity-logs/entity?entity_type=work_order&entity_id=xxx&limit=50
func (h *ActivityLogHandler) ListByEntity(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		BadRequest(c, "entity_type and entity_id are required")
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	logs, err := h.svc.ListByEntity(c.Request.Context(), GetTenantID(c), entityType, entityID, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": logs})
}
