package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// DashboardHandler 仪表盘与导出处理器
type DashboardHandler struct {
	svc       *service.DashboardService
	exportSvc *service.ExportService
}

func NewDashboardHandler(svc *service.DashboardService, exportSvc *service.ExportService) *DashboardHandler {
	return &DashboardHandler{svc: svc, exportSvc: exportSvc}
}

// Summary 获取仪表盘汇总
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), GetTenantID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, summary)
}

// ExportWorkResults 按时间范围导出报工记录xlsx
// GET /dashboard/export/work-results?from=2026-08-01&to=2026-08-31
func (h *DashboardHandler) ExportWorkResults(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		BadRequest(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		BadRequest(c, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		BadRequest(c, "to must not be before from")
		return
	}
	// 包含截止日当天
	to = to.AddDate(0, 0, 1)

	f, filename, err := h.exportSvc.ExportWorkResults(c.Request.Context(), GetTenantID(c), from, to)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write xlsx: "+err.Error())
	}
}
