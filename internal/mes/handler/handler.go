package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
)

// Handlers 处理器集合
type Handlers struct {
	User        *UserHandler
	Role        *RoleHandler
	Site        *SiteHandler
	Department  *DepartmentHandler
	Partner     *PartnerHandler
	Product     *ProductHandler
	Lot         *LotHandler
	Bom         *BomHandler
	Routing     *RoutingHandler
	WorkOrder   *WorkOrderHandler
	WorkResult  *WorkResultHandler
	Inspection  *InspectionHandler
	Gauge       *GaugeHandler
	Maintenance *MaintenanceHandler
	ActivityLog *ActivityLogHandler
	Dashboard   *DashboardHandler
	Attachment  *AttachmentHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		User:        NewUserHandler(svc.User),
		Role:        NewRoleHandler(svc.Role),
		Site:        NewSiteHandler(svc.Site),
		Department:  NewDepartmentHandler(svc.Department),
		Partner:     NewPartnerHandler(svc.Partner),
		Product:     NewProductHandler(svc.Product),
		Lot:         NewLotHandler(svc.Lot),
		Bom:         NewBomHandler(svc.Bom),
		Routing:     NewRoutingHandler(svc.Routing),
		WorkOrder:   NewWorkOrderHandler(svc.WorkOrder),
		WorkResult:  NewWorkResultHandler(svc.WorkResult),
		Inspection:  NewInspectionHandler(svc.Inspection),
		Gauge:       NewGaugeHandler(svc.Gauge),
		Maintenance: NewMaintenanceHandler(svc.Maintenance),
		ActivityLog: NewActivityLogHandler(svc.ActivityLog),
		Dashboard:   NewDashboardHandler(svc.Dashboard, svc.Export),
		Attachment:  NewAttachmentHandler(svc.Attachment),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewListResponse 构造分页列表响应
func NewListResponse(items interface{}, page, pageSize int, total int64) *ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 状态或唯一性冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError 将服务层错误映射为HTTP响应
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, repository.ErrDuplicateCode):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidStatusTransition):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetTenantID 从上下文获取租户ID
func GetTenantID(c *gin.Context) string {
	tenantID, _ := c.Get("tenant_id")
	if id, ok := tenantID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

// collectFilters 收集白名单内的查询过滤参数
func collectFilters(c *gin.Context, keys ...string) map[string]string {
	filters := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			filters[k] = v
		}
	}
	return filters
}
