package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/service"
	"github.com/merturldosa/basemes-sub003/internal/mes/testutil"
	"gorm.io/gorm"
)

func setupWorkOrderHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activityLog := service.NewActivityLogService(repos.ActivityLog)
	svc := service.NewWorkOrderService(repos.WorkOrder, repos.Product, activityLog, nil, db)
	h := NewWorkOrderHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/mes")
	api.GET("/work-orders", h.List)
	api.POST("/work-orders", h.Create)
	api.GET("/work-orders/:id", h.Get)
	api.POST("/work-orders/:id/start", h.Start)
	api.POST("/work-orders/:id/complete", h.Complete)

	return router, db
}

// TestWorkOrderHandlerCreateAndGet 创建工单并按ID查询
func TestWorkOrderHandlerCreateAndGet(t *testing.T) {
	router, db := setupWorkOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	body := map[string]interface{}{
		"code":        "WO-2026-001",
		"product_id":  "prod-001",
		"planned_qty": "100",
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/mes/work-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != string(entity.WorkOrderPending) {
		t.Fatalf("expected PENDING, got %v", data["status"])
	}
	id := data["id"].(string)

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/mes/work-orders/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["code"] != "WO-2026-001" {
		t.Fatalf("expected code WO-2026-001, got %v", data["code"])
	}
}

// TestWorkOrderHandlerInvalidTransition PENDING直接完工应返回409
func TestWorkOrderHandlerInvalidTransition(t *testing.T) {
	router, db := setupWorkOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderPending, "50")

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/mes/work-orders/wo-001/complete", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// 开工后完工成功
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/mes/work-orders/wo-001/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on start, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/mes/work-orders/wo-001/complete", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on complete, got %d: %s", w.Code, w.Body.String())
	}
}

// TestWorkOrderHandlerAuth 未带token访问应返回401
func TestWorkOrderHandlerAuth(t *testing.T) {
	router, _ := setupWorkOrderHandlerTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/mes/work-orders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/mes/work-orders", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}

// TestWorkOrderHandlerNotFound 不存在的工单应返回404
func TestWorkOrderHandlerNotFound(t *testing.T) {
	router, _ := setupWorkOrderHandlerTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/mes/work-orders/wo-missing", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
