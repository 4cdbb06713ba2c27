package service

import (
	"context"
	"errors"
	"testing"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWorkOrderTest(t *testing.T) (*WorkOrderService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewWorkOrderService(repos.WorkOrder, repos.Product, NewActivityLogService(repos.ActivityLog), nil, db)
	return svc, db
}

// TestWorkOrderLifecycle PENDING → READY → IN_PROGRESS → COMPLETED
func TestWorkOrderLifecycle(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	wo, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkOrderRequest{
		Code:       "WO-2026-001",
		ProductID:  "prod-001",
		PlannedQty: decimal.RequireFromString("100"),
	})
	if err != nil {
		t.Fatalf("Failed to create work order: %v", err)
	}
	if wo.Status != entity.WorkOrderPending {
		t.Fatalf("expected PENDING, got %s", wo.Status)
	}
	if !wo.ActualQty.Equal(decimal.Zero) {
		t.Fatalf("expected zero actual_qty on creation, got %s", wo.ActualQty)
	}

	wo, err = svc.Ready(ctx, testutil.TestTenant, wo.ID, "user-1")
	if err != nil {
		t.Fatalf("Failed to mark ready: %v", err)
	}
	if wo.Status != entity.WorkOrderReady {
		t.Fatalf("expected READY, got %s", wo.Status)
	}

	wo, err = svc.Start(ctx, testutil.TestTenant, wo.ID, "user-1")
	if err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if wo.Status != entity.WorkOrderInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", wo.Status)
	}
	if wo.ActualStart == nil {
		t.Fatal("expected actual_start to be set on start")
	}

	wo, err = svc.Complete(ctx, testutil.TestTenant, wo.ID, "user-1")
	if err != nil {
		t.Fatalf("Failed to complete: %v", err)
	}
	if wo.Status != entity.WorkOrderCompleted {
		t.Fatalf("expected COMPLETED, got %s", wo.Status)
	}
	if wo.ActualEnd == nil {
		t.Fatal("expected actual_end to be set on complete")
	}
}

// TestWorkOrderStartFromPending 开工可跳过备料直接从PENDING进入
func TestWorkOrderStartFromPending(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderPending, "50")

	wo, err := svc.Start(ctx, testutil.TestTenant, "wo-001", "user-1")
	if err != nil {
		t.Fatalf("Failed to start from PENDING: %v", err)
	}
	if wo.Status != entity.WorkOrderInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", wo.Status)
	}
}

// TestWorkOrderInvalidTransitions 非法流转应返回状态错误且不落库
func TestWorkOrderInvalidTransitions(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-pending", "WO-P", "prod-001", entity.WorkOrderPending, "10")
	testutil.SeedWorkOrder(t, db, "wo-done", "WO-D", "prod-001", entity.WorkOrderCompleted, "10")

	// PENDING不能直接完工
	if _, err := svc.Complete(ctx, testutil.TestTenant, "wo-pending", "user-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for PENDING->COMPLETED, got %v", err)
	}
	wo, _ := svc.Get(ctx, testutil.TestTenant, "wo-pending")
	if wo.Status != entity.WorkOrderPending {
		t.Fatalf("status changed despite rejection: %s", wo.Status)
	}

	// COMPLETED是终态，不可取消
	if _, err := svc.Cancel(ctx, testutil.TestTenant, "wo-done", "user-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for COMPLETED->CANCELLED, got %v", err)
	}
}

// TestWorkOrderCancelIdempotent 已取消工单再次取消应成功
func TestWorkOrderCancelIdempotent(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderInProgress, "10")

	if _, err := svc.Cancel(ctx, testutil.TestTenant, "wo-001", "user-1"); err != nil {
		t.Fatalf("Failed to cancel: %v", err)
	}
	wo, err := svc.Cancel(ctx, testutil.TestTenant, "wo-001", "user-1")
	if err != nil {
		t.Fatalf("expected repeated cancel to succeed, got %v", err)
	}
	if wo.Status != entity.WorkOrderCancelled {
		t.Fatalf("expected CANCELLED, got %s", wo.Status)
	}
}

// TestWorkOrderGetByCode 按编码查询工单
func TestWorkOrderGetByCode(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderPending, "10")

	wo, err := svc.GetByCode(ctx, testutil.TestTenant, "WO-2026-001")
	if err != nil {
		t.Fatalf("Failed to get by code: %v", err)
	}
	if wo.ID != "wo-001" {
		t.Fatalf("expected wo-001, got %s", wo.ID)
	}

	if _, err := svc.GetByCode(ctx, testutil.TestTenant, "WO-MISSING"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByCode(ctx, "tenant-other", "WO-2026-001"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}
}

// TestWorkOrderTransitionInvalidation 状态流转成功后应使仪表盘缓存失效
func TestWorkOrderTransitionInvalidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	dash := &stubDashboard{}
	svc := NewWorkOrderService(repos.WorkOrder, repos.Product, NewActivityLogService(repos.ActivityLog), dash, db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderPending, "10")

	if _, err := svc.Start(ctx, testutil.TestTenant, "wo-001", "user-1"); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if len(dash.tenants) != 1 {
		t.Fatalf("expected invalidation on transition, got %v", dash.tenants)
	}

	// 被拒绝的流转不应失效
	if _, err := svc.Ready(ctx, testutil.TestTenant, "wo-001", "user-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(dash.tenants) != 1 {
		t.Fatalf("rejected transition must not invalidate, got %v", dash.tenants)
	}
}

// TestWorkOrderCreateValidation 产品必须存在、编码不可重复、数量必须为正
func TestWorkOrderCreateValidation(t *testing.T) {
	svc, db := setupWorkOrderTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkOrderRequest{
		Code:       "WO-X",
		ProductID:  "prod-missing",
		PlannedQty: decimal.RequireFromString("10"),
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}

	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkOrderRequest{
		Code:       "WO-X",
		ProductID:  "prod-001",
		PlannedQty: decimal.Zero,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero qty, got %v", err)
	}

	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkOrderRequest{
		Code:       "WO-DUP",
		ProductID:  "prod-001",
		PlannedQty: decimal.RequireFromString("10"),
	}); err != nil {
		t.Fatalf("Failed to create work order: %v", err)
	}
	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkOrderRequest{
		Code:       "WO-DUP",
		ProductID:  "prod-001",
		PlannedQty: decimal.RequireFromString("10"),
	}); !errors.Is(err, repository.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}
