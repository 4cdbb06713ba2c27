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

// stubDashboard 记录缓存失效调用的租户
type stubDashboard struct {
	tenants []string
}

func (s *stubDashboard) Invalidate(_ context.Context, tenantID string) {
	s.tenants = append(s.tenants, tenantID)
}

func setupWorkResultTest(t *testing.T) (*WorkResultService, *repository.Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewWorkResultService(repos.WorkResult, repos.WorkOrder, NewActivityLogService(repos.ActivityLog), nil, db)
	return svc, repos, db
}

// TestWorkResultRecompute 报工后工单汇总数量应重算
func TestWorkResultRecompute(t *testing.T) {
	svc, repos, db := setupWorkResultTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderInProgress, "100")

	first, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.RequireFromString("10"),
		GoodQty:     decimal.RequireFromString("9"),
		DefectQty:   decimal.RequireFromString("1"),
		WorkerID:    "user-1",
	})
	if err != nil {
		t.Fatalf("Failed to create work result: %v", err)
	}

	wo, err := repos.WorkOrder.FindByID(ctx, testutil.TestTenant, "wo-001")
	if err != nil {
		t.Fatalf("Failed to load work order: %v", err)
	}
	if !wo.ActualQty.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected actual_qty 10, got %s", wo.ActualQty)
	}
	if !wo.GoodQty.Equal(decimal.RequireFromString("9")) {
		t.Fatalf("expected good_qty 9, got %s", wo.GoodQty)
	}
	if !wo.DefectQty.Equal(decimal.RequireFromString("1")) {
		t.Fatalf("expected defect_qty 1, got %s", wo.DefectQty)
	}

	// 第二笔报工，汇总应为累加值
	if _, err := svc.Create(ctx, testutil.TestTenant, "user-2", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.RequireFromString("5"),
		GoodQty:     decimal.RequireFromString("5"),
	}); err != nil {
		t.Fatalf("Failed to create second work result: %v", err)
	}

	wo, _ = repos.WorkOrder.FindByID(ctx, testutil.TestTenant, "wo-001")
	if !wo.ActualQty.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("expected actual_qty 15, got %s", wo.ActualQty)
	}
	if !wo.GoodQty.Equal(decimal.RequireFromString("14")) {
		t.Fatalf("expected good_qty 14, got %s", wo.GoodQty)
	}

	// 删除第一笔，汇总应回落到剩余报工之和
	if err := svc.Delete(ctx, testutil.TestTenant, first.ID, "user-1"); err != nil {
		t.Fatalf("Failed to delete work result: %v", err)
	}

	wo, _ = repos.WorkOrder.FindByID(ctx, testutil.TestTenant, "wo-001")
	if !wo.ActualQty.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected actual_qty 5 after delete, got %s", wo.ActualQty)
	}
	if !wo.GoodQty.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected good_qty 5 after delete, got %s", wo.GoodQty)
	}
	if !wo.DefectQty.Equal(decimal.Zero) {
		t.Fatalf("expected defect_qty 0 after delete, got %s", wo.DefectQty)
	}
}

// TestWorkResultMissingWorkOrder 工单不存在时报工应失败且不留脏数据
func TestWorkResultMissingWorkOrder(t *testing.T) {
	svc, repos, _ := setupWorkResultTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-missing",
		Quantity:    decimal.RequireFromString("10"),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	results, total, err := repos.WorkResult.FindAll(ctx, testutil.TestTenant, 1, 20, nil)
	if err != nil {
		t.Fatalf("Failed to list work results: %v", err)
	}
	if total != 0 || len(results) != 0 {
		t.Fatalf("expected no work results persisted, got %d", total)
	}
}

// TestWorkResultNegativeQuantity 负数量报工应被拒绝
func TestWorkResultNegativeQuantity(t *testing.T) {
	svc, _, db := setupWorkResultTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderInProgress, "100")

	_, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.RequireFromString("-3"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// TestWorkResultDashboardInvalidation 报工写路径应使仪表盘缓存失效，失败的写不应失效
func TestWorkResultDashboardInvalidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	dash := &stubDashboard{}
	svc := NewWorkResultService(repos.WorkResult, repos.WorkOrder, NewActivityLogService(repos.ActivityLog), dash, db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderInProgress, "100")

	wr, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("Failed to create work result: %v", err)
	}
	if len(dash.tenants) != 1 || dash.tenants[0] != testutil.TestTenant {
		t.Fatalf("expected one invalidation for %s, got %v", testutil.TestTenant, dash.tenants)
	}

	if err := svc.Delete(ctx, testutil.TestTenant, wr.ID, "user-1"); err != nil {
		t.Fatalf("Failed to delete work result: %v", err)
	}
	if len(dash.tenants) != 2 {
		t.Fatalf("expected invalidation on delete, got %v", dash.tenants)
	}

	// 校验失败的写不应触发失效
	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.Zero,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(dash.tenants) != 2 {
		t.Fatalf("rejected write must not invalidate, got %v", dash.tenants)
	}
}

// TestWorkResultTenantIsolation 其他租户的报工不可见也不可删
func TestWorkResultTenantIsolation(t *testing.T) {
	svc, _, db := setupWorkResultTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")
	testutil.SeedWorkOrder(t, db, "wo-001", "WO-2026-001", "prod-001", entity.WorkOrderInProgress, "100")

	wr, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateWorkResultRequest{
		WorkOrderID: "wo-001",
		Quantity:    decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("Failed to create work result: %v", err)
	}

	if err := svc.Delete(ctx, "tenant-other", wr.ID, "user-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}
}
