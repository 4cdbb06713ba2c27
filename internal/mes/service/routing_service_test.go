package service

import (
	"context"
	"errors"
	"testing"

	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRoutingTest(t *testing.T) (*RoutingService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewRoutingService(repos.Routing, repos.Product, NewActivityLogService(repos.ActivityLog))
	return svc, db
}

// TestRoutingCopyVersion 复制工艺路线应深拷贝工序并保留序号
func TestRoutingCopyVersion(t *testing.T) {
	svc, db := setupRoutingTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	source, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateRoutingRequest{
		Code:      "RT-001",
		Version:   "A",
		Name:      "装配路线",
		ProductID: "prod-001",
		Steps: []RoutingStepRequest{
			{Sequence: 10, ProcessCode: "OP-CUT", ProcessName: "裁切", CycleMinutes: decimal.RequireFromString("1.5")},
			{Sequence: 20, ProcessCode: "OP-ASM", ProcessName: "装配", IsInspection: false},
			{Sequence: 30, ProcessCode: "OP-QC", ProcessName: "终检", IsInspection: true},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create routing: %v", err)
	}

	copied, err := svc.CopyVersion(ctx, testutil.TestTenant, source.ID, "B", "user-2")
	if err != nil {
		t.Fatalf("Failed to copy version: %v", err)
	}
	if !copied.IsActive {
		t.Fatal("copied version should start active")
	}

	loaded, err := svc.Get(ctx, testutil.TestTenant, copied.ID)
	if err != nil {
		t.Fatalf("Failed to load copy: %v", err)
	}
	if len(loaded.Steps) != 3 {
		t.Fatalf("expected 3 copied steps, got %d", len(loaded.Steps))
	}
	for i, want := range []int{10, 20, 30} {
		if loaded.Steps[i].Sequence != want {
			t.Fatalf("step %d: expected sequence %d, got %d", i, want, loaded.Steps[i].Sequence)
		}
		if loaded.Steps[i].RoutingID != copied.ID {
			t.Fatalf("step %d still points at source routing", i)
		}
	}
	if !loaded.Steps[2].IsInspection {
		t.Fatal("inspection flag lost in copy")
	}

	// 重复版本拒绝且不产生新行
	if _, err := svc.CopyVersion(ctx, testutil.TestTenant, source.ID, "B", "user-2"); !errors.Is(err, repository.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	versions, err := svc.ListVersions(ctx, testutil.TestTenant, "RT-001")
	if err != nil {
		t.Fatalf("Failed to list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}
}

// TestRoutingGetByCodeVersion 按 (code, version) 获取工艺路线
func TestRoutingGetByCodeVersion(t *testing.T) {
	svc, db := setupRoutingTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	routing, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateRoutingRequest{
		Code:      "RT-001",
		Version:   "A",
		Name:      "装配路线",
		ProductID: "prod-001",
		Steps: []RoutingStepRequest{
			{Sequence: 10, ProcessCode: "OP-ASM", ProcessName: "装配"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create routing: %v", err)
	}

	loaded, err := svc.GetByCodeVersion(ctx, testutil.TestTenant, "RT-001", "A")
	if err != nil {
		t.Fatalf("Failed to get by code version: %v", err)
	}
	if loaded.ID != routing.ID {
		t.Fatalf("expected %s, got %s", routing.ID, loaded.ID)
	}
	if len(loaded.Steps) != 1 {
		t.Fatalf("expected steps preloaded, got %d", len(loaded.Steps))
	}

	if _, err := svc.GetByCodeVersion(ctx, testutil.TestTenant, "RT-001", "Z"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown version, got %v", err)
	}
	if _, err := svc.GetByCodeVersion(ctx, "tenant-other", "RT-001", "A"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}
}
