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

func setupBomTest(t *testing.T) (*BomService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewBomService(repos.Bom, repos.Product, NewActivityLogService(repos.ActivityLog))
	return svc, db
}

func seedBomComponents(t *testing.T, db *gorm.DB) {
	t.Helper()
	testutil.SeedProduct(t, db, "prod-parent", "P-PARENT", "成品")
	testutil.SeedProduct(t, db, "prod-c1", "P-C1", "外壳")
	testutil.SeedProduct(t, db, "prod-c2", "P-C2", "主板")
}

// TestBomCreateWithDetails BOM创建应带行项且行项按序号排列
func TestBomCreateWithDetails(t *testing.T) {
	svc, db := setupBomTest(t)
	ctx := context.Background()
	seedBomComponents(t, db)

	bom, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateBomRequest{
		Code:      "BOM-001",
		Version:   "A",
		Name:      "成品BOM",
		ProductID: "prod-parent",
		Details: []BomDetailRequest{
			{Sequence: 20, ComponentID: "prod-c2", Quantity: decimal.RequireFromString("1")},
			{Sequence: 10, ComponentID: "prod-c1", Quantity: decimal.RequireFromString("2"), Unit: "pcs"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create BOM: %v", err)
	}

	loaded, err := svc.Get(ctx, testutil.TestTenant, bom.ID)
	if err != nil {
		t.Fatalf("Failed to load BOM: %v", err)
	}
	if len(loaded.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(loaded.Details))
	}
	if loaded.Details[0].Sequence != 10 || loaded.Details[1].Sequence != 20 {
		t.Fatalf("details not ordered by sequence: %d, %d", loaded.Details[0].Sequence, loaded.Details[1].Sequence)
	}
	if !loaded.Details[0].Quantity.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("expected quantity 2, got %s", loaded.Details[0].Quantity)
	}
}

// TestBomCopyVersion 复制版本应深拷贝行项并保留序号
func TestBomCopyVersion(t *testing.T) {
	svc, db := setupBomTest(t)
	ctx := context.Background()
	seedBomComponents(t, db)

	source, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateBomRequest{
		Code:      "BOM-001",
		Version:   "A",
		Name:      "成品BOM",
		ProductID: "prod-parent",
		Details: []BomDetailRequest{
			{Sequence: 10, ComponentID: "prod-c1", Quantity: decimal.RequireFromString("2")},
			{Sequence: 20, ComponentID: "prod-c2", Quantity: decimal.RequireFromString("1")},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create source BOM: %v", err)
	}

	copied, err := svc.CopyVersion(ctx, testutil.TestTenant, source.ID, "B", "user-2")
	if err != nil {
		t.Fatalf("Failed to copy version: %v", err)
	}
	if copied.ID == source.ID {
		t.Fatal("copy must produce a new BOM row")
	}
	if copied.Code != source.Code || copied.Version != "B" {
		t.Fatalf("expected %s/B, got %s/%s", source.Code, copied.Code, copied.Version)
	}
	if !copied.IsActive {
		t.Fatal("copied version should start active")
	}

	loaded, err := svc.Get(ctx, testutil.TestTenant, copied.ID)
	if err != nil {
		t.Fatalf("Failed to load copy: %v", err)
	}
	if len(loaded.Details) != 2 {
		t.Fatalf("expected 2 copied details, got %d", len(loaded.Details))
	}
	for i, d := range loaded.Details {
		if d.BomID != copied.ID {
			t.Fatalf("detail %d still points at source BOM", i)
		}
	}
	if loaded.Details[0].Sequence != 10 || loaded.Details[1].Sequence != 20 {
		t.Fatalf("copied details lost sequence: %d, %d", loaded.Details[0].Sequence, loaded.Details[1].Sequence)
	}

	versions, err := svc.ListVersions(ctx, testutil.TestTenant, "BOM-001")
	if err != nil {
		t.Fatalf("Failed to list versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}

	byVersion, err := svc.GetByCodeVersion(ctx, testutil.TestTenant, "BOM-001", "B")
	if err != nil {
		t.Fatalf("Failed to get by code version: %v", err)
	}
	if byVersion.ID != copied.ID {
		t.Fatalf("expected copy %s, got %s", copied.ID, byVersion.ID)
	}
	if _, err := svc.GetByCodeVersion(ctx, testutil.TestTenant, "BOM-001", "Z"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown version, got %v", err)
	}
}

// TestBomDetailAddRemove 单行增删，未给序号时追加到最大序号之后
func TestBomDetailAddRemove(t *testing.T) {
	svc, db := setupBomTest(t)
	ctx := context.Background()
	seedBomComponents(t, db)

	bom, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateBomRequest{
		Code:      "BOM-001",
		Version:   "A",
		Name:      "成品BOM",
		ProductID: "prod-parent",
		Details: []BomDetailRequest{
			{Sequence: 10, ComponentID: "prod-c1", Quantity: decimal.RequireFromString("2")},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create BOM: %v", err)
	}

	added, err := svc.AddDetail(ctx, testutil.TestTenant, bom.ID, &BomDetailRequest{
		ComponentID: "prod-c2",
		Quantity:    decimal.RequireFromString("1"),
	})
	if err != nil {
		t.Fatalf("Failed to add detail: %v", err)
	}
	if added.Sequence != 11 {
		t.Fatalf("expected sequence 11 after max 10, got %d", added.Sequence)
	}
	if added.Unit != "pcs" {
		t.Fatalf("expected default unit pcs, got %q", added.Unit)
	}

	if _, err := svc.AddDetail(ctx, testutil.TestTenant, bom.ID, &BomDetailRequest{
		ComponentID: "prod-missing",
		Quantity:    decimal.RequireFromString("1"),
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing component, got %v", err)
	}

	// 行项不属于该BOM时不可删
	other, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateBomRequest{
		Code:      "BOM-002",
		Version:   "A",
		Name:      "另一BOM",
		ProductID: "prod-parent",
	})
	if err != nil {
		t.Fatalf("Failed to create second BOM: %v", err)
	}
	if err := svc.RemoveDetail(ctx, testutil.TestTenant, other.ID, added.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign detail, got %v", err)
	}

	if err := svc.RemoveDetail(ctx, testutil.TestTenant, bom.ID, added.ID); err != nil {
		t.Fatalf("Failed to remove detail: %v", err)
	}
	loaded, err := svc.Get(ctx, testutil.TestTenant, bom.ID)
	if err != nil {
		t.Fatalf("Failed to load BOM: %v", err)
	}
	if len(loaded.Details) != 1 || loaded.Details[0].Sequence != 10 {
		t.Fatalf("expected original single detail to remain, got %+v", loaded.Details)
	}
}

// TestBomCopyVersionDuplicate 目标版本已存在时复制应失败且不产生新行
func TestBomCopyVersionDuplicate(t *testing.T) {
	svc, db := setupBomTest(t)
	ctx := context.Background()
	seedBomComponents(t, db)

	source, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateBomRequest{
		Code:      "BOM-001",
		Version:   "A",
		Name:      "成品BOM",
		ProductID: "prod-parent",
		Details: []BomDetailRequest{
			{Sequence: 10, ComponentID: "prod-c1", Quantity: decimal.RequireFromString("2")},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create source BOM: %v", err)
	}

	if _, err := svc.CopyVersion(ctx, testutil.TestTenant, source.ID, "A", "user-1"); !errors.Is(err, repository.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if _, err := svc.CopyVersion(ctx, testutil.TestTenant, source.ID, "", "user-1"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty version, got %v", err)
	}

	versions, err := svc.ListVersions(ctx, testutil.TestTenant, "BOM-001")
	if err != nil {
		t.Fatalf("Failed to list versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected single version after failed copies, got %d", len(versions))
	}
}
