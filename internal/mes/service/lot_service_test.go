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

func setupLotTest(t *testing.T) (*LotService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewLotService(repos.Lot, repos.Product)
	return svc, db
}

// TestLotGenealogyAndChildren 谱系向上追溯，子批次向下列出
func TestLotGenealogyAndChildren(t *testing.T) {
	svc, db := setupLotTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	root, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:      "LOT-ROOT",
		ProductID: "prod-001",
		Quantity:  decimal.RequireFromString("100"),
	})
	if err != nil {
		t.Fatalf("Failed to create root lot: %v", err)
	}

	childA, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:        "LOT-A",
		ProductID:   "prod-001",
		ParentLotID: root.ID,
		Quantity:    decimal.RequireFromString("60"),
	})
	if err != nil {
		t.Fatalf("Failed to create child lot: %v", err)
	}
	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:        "LOT-B",
		ProductID:   "prod-001",
		ParentLotID: root.ID,
		Quantity:    decimal.RequireFromString("40"),
	}); err != nil {
		t.Fatalf("Failed to create second child lot: %v", err)
	}

	grandchild, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:        "LOT-A1",
		ProductID:   "prod-001",
		ParentLotID: childA.ID,
		Quantity:    decimal.RequireFromString("30"),
	})
	if err != nil {
		t.Fatalf("Failed to create grandchild lot: %v", err)
	}

	chain, err := svc.Genealogy(ctx, testutil.TestTenant, grandchild.ID)
	if err != nil {
		t.Fatalf("Failed to trace genealogy: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("expected chain of 3, got %d", len(chain))
	}
	if chain[0].Code != "LOT-A1" || chain[1].Code != "LOT-A" || chain[2].Code != "LOT-ROOT" {
		t.Fatalf("chain out of order: %s %s %s", chain[0].Code, chain[1].Code, chain[2].Code)
	}

	children, err := svc.Children(ctx, testutil.TestTenant, root.ID)
	if err != nil {
		t.Fatalf("Failed to list children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Code != "LOT-A" || children[1].Code != "LOT-B" {
		t.Fatalf("children out of order: %s %s", children[0].Code, children[1].Code)
	}

	if _, err := svc.Children(ctx, testutil.TestTenant, "lot-missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing lot, got %v", err)
	}
}

// TestLotCreateValidation 父批次必须存在，数量不可为负
func TestLotCreateValidation(t *testing.T) {
	svc, db := setupLotTest(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-001", "P-001", "测试产品")

	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:        "LOT-X",
		ProductID:   "prod-001",
		ParentLotID: "lot-missing",
		Quantity:    decimal.RequireFromString("10"),
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}

	if _, err := svc.Create(ctx, testutil.TestTenant, "user-1", &CreateLotRequest{
		Code:      "LOT-X",
		ProductID: "prod-001",
		Quantity:  decimal.RequireFromString("-1"),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative quantity, got %v", err)
	}
}
