package service

import (
	"context"
	"errors"
	"testing"

	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/testutil"
)

// TestRoleGetByCode 按编码获取角色，编码在租户内唯一
func TestRoleGetByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewRoleService(repos.Role)
	ctx := context.Background()

	role, err := svc.Create(ctx, testutil.TestTenant, &CreateRoleRequest{
		Code: "mes_operator",
		Name: "操作工",
	})
	if err != nil {
		t.Fatalf("Failed to create role: %v", err)
	}

	loaded, err := svc.GetByCode(ctx, testutil.TestTenant, "mes_operator")
	if err != nil {
		t.Fatalf("Failed to get by code: %v", err)
	}
	if loaded.ID != role.ID {
		t.Fatalf("expected %s, got %s", role.ID, loaded.ID)
	}

	if _, err := svc.GetByCode(ctx, testutil.TestTenant, "mes_missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByCode(ctx, "tenant-other", "mes_operator"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}

	if _, err := svc.Create(ctx, testutil.TestTenant, &CreateRoleRequest{
		Code: "mes_operator",
		Name: "重复角色",
	}); !errors.Is(err, repository.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}
