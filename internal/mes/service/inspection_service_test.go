package service

import (
	"context"
	"errors"
	"testing"

	"github.com/merturldosa/basemes-sub003/internal/mes/entity"
	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/merturldosa/basemes-sub003/internal/mes/testutil"
	"gorm.io/gorm"
)

func setupInspectionTest(t *testing.T) (*InspectionService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewInspectionService(repos.Inspection, NewActivityLogService(repos.ActivityLog), nil)
	return svc, db
}

// TestInspectionActionLifecycle OPEN → IN_PROGRESS → COMPLETED
func TestInspectionActionLifecycle(t *testing.T) {
	svc, db := setupInspectionTest(t)
	ctx := context.Background()

	testutil.SeedInspection(t, db, "insp-001", "QC-2026-001")

	action, err := svc.CreateAction(ctx, testutil.TestTenant, "insp-001", "user-1", &CreateActionRequest{
		Description: "外壳划痕返修",
		AssigneeID:  "user-2",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}
	if action.Status != entity.ActionOpen {
		t.Fatalf("expected OPEN, got %s", action.Status)
	}

	inProgress := entity.ActionInProgress
	action, err = svc.UpdateAction(ctx, testutil.TestTenant, "insp-001", action.ID, "user-2", &UpdateActionRequest{
		Status: &inProgress,
	})
	if err != nil {
		t.Fatalf("Failed to move to IN_PROGRESS: %v", err)
	}
	if action.Status != entity.ActionInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", action.Status)
	}

	completed := entity.ActionCompleted
	result := "已返修复检通过"
	action, err = svc.UpdateAction(ctx, testutil.TestTenant, "insp-001", action.ID, "user-2", &UpdateActionRequest{
		Status: &completed,
		Result: &result,
	})
	if err != nil {
		t.Fatalf("Failed to complete: %v", err)
	}
	if action.Status != entity.ActionCompleted {
		t.Fatalf("expected COMPLETED, got %s", action.Status)
	}
	if action.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if action.Result != result {
		t.Fatalf("expected result saved, got %q", action.Result)
	}
}

// TestInspectionActionSkipTransition OPEN不能直接完成，失败时字段全部不落库
func TestInspectionActionSkipTransition(t *testing.T) {
	svc, db := setupInspectionTest(t)
	ctx := context.Background()

	testutil.SeedInspection(t, db, "insp-001", "QC-2026-001")

	action, err := svc.CreateAction(ctx, testutil.TestTenant, "insp-001", "user-1", &CreateActionRequest{
		Description: "待处理缺陷",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	completed := entity.ActionCompleted
	desc := "改写后的描述"
	_, err = svc.UpdateAction(ctx, testutil.TestTenant, "insp-001", action.ID, "user-1", &UpdateActionRequest{
		Status:      &completed,
		Description: &desc,
	})
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}

	actions, err := svc.ListActions(ctx, testutil.TestTenant, "insp-001")
	if err != nil {
		t.Fatalf("Failed to list actions: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Status != entity.ActionOpen {
		t.Fatalf("status changed despite rejection: %s", actions[0].Status)
	}
	if actions[0].Description != "待处理缺陷" {
		t.Fatalf("description changed despite rejection: %q", actions[0].Description)
	}
}

// TestInspectionActionSameStatusPatch 同状态更新视为普通patch
func TestInspectionActionSameStatusPatch(t *testing.T) {
	svc, db := setupInspectionTest(t)
	ctx := context.Background()

	testutil.SeedInspection(t, db, "insp-001", "QC-2026-001")

	action, err := svc.CreateAction(ctx, testutil.TestTenant, "insp-001", "user-1", &CreateActionRequest{
		Description: "原始描述",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	open := entity.ActionOpen
	assignee := "user-3"
	action, err = svc.UpdateAction(ctx, testutil.TestTenant, "insp-001", action.ID, "user-1", &UpdateActionRequest{
		Status:     &open,
		AssigneeID: &assignee,
	})
	if err != nil {
		t.Fatalf("expected same-status update to succeed, got %v", err)
	}
	if action.Status != entity.ActionOpen {
		t.Fatalf("expected OPEN, got %s", action.Status)
	}
	if action.AssigneeID != "user-3" {
		t.Fatalf("expected assignee patched, got %q", action.AssigneeID)
	}
}

// TestInspectionActionWrongInspection 通过其他检验单的ID操作改进单应按不存在处理
func TestInspectionActionWrongInspection(t *testing.T) {
	svc, db := setupInspectionTest(t)
	ctx := context.Background()

	testutil.SeedInspection(t, db, "insp-001", "QC-2026-001")
	testutil.SeedInspection(t, db, "insp-002", "QC-2026-002")

	action, err := svc.CreateAction(ctx, testutil.TestTenant, "insp-001", "user-1", &CreateActionRequest{
		Description: "原始描述",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	inProgress := entity.ActionInProgress
	if _, err := svc.UpdateAction(ctx, testutil.TestTenant, "insp-002", action.ID, "user-1", &UpdateActionRequest{
		Status: &inProgress,
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound via wrong inspection, got %v", err)
	}
	if err := svc.DeleteAction(ctx, testutil.TestTenant, "insp-002", action.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete via wrong inspection, got %v", err)
	}

	actions, err := svc.ListActions(ctx, testutil.TestTenant, "insp-001")
	if err != nil {
		t.Fatalf("Failed to list actions: %v", err)
	}
	if len(actions) != 1 || actions[0].Status != entity.ActionOpen {
		t.Fatalf("action mutated through wrong inspection: %+v", actions)
	}
}

// TestInspectionActionRequiresInspection 挂在不存在检验单下应失败
func TestInspectionActionRequiresInspection(t *testing.T) {
	svc, _ := setupInspectionTest(t)
	ctx := context.Background()

	_, err := svc.CreateAction(ctx, testutil.TestTenant, "insp-missing", "user-1", &CreateActionRequest{
		Description: "无主改进单",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestInspectionResultUpdate 检验结果按patch语义更新
func TestInspectionResultUpdate(t *testing.T) {
	svc, db := setupInspectionTest(t)
	ctx := context.Background()

	testutil.SeedInspection(t, db, "insp-001", "QC-2026-001")

	result := entity.InspectionResultFailed
	remarks := "尺寸超差"
	inspection, err := svc.Update(ctx, testutil.TestTenant, "insp-001", &UpdateInspectionRequest{
		Result:  &result,
		Remarks: &remarks,
	})
	if err != nil {
		t.Fatalf("Failed to update inspection: %v", err)
	}
	if inspection.Result != entity.InspectionResultFailed {
		t.Fatalf("expected FAILED, got %q", inspection.Result)
	}
	if inspection.Remarks != remarks {
		t.Fatalf("expected remarks patched, got %q", inspection.Remarks)
	}
	if inspection.Code != "QC-2026-001" {
		t.Fatalf("code must not change, got %q", inspection.Code)
	}
}
