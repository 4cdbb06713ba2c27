package entity

import "testing"

func TestActionStatusCanTransition(t *testing.T) {
	all := []ActionStatus{ActionOpen, ActionInProgress, ActionCompleted}

	tests := []struct {
		from ActionStatus
		to   ActionStatus
		want bool
	}{
		{ActionOpen, ActionOpen, true}, // 同状态无操作
		{ActionOpen, ActionInProgress, true},
		{ActionOpen, ActionCompleted, false}, // 不允许跳级
		{ActionInProgress, ActionOpen, false},
		{ActionInProgress, ActionInProgress, true},
		{ActionInProgress, ActionCompleted, true},
		{ActionCompleted, ActionOpen, false},
		{ActionCompleted, ActionInProgress, false},
		{ActionCompleted, ActionCompleted, true},
	}

	if len(tests) != len(all)*len(all) {
		t.Fatalf("transition table not fully enumerated: %d cases, want %d", len(tests), len(all)*len(all))
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
