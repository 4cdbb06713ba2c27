package entity

import "testing"

func TestWorkOrderStatusCanTransition(t *testing.T) {
	all := []WorkOrderStatus{
		WorkOrderPending, WorkOrderReady, WorkOrderInProgress,
		WorkOrderCompleted, WorkOrderCancelled,
	}

	allowed := map[WorkOrderStatus]map[WorkOrderStatus]bool{
		WorkOrderPending:    {WorkOrderReady: true, WorkOrderInProgress: true, WorkOrderCancelled: true},
		WorkOrderReady:      {WorkOrderInProgress: true, WorkOrderCancelled: true},
		WorkOrderInProgress: {WorkOrderCompleted: true, WorkOrderCancelled: true},
		WorkOrderCompleted:  {},
		WorkOrderCancelled:  {WorkOrderCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransition(to); got != want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestWorkOrderCompletedIsTerminal(t *testing.T) {
	for _, to := range []WorkOrderStatus{
		WorkOrderPending, WorkOrderReady, WorkOrderInProgress,
		WorkOrderCompleted, WorkOrderCancelled,
	} {
		if WorkOrderCompleted.CanTransition(to) {
			t.Errorf("COMPLETED must be terminal, but transition to %s allowed", to)
		}
	}
}
