package models

import "fmt"

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunDraft      RunStatus = "DRAFT"
	RunPicking    RunStatus = "PICKING"
	RunReady      RunStatus = "READY"
	RunScheduled  RunStatus = "SCHEDULED"
	RunInProgress RunStatus = "IN_PROGRESS"
	RunCompleted  RunStatus = "COMPLETED"
	RunCancelled  RunStatus = "CANCELLED"
	RunHistorical RunStatus = "HISTORICAL"
)

// RunEvent is something that happens to a run and may move it forward.
type RunEvent string

const (
	RunEventPickingStarted    RunEvent = "picking_started"
	RunEventPickingFinished   RunEvent = "picking_finished"
	RunEventPickingReopened   RunEvent = "picking_reopened"
	RunEventScheduled         RunEvent = "scheduled"
	RunEventDeliveryStarted   RunEvent = "delivery_started"
	RunEventDeliveryCompleted RunEvent = "delivery_completed"
	RunEventCancelled         RunEvent = "cancelled"
	RunEventArchived          RunEvent = "archived"
)

// TransitionError reports an illegal run transition.
type TransitionError struct {
	From  RunStatus
	Event RunEvent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("run in state %s cannot accept event %s", e.From, e.Event)
}

// IsTerminal reports whether no further events are accepted in this state.
func (s RunStatus) IsTerminal() bool {
	return s == RunCancelled || s == RunHistorical
}

// IsLocked reports whether pick entries of a run in this state may no longer
// be mutated.
func (s RunStatus) IsLocked() bool {
	return s == RunCompleted || s == RunCancelled
}

// runTransitions is the forward chain. Cancel and archive are handled
// separately since they apply from many states.
var runTransitions = map[RunStatus]map[RunEvent]RunStatus{
	RunDraft: {
		RunEventPickingStarted: RunPicking,
	},
	RunPicking: {
		RunEventPickingFinished: RunReady,
	},
	RunReady: {
		RunEventPickingReopened: RunPicking,
		RunEventScheduled:       RunScheduled,
	},
	RunScheduled: {
		RunEventDeliveryStarted: RunInProgress,
	},
	RunInProgress: {
		RunEventDeliveryCompleted: RunCompleted,
	},
}

// NextRunStatus applies an event to a run status and returns the resulting
// status. The forward chain never skips a state; cancel and archive are
// administrative moves reachable from any non-terminal state (a completed run
// cannot be cancelled, only archived).
func NextRunStatus(s RunStatus, e RunEvent) (RunStatus, error) {
	switch e {
	case RunEventCancelled:
		if s.IsTerminal() || s == RunCompleted {
			return s, &TransitionError{From: s, Event: e}
		}
		return RunCancelled, nil
	case RunEventArchived:
		if s.IsTerminal() {
			return s, &TransitionError{From: s, Event: e}
		}
		return RunHistorical, nil
	}
	if next, ok := runTransitions[s][e]; ok {
		return next, nil
	}
	return s, &TransitionError{From: s, Event: e}
}
