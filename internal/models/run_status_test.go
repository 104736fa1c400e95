package models

import "testing"

func TestNextRunStatusForwardChain(t *testing.T) {
	tests := []struct {
		name  string
		from  RunStatus
		event RunEvent
		want  RunStatus
	}{
		{"draft starts picking", RunDraft, RunEventPickingStarted, RunPicking},
		{"picking finishes", RunPicking, RunEventPickingFinished, RunReady},
		{"ready reopens", RunReady, RunEventPickingReopened, RunPicking},
		{"ready schedules", RunReady, RunEventScheduled, RunScheduled},
		{"scheduled starts delivery", RunScheduled, RunEventDeliveryStarted, RunInProgress},
		{"in progress completes", RunInProgress, RunEventDeliveryCompleted, RunCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRunStatus(tt.from, tt.event)
			if err != nil {
				t.Fatalf("NextRunStatus(%s, %s) returned error: %v", tt.from, tt.event, err)
			}
			if got != tt.want {
				t.Errorf("NextRunStatus(%s, %s) = %s, want %s", tt.from, tt.event, got, tt.want)
			}
		})
	}
}

func TestNextRunStatusNeverSkipsStates(t *testing.T) {
	tests := []struct {
		name  string
		from  RunStatus
		event RunEvent
	}{
		{"draft cannot finish picking", RunDraft, RunEventPickingFinished},
		{"draft cannot schedule", RunDraft, RunEventScheduled},
		{"picking cannot schedule", RunPicking, RunEventScheduled},
		{"ready cannot start delivery", RunReady, RunEventDeliveryStarted},
		{"scheduled cannot complete", RunScheduled, RunEventDeliveryCompleted},
		{"completed accepts no forward events", RunCompleted, RunEventDeliveryCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NextRunStatus(tt.from, tt.event); err == nil {
				t.Errorf("NextRunStatus(%s, %s) should fail", tt.from, tt.event)
			}
		})
	}
}

func TestNextRunStatusCancelAndArchive(t *testing.T) {
	// Cancel works from any active state but never from COMPLETED.
	for _, from := range []RunStatus{RunDraft, RunPicking, RunReady, RunScheduled, RunInProgress} {
		got, err := NextRunStatus(from, RunEventCancelled)
		if err != nil {
			t.Errorf("cancel from %s returned error: %v", from, err)
		}
		if got != RunCancelled {
			t.Errorf("cancel from %s = %s, want CANCELLED", from, got)
		}
	}
	if _, err := NextRunStatus(RunCompleted, RunEventCancelled); err == nil {
		t.Error("cancel from COMPLETED should fail")
	}

	// Archive works from anything non-terminal, including COMPLETED.
	for _, from := range []RunStatus{RunDraft, RunPicking, RunReady, RunScheduled, RunInProgress, RunCompleted} {
		got, err := NextRunStatus(from, RunEventArchived)
		if err != nil {
			t.Errorf("archive from %s returned error: %v", from, err)
		}
		if got != RunHistorical {
			t.Errorf("archive from %s = %s, want HISTORICAL", from, got)
		}
	}

	// Terminal states accept nothing.
	for _, from := range []RunStatus{RunCancelled, RunHistorical} {
		for _, event := range []RunEvent{RunEventCancelled, RunEventArchived, RunEventPickingStarted} {
			if _, err := NextRunStatus(from, event); err == nil {
				t.Errorf("%s should reject event %s", from, event)
			}
		}
	}
}

func TestRunStatusFlags(t *testing.T) {
	if !RunCompleted.IsLocked() || !RunCancelled.IsLocked() {
		t.Error("COMPLETED and CANCELLED must lock pick mutations")
	}
	if RunHistorical.IsLocked() {
		t.Error("HISTORICAL is terminal but does not itself lock picks")
	}
	if !RunCancelled.IsTerminal() || !RunHistorical.IsTerminal() {
		t.Error("CANCELLED and HISTORICAL must be terminal")
	}
	if RunCompleted.IsTerminal() {
		t.Error("COMPLETED is not terminal, it can still be archived")
	}
}
