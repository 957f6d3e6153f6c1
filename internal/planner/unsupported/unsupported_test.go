package unsupported

import (
	"testing"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

func TestBackends_EmptySubtreeIsOk(t *testing.T) {
	actions := planner.NewActionSet(planner.ActionFormat)
	for _, backend := range Backends() {
		plan, err := backend.Plan(actions, devices.Empty(), devices.Empty()).Unwrap()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", backend.Subsystem(), err)
		}
		if plan.Len() != 0 {
			t.Errorf("%s: expected empty plan", backend.Subsystem())
		}
	}
}

func TestBackends_EntriesAreBug(t *testing.T) {
	target := devices.Empty()
	target.LVMVG["pool"] = devices.Entity{"type": "lvm_vg"}
	target.Zpool["zroot"] = devices.Entity{"type": "zpool"}

	tests := []struct {
		subsystem devices.Subsystem
		wantErr   bool
	}{
		{devices.SubsystemLVMVG, true},
		{devices.SubsystemMdadm, false},
		{devices.SubsystemZpool, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.subsystem), func(t *testing.T) {
			backend := New(tt.subsystem).Backend()
			if backend.Subsystem() != tt.subsystem {
				t.Fatalf("expected %s, got %s", tt.subsystem, backend.Subsystem())
			}

			_, err := backend.Plan(planner.NewActionSet(planner.ActionMount), devices.Empty(), target).Unwrap()
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err == nil {
				return
			}
			if err.Code() != result.CodeBugUnsupportedSubsystem {
				t.Errorf("expected %s, got %s", result.CodeBugUnsupportedSubsystem, err.Code())
			}
			if err.Severity() != result.SeverityBug {
				t.Error("expected bug severity")
			}
			if got := err.Context()["subsystem"]; got != string(tt.subsystem) {
				t.Errorf("expected subsystem %s in context, got %v", tt.subsystem, got)
			}
		})
	}
}
