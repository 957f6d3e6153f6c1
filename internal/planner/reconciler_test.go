package planner

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/result"
)

// fakeBackend records its invocations and returns a canned result.
type fakeBackend struct {
	subsystem devices.Subsystem
	calls     *[]devices.Subsystem
	seenCur   devices.Config
	steps     []Step
	err       *result.Error
}

func (f *fakeBackend) Subsystem() devices.Subsystem {
	return f.subsystem
}

func (f *fakeBackend) Plan(actions ActionSet, current, target devices.Config) result.Result[*Plan] {
	*f.calls = append(*f.calls, f.subsystem)
	f.seenCur = current
	if f.err != nil {
		return result.Fail[*Plan](f.err)
	}
	plan := NewPlan(actions)
	for _, s := range f.steps {
		plan.Append(s)
	}
	return result.Ok(plan, "fake plan")
}

func newFakeBackends(calls *[]devices.Subsystem) map[devices.Subsystem]*fakeBackend {
	out := map[devices.Subsystem]*fakeBackend{}
	for _, s := range devices.Subsystems() {
		out[s] = &fakeBackend{subsystem: s, calls: calls}
	}
	return out
}

func reconcilerFor(fakes map[devices.Subsystem]*fakeBackend) *Reconciler {
	backends := make([]Backend, 0, len(fakes))
	// Register in reverse to show that dispatch order does not depend on
	// registration order.
	subs := devices.Subsystems()
	for i := len(subs) - 1; i >= 0; i-- {
		backends = append(backends, fakes[subs[i]])
	}
	return NewReconciler(zerolog.Nop(), backends...)
}

func TestGeneratePlan_DispatchOrder(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)

	_, err := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionFormat), devices.Empty(), devices.Empty()).Unwrap()
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	want := devices.Subsystems()
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
}

func TestGeneratePlan_FailFast(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)
	diskErr := result.NewError(result.CodeDuplicatedDiskDevices, result.Details{"devices": []string{"/dev/sda"}}, "generate disk plan")
	fakes[devices.SubsystemDisk].err = diskErr
	fakes[devices.SubsystemNodev].steps = []Step{{Action: ActionMount, Commands: [][]string{{"mount"}}}}

	out := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionMount), devices.Empty(), devices.Empty())

	if out.IsOk() {
		t.Fatal("expected failure")
	}
	if out.Err() != diskErr {
		t.Error("expected the disk error to be returned unchanged")
	}
	if len(calls) != 1 || calls[0] != devices.SubsystemDisk {
		t.Errorf("expected only the disk backend to run, got %v", calls)
	}
}

func TestGeneratePlan_FirstErrorInFixedOrderWins(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)
	fakes[devices.SubsystemMdadm].err = result.NewError(result.CodeBugUnsupportedSubsystem, nil, "mdadm")
	fakes[devices.SubsystemZpool].err = result.NewError(result.CodeBugUnsupportedSubsystem, nil, "zpool")

	out := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionFormat), devices.Empty(), devices.Empty())

	if out.IsOk() || out.Err().Stage != "mdadm" {
		t.Fatalf("expected the mdadm error, got %+v", out.Err())
	}
}

func TestGeneratePlan_DestroyDiscardsCurrent(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)

	current := devices.Empty()
	current.Disk["sda"] = devices.Disk{Device: "/dev/sda"}
	current.Nodev["/tmp"] = devices.Nodev{FSType: "tmpfs", Mountpoint: "/tmp"}

	_, err := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionDestroy, ActionFormat, ActionMount), current, devices.Empty()).Unwrap()
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	for s, f := range fakes {
		if !f.seenCur.IsEmpty() {
			t.Errorf("backend %s saw a non-empty current state", s)
		}
	}
}

func TestGeneratePlan_KeepsCurrentWithoutDestroy(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)

	current := devices.Empty()
	current.Disk["sda"] = devices.Disk{Device: "/dev/sda"}

	_, err := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionFormat, ActionMount), current, devices.Empty()).Unwrap()
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if fakes[devices.SubsystemDisk].seenCur.Count(devices.SubsystemDisk) != 1 {
		t.Error("expected the disk backend to see the current disk")
	}
}

func TestGeneratePlan_ConcatenatesInSubsystemOrderByStage(t *testing.T) {
	var calls []devices.Subsystem
	fakes := newFakeBackends(&calls)
	fakes[devices.SubsystemDisk].steps = []Step{
		{Action: ActionFormat, Description: "disk format", Commands: [][]string{{"mkfs"}}},
		{Action: ActionMount, Description: "disk mount", Mountpoint: "/", Commands: [][]string{{"mount"}}},
	}
	fakes[devices.SubsystemNodev].steps = []Step{
		{Action: ActionMount, Description: "nodev mount", Mountpoint: "/tmp", Commands: [][]string{{"mount"}}},
	}
	fakes[devices.SubsystemMdadm].steps = []Step{
		{Action: ActionFormat, Description: "mdadm format", Commands: [][]string{{"mdadm"}}},
	}

	plan, err := reconcilerFor(fakes).GeneratePlan(NewActionSet(ActionFormat, ActionMount), devices.Empty(), devices.Empty()).Unwrap()
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	want := []string{"disk format", "mdadm format", "disk mount", "nodev mount"}
	if plan.Len() != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), plan.Len())
	}
	for i, desc := range want {
		if plan.Steps[i].Description != desc {
			t.Errorf("step %d: expected %q, got %q", i, desc, plan.Steps[i].Description)
		}
	}
}

func TestGeneratePlan_MissingBackendWithEntriesIsBug(t *testing.T) {
	target := devices.Empty()
	target.LVMVG["pool"] = devices.Entity{"type": "lvm_vg"}

	out := NewReconciler(zerolog.Nop()).GeneratePlan(NewActionSet(ActionFormat), devices.Empty(), target)

	if out.IsOk() {
		t.Fatal("expected failure")
	}
	if out.Err().Code() != result.CodeBugUnsupportedSubsystem {
		t.Errorf("expected %s, got %s", result.CodeBugUnsupportedSubsystem, out.Err().Code())
	}
}

func TestGeneratePlan_EmptyActionSetIsBug(t *testing.T) {
	out := NewReconciler(zerolog.Nop()).GeneratePlan(NewActionSet(), devices.Empty(), devices.Empty())
	if out.IsOk() || out.Err().Severity() != result.SeverityBug {
		t.Fatal("expected a bug-classified failure")
	}
}

func TestBind_SelectsSubtree(t *testing.T) {
	rec := &recordingSubtree{}
	backend := Bind[devices.Nodev](devices.SubsystemNodev, rec, NodevSubtree)

	target := devices.Empty()
	target.Nodev["/tmp"] = devices.Nodev{FSType: "tmpfs"}

	if backend.Subsystem() != devices.SubsystemNodev {
		t.Errorf("unexpected subsystem %s", backend.Subsystem())
	}
	if _, err := backend.Plan(NewActionSet(ActionMount), devices.Config{}, target).Unwrap(); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if rec.current == nil || len(rec.current) != 0 {
		t.Error("expected a non-nil empty current subtree")
	}
	if len(rec.target) != 1 {
		t.Errorf("expected 1 target entry, got %d", len(rec.target))
	}
}

type recordingSubtree struct {
	current map[string]devices.Nodev
	target  map[string]devices.Nodev
}

func (r *recordingSubtree) PlanFor(actions ActionSet, current, target map[string]devices.Nodev) result.Result[*Plan] {
	r.current = current
	r.target = target
	return result.Ok(NewPlan(actions), "recorded")
}
