package execx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExecRunner_Success(t *testing.T) {
	out, err := NewExecRunner().Run(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("expected hello, got %q", out)
	}
}

func TestExecRunner_FailureCapturesStderr(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("expected ErrCommandFailed, got %v", err)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %T", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("expected stderr boom, got %q", cmdErr.Stderr)
	}
	if cmdErr.Details()["stderr"] != "boom" {
		t.Errorf("expected stderr in details, got %v", cmdErr.Details())
	}
}

func TestExecRunner_MissingProgram(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "disko-definitely-not-installed")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}
}

func TestExecRunner_Env(t *testing.T) {
	r := &ExecRunner{Env: []string{"DISKO_TEST_VALUE=42"}}
	out, err := r.Run(context.Background(), "sh", "-c", "printf $DISKO_TEST_VALUE")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if string(out) != "42" {
		t.Errorf("expected 42, got %q", out)
	}
}

func TestFakeRunner(t *testing.T) {
	f := NewFakeRunner()
	f.Outputs["lsblk"] = []byte(`{"blockdevices":[]}`)

	out, err := f.Run(context.Background(), "lsblk", "--json")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(string(out), "blockdevices") {
		t.Errorf("unexpected output %q", out)
	}
	if len(f.Calls) != 1 || f.Calls[0][1] != "--json" {
		t.Errorf("unexpected calls %v", f.Calls)
	}

	if _, err := f.Run(context.Background(), "nix"); !errors.Is(err, ErrCommandFailed) {
		t.Errorf("expected ErrCommandFailed for unknown program, got %v", err)
	}
}
