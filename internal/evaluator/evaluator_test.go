package evaluator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/execx"
	"github.com/danieljhkim/disko/internal/fsops"
	"github.com/danieljhkim/disko/internal/result"
)

// mockFS serves files from memory under a fixed working directory.
type mockFS struct {
	cwd   string
	files map[string][]byte
}

func newMockFS() *mockFS {
	return &mockFS{cwd: "/work", files: map[string][]byte{}}
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mockFS) Exists(path string) (bool, error) {
	abs, _ := m.Abs(path)
	if _, ok := m.files[abs]; ok {
		return true, nil
	}
	// Directories exist if any file lives below them.
	for p := range m.files {
		if strings.HasPrefix(p, abs+"/") {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFS) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(m.cwd, path), nil
}

func (m *mockFS) EvalSymlinks(path string) (string, error)                     { return m.Abs(path) }
func (m *mockFS) AtomicWrite(path string, data []byte, perm os.FileMode) error { return nil }

var _ fsops.FS = (*mockFS)(nil)

func newEvaluator(fs *mockFS, runner *execx.FakeRunner) *Evaluator {
	return New(fs, runner, "nix", zerolog.Nop())
}

func TestEvaluate_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      Source
		wantCode result.Code
	}{
		{"missing", Source{}, result.CodeMissingArguments},
		{"too many", Source{File: "disko.nix", Flake: ".#host"}, result.CodeTooManyArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEvaluator(newMockFS(), execx.NewFakeRunner()).Evaluate(context.Background(), tt.src).Unwrap()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code() != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, err.Code())
			}
			if err.Stage != "validate args" {
				t.Errorf("expected stage 'validate args', got %q", err.Stage)
			}
		})
	}
}

func TestEvaluate_FileNotFound(t *testing.T) {
	_, err := newEvaluator(newMockFS(), execx.NewFakeRunner()).Evaluate(context.Background(), Source{File: "missing.nix"}).Unwrap()
	if err == nil || err.Code() != result.CodeFileNotFound {
		t.Fatalf("expected %s, got %v", result.CodeFileNotFound, err)
	}
	if err.Context()["path"] != "/work/missing.nix" {
		t.Errorf("expected absolute path in context, got %v", err.Context()["path"])
	}
}

func TestEvaluate_JSONFile(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/disko.json"] = []byte(`{"disko": {"devices": {"disk": {"main": {"device": "/dev/sda"}}}}}`)
	runner := execx.NewFakeRunner()

	out, err := newEvaluator(fs, runner).Evaluate(context.Background(), Source{File: "disko.json"}).Unwrap()
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if string(out) != `{"disk": {"main": {"device": "/dev/sda"}}}` {
		t.Errorf("expected unwrapped devices, got %s", out)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("json files must not invoke nix, got %v", runner.Calls)
	}
}

func TestEvaluate_YAMLFile(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/disko.yaml"] = []byte(`
disk:
  main:
    device: /dev/vda
    content:
      type: gpt
      partitions:
        root:
          size: 100%
          content:
            type: filesystem
            format: ext4
            mountpoint: /
`)

	out, err := newEvaluator(fs, execx.NewFakeRunner()).Evaluate(context.Background(), Source{File: "disko.yaml"}).Unwrap()
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	for _, want := range []string{`"device":"/dev/vda"`, `"format":"ext4"`, `"size":"100%"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestEvaluate_InvalidYAML(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/bad.yml"] = []byte("disk: [unterminated")

	_, err := newEvaluator(fs, execx.NewFakeRunner()).Evaluate(context.Background(), Source{File: "bad.yml"}).Unwrap()
	if err == nil || err.Code() != result.CodeEvalConfigFailed {
		t.Fatalf("expected %s, got %v", result.CodeEvalConfigFailed, err)
	}
}

func TestEvaluate_NixFile(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/disko-config.nix"] = []byte("{ disko.devices = { }; }")
	runner := execx.NewFakeRunner()
	runner.Outputs["nix"] = []byte(`{"disk":{},"lvm_vg":{},"mdadm":{},"nodev":{},"zpool":{}}` + "\n")

	out, err := newEvaluator(fs, runner).Evaluate(context.Background(), Source{File: "disko-config.nix"}).Unwrap()
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !strings.HasPrefix(string(out), `{"disk":{}`) {
		t.Errorf("unexpected output %s", out)
	}

	if len(runner.Calls) != 1 {
		t.Fatalf("expected one nix call, got %d", len(runner.Calls))
	}
	call := runner.Calls[0]
	joined := strings.Join(call, " ")
	if !strings.Contains(joined, "eval --impure --json --expr") {
		t.Errorf("unexpected nix invocation: %v", call)
	}
	if !strings.Contains(call[len(call)-1], `import "/work/disko-config.nix"`) {
		t.Errorf("expression does not import the file: %s", call[len(call)-1])
	}
}

func TestEvaluate_NixFailure(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/broken.nix"] = []byte("{")
	runner := execx.NewFakeRunner()
	runner.Errors["nix"] = &execx.CommandError{
		Command:  []string{"nix", "eval"},
		ExitCode: 1,
		Stderr:   "error: syntax error, unexpected end of file",
		Err:      errors.New("exit status 1"),
	}

	_, err := newEvaluator(fs, runner).Evaluate(context.Background(), Source{File: "broken.nix"}).Unwrap()
	if err == nil || err.Code() != result.CodeEvalConfigFailed {
		t.Fatalf("expected %s, got %v", result.CodeEvalConfigFailed, err)
	}
	ctx := err.Context()
	if ctx["stderr"] != "error: syntax error, unexpected end of file" {
		t.Errorf("expected nix stderr in context, got %v", ctx["stderr"])
	}
	args, ok := ctx["args"].(map[string]string)
	if !ok || args["diskoFile"] != "/work/broken.nix" {
		t.Errorf("expected args in context, got %v", ctx["args"])
	}
	if err.Severity() != result.SeverityUserError {
		t.Error("evaluation failures are user errors")
	}
}

func TestEvaluate_Flake(t *testing.T) {
	t.Run("missing attribute", func(t *testing.T) {
		_, err := newEvaluator(newMockFS(), execx.NewFakeRunner()).Evaluate(context.Background(), Source{Flake: "github:me/nixos"}).Unwrap()
		if err == nil || err.Code() != result.CodeFlakeURINoAttr {
			t.Fatalf("expected %s, got %v", result.CodeFlakeURINoAttr, err)
		}
		if err.Context()["flake_uri"] != "github:me/nixos" {
			t.Errorf("unexpected context %v", err.Context())
		}
	})

	t.Run("empty attribute", func(t *testing.T) {
		_, err := newEvaluator(newMockFS(), execx.NewFakeRunner()).Evaluate(context.Background(), Source{Flake: "github:me/nixos#"}).Unwrap()
		if err == nil || err.Code() != result.CodeFlakeURINoAttr {
			t.Fatalf("expected %s, got %v", result.CodeFlakeURINoAttr, err)
		}
	})

	t.Run("remote flake", func(t *testing.T) {
		runner := execx.NewFakeRunner()
		runner.Outputs["nix"] = []byte(`{"disk":{}}`)

		_, err := newEvaluator(newMockFS(), runner).Evaluate(context.Background(), Source{Flake: "github:me/nixos#laptop"}).Unwrap()
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		call := runner.Calls[0]
		want := `github:me/nixos#nixosConfigurations."laptop".config.disko.devices`
		if call[len(call)-1] != want {
			t.Errorf("expected %s, got %s", want, call[len(call)-1])
		}
	})

	t.Run("local flake is made absolute", func(t *testing.T) {
		fs := newMockFS()
		fs.files["/work/config/flake.nix"] = []byte("{ }")
		runner := execx.NewFakeRunner()
		runner.Outputs["nix"] = []byte(`{"disk":{}}`)

		_, err := newEvaluator(fs, runner).Evaluate(context.Background(), Source{Flake: "config#server"}).Unwrap()
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		call := runner.Calls[0]
		if !strings.HasPrefix(call[len(call)-1], "/work/config#") {
			t.Errorf("expected absolute flake path, got %s", call[len(call)-1])
		}
	})
}

func TestEvaluate_NonObjectOutput(t *testing.T) {
	fs := newMockFS()
	fs.files["/work/list.json"] = []byte(`[1, 2, 3]`)

	_, err := newEvaluator(fs, execx.NewFakeRunner()).Evaluate(context.Background(), Source{File: "list.json"}).Unwrap()
	if err == nil || err.Code() != result.CodeEvalConfigFailed {
		t.Fatalf("expected %s, got %v", result.CodeEvalConfigFailed, err)
	}
}
