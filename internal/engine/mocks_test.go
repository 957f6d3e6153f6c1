package engine

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/devices"
	"github.com/danieljhkim/disko/internal/evaluator"
	"github.com/danieljhkim/disko/internal/inventory"
	"github.com/danieljhkim/disko/internal/planner"
	"github.com/danieljhkim/disko/internal/result"
)

// mockEvaluator returns a fixed configuration.
type mockEvaluator struct {
	raw   []byte
	err   *result.Error
	calls int
}

func (m *mockEvaluator) Evaluate(_ context.Context, _ evaluator.Source) result.Result[[]byte] {
	m.calls++
	if m.err != nil {
		return result.Fail[[]byte](m.err)
	}
	return result.Ok(m.raw, "evaluate disko config")
}

// mockInventory returns a fixed machine state.
type mockInventory struct {
	current      devices.Config
	generated    inventory.Generated
	err          *result.Error
	currentCalls int
}

func (m *mockInventory) Raw(_ context.Context) result.Result[string] {
	return result.Ok(`{"blockdevices": []}`, "run disko dev lsblk")
}

func (m *mockInventory) Current(_ context.Context) result.Result[devices.Config] {
	m.currentCalls++
	if m.err != nil {
		return result.Fail[devices.Config](m.err)
	}
	return result.Ok(m.current, "list block devices")
}

func (m *mockInventory) Generate(_ context.Context) result.Result[inventory.Generated] {
	if m.err != nil {
		return result.Fail[inventory.Generated](m.err)
	}
	return result.Ok(m.generated, "generate disko config")
}

// mockFS records writes and resolves the symlinks in links.
type mockFS struct {
	written map[string][]byte
	links   map[string]string
}

func newMockFS() *mockFS {
	return &mockFS{written: map[string][]byte{}, links: map[string]string{}}
}

func (m *mockFS) ReadFile(path string) ([]byte, error) {
	return m.written[path], nil
}

func (m *mockFS) Exists(path string) (bool, error) {
	_, ok := m.written[path]
	return ok, nil
}

func (m *mockFS) Abs(path string) (string, error) {
	return "/work/" + path, nil
}

func (m *mockFS) EvalSymlinks(path string) (string, error) {
	if target, ok := m.links[path]; ok {
		return target, nil
	}
	return path, nil
}

func (m *mockFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	m.written[path] = data
	return nil
}

func newTestEngine(eval *mockEvaluator, inv *mockInventory, fs *mockFS) *Engine {
	logger := zerolog.Nop()
	return New(eval, inv, planner.NewReconciler(logger, DefaultBackends(logger)...), fs, logger)
}
