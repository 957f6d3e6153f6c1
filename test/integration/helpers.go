package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/disko/internal/config"
	"github.com/danieljhkim/disko/internal/engine"
	"github.com/danieljhkim/disko/internal/execx"
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	cwd   string
	files map[string][]byte
	dirs  map[string]bool
	links map[string]string
}

func newTestFS() *testFS {
	return &testFS{
		cwd:   "/etc/nixos",
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		links: make(map[string]string),
	}
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(fs.cwd, path), nil
}

// EvalSymlinks follows the links registered by the test. Unknown /dev
// paths behave like missing udev symlinks.
func (fs *testFS) EvalSymlinks(path string) (string, error) {
	if target, ok := fs.links[path]; ok {
		return target, nil
	}
	if strings.HasPrefix(path, "/dev/disk/") {
		return "", os.ErrNotExist
	}
	return path, nil
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.files[path] = append([]byte(nil), data...)
	return fs.MkdirAll(filepath.Dir(path), 0755)
}

// machine is the state of the disks as lsblk reports it. Tests advance it
// to simulate the effect of running a plan.
type machine struct {
	runner *execx.FakeRunner
}

func (m *machine) set(lsblk string) {
	m.runner.Outputs["lsblk"] = []byte(lsblk)
}

func (m *machine) lsblkCalls() int {
	n := 0
	for _, call := range m.runner.Calls {
		if call[0] == "lsblk" {
			n++
		}
	}
	return n
}

func setupTestEngine(t *testing.T) (*engine.Engine, *testFS, *machine) {
	t.Helper()

	fs := newTestFS()
	runner := execx.NewFakeRunner()
	m := &machine{runner: runner}
	m.set(`{"blockdevices": []}`)

	eng := engine.NewWithRunner(config.DefaultSettings(), runner, fs, zerolog.Nop())
	return eng, fs, m
}
