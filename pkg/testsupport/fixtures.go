package testsupport

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webtempl/internal/logger"
	"github.com/goliatone/go-webtempl/pkg/future"
	"github.com/goliatone/go-webtempl/pkg/host"
	"github.com/goliatone/go-webtempl/pkg/settings"
)

// AwaitTimeout bounds how long Await waits for a render.
const AwaitTimeout = 5 * time.Second

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// NewHost builds a quiet host with resources as the bundled root and the
// test's working directory as the filesystem root.
func NewHost(t *testing.T, resources fs.FS, options ...host.Option) *host.Host {
	t.Helper()

	opts := []host.Option{host.WithLogger(logger.Discard())}
	if resources != nil {
		opts = append(opts, host.WithResources(resources))
	}
	h, err := host.New(append(opts, options...)...)
	if err != nil {
		t.Fatalf("new host: %v", err)
	}
	return h
}

// SubFS narrows an embedded tree to dir, failing the test on error.
func SubFS(t *testing.T, fsys fs.FS, dir string) fs.FS {
	t.Helper()

	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return sub
}

// Await waits for a future and fails the test on error or timeout.
func Await[T any](t *testing.T, f *future.Future[T]) T {
	t.Helper()

	value, err := AwaitResult(t, f)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	return value
}

// AwaitResult waits for a future and returns its outcome. Only a timeout
// fails the test.
func AwaitResult[T any](t *testing.T, f *future.Future[T]) (T, error) {
	t.Helper()

	select {
	case <-f.Done():
		return f.Result()
	case <-time.After(AwaitTimeout):
		t.Fatalf("future did not complete within %s", AwaitTimeout)
	}
	var zero T
	return zero, nil
}

// SetMode sets the environment property for the duration of the test.
func SetMode(t *testing.T, mode string) {
	t.Helper()

	prev, had := settings.Lookup(settings.EnvironmentKey)
	settings.Set(settings.EnvironmentKey, mode)
	t.Cleanup(func() {
		if had {
			settings.Set(settings.EnvironmentKey, prev)
			return
		}
		settings.Unset(settings.EnvironmentKey)
	})
}

// WriteTemplate writes content to dir/name and returns the absolute path.
func WriteTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir template dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs path: %v", err)
	}
	return abs
}

// NormalizeCRLF rewrites Windows line endings so goldens compare on every
// host.
func NormalizeCRLF(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content
// with line endings normalised.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return NormalizeCRLF(string(MustReadGolden(t, path)))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
