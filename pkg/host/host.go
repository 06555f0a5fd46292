package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-webtempl/internal/logger"
)

// Option configures a Host before construction.
type Option func(*config)

type config struct {
	resources fs.FS
	files     billy.Basic
	workDir   string
	workers   int64
	logger    *log.Logger
}

// WithResources sets the bundled resource root searched before the
// filesystem.
func WithResources(resources fs.FS) Option {
	return func(cfg *config) {
		cfg.resources = resources
	}
}

// WithFileSystem replaces the working-directory filesystem. Defaults to the
// operating system.
func WithFileSystem(files billy.Basic) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithWorkDir overrides the directory relative template paths are resolved
// against. Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(cfg *config) {
		cfg.workDir = strings.TrimSpace(dir)
	}
}

// WithWorkers bounds the number of blocking tasks running at once.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = int64(n)
		}
	}
}

// WithLogger sets the logger shared with engines bound to the host.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// Host bundles the source roots, the blocking executor and the logger.
type Host struct {
	roots  []Root
	sem    *semaphore.Weighted
	logger *log.Logger
}

// New constructs a Host.
func New(options ...Option) (*Host, error) {
	cfg := &config{
		workers: int64(runtime.NumCPU()),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("host: resolve working directory: %w", err)
		}
		cfg.workDir = wd
	}
	if cfg.files == nil {
		cfg.files = osfs.Default
	}
	if cfg.logger == nil {
		cfg.logger = logger.New("info")
	}

	var roots []Root
	if cfg.resources != nil {
		roots = append(roots, NewResourceRoot(cfg.resources))
	}
	roots = append(roots, NewFileSystemRoot(cfg.files, cfg.workDir))

	return &Host{
		roots:  roots,
		sem:    semaphore.NewWeighted(cfg.workers),
		logger: cfg.logger,
	}, nil
}

// Logger returns the shared logger.
func (h *Host) Logger() *log.Logger {
	return h.logger
}

// Roots lists the source roots in lookup order.
func (h *Host) Roots() []Root {
	out := make([]Root, len(h.roots))
	copy(out, h.roots)
	return out
}

// Source is a template file read from one of the roots.
type Source struct {
	Key  string
	Root string
	Data []byte
}

// LookupError reports a key missing from every root. It matches
// fs.ErrNotExist.
type LookupError struct {
	Key      string
	Searched []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("host: %s not found in %s", e.Key, strings.Join(e.Searched, ", "))
}

func (e *LookupError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// Load reads key from the first root that has it. Errors other than
// "does not exist" stop the lookup.
func (h *Host) Load(key string) (Source, error) {
	searched := make([]string, 0, len(h.roots))
	for _, root := range h.roots {
		searched = append(searched, root.Name())

		data, err := root.ReadFile(key)
		if err == nil {
			return Source{Key: key, Root: root.Name(), Data: data}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Source{}, fmt.Errorf("host: read %s from %s: %w", key, root.Name(), err)
	}
	return Source{}, &LookupError{Key: key, Searched: searched}
}
