package templ

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by errors.Is for templates missing from every root.
var ErrNotFound = errors.New("templ: template not found")

// NotFoundError reports a template absent from all source roots.
type NotFoundError struct {
	Path  string
	Roots []string
}

func (e *NotFoundError) Error() string {
	if len(e.Roots) == 0 {
		return fmt.Sprintf("templ: template %q not found", e.Path)
	}
	return fmt.Sprintf("templ: template %q not found (searched %s)", e.Path, strings.Join(e.Roots, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CompileError carries the compiler's rejection. Error returns the
// compiler message unchanged.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// EvaluationError carries a failure raised while executing a compiled
// template. Error returns the original message unchanged.
type EvaluationError struct {
	Path string
	Err  error
}

func (e *EvaluationError) Error() string {
	return e.Err.Error()
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
