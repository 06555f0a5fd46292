package pongo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// RegisterFilter adds a filter to the pongo2 registry, which is shared by
// every engine in the process. Registering a name twice is an error.
func RegisterFilter(name string, fn FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, adaptFilter(fn))
}

func adaptFilter(fn FilterFunc) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}
