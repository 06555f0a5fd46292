package pongo

import "github.com/flosch/pongo2/v6"

// viewContext hands render data to pongo2 as is. Values keep their Go types
// so templates can call methods and integer arithmetic stays integral.
func viewContext(data map[string]any) pongo2.Context {
	if data == nil {
		return pongo2.Context{}
	}
	return pongo2.Context(data)
}
