// Package pongo binds the pongo2 template language to the templ.Engine
// contract. Sources are read through a host.Host, compiled templates are
// kept in a templ.RenderCache according to the current runtime mode, and
// rendered output has one trailing end-of-line sequence removed.
//
//	h, err := host.New(host.WithResources(templatesFS))
//	engine, err := pongo.New(h)
//	out, err := engine.Render(ctx, map[string]any{"foo": "badger"}, "somedir/page").Await(ctx)
package pongo
