// Package pkg provides the core libraries for placer, an editor and solver
// bridge for device placement layouts.
//
// # Overview
//
// A layout is a canvas of devices (rectangles), pins (small rectangles that
// usually sit on a device) and nets (sets of pins to be wired together).
// Placement solvers read a layout file, move devices around and write a new
// layout back. The pkg directory is organized around that loop:
//
//	.layout file
//	     ↓
//	[io] (parse, validate, compact)
//	     ↓
//	[layout] (document: hit tests, selection, moves, nets)
//	     ↓
//	[solver] (estimate and solve through temp files)
//	     ↓
//	[render] (SVG, PNG, PDF, JSON scene, Graphviz)
//
// # Quick Start
//
// Generate a grid layout, run a solver on it and render the result:
//
//	bridge := solver.NewBridge(solver.Builtin(), logger)
//	ws := session.New(bridge, session.WithCache(cache.NewNullCache()))
//
//	tab := ws.NewTab()
//	result, _, _ := ws.Solve(ctx, tab.Slug, "layout_gen", solver.Params{
//	    "rows": "4", "cols": "6", "nets": "12", "seed": "1", "path": "gen.layout",
//	})
//	svg, _ := ws.Render(ctx, result.Slug, session.RenderRequest{Format: render.FormatSVG})
//
// # Main Packages
//
// [geometry] - Integer points, center-based rectangles, segment hit testing
// and convex hulls.
//
// [layout] - The editable document. Owns entity ids, z-order, selection,
// pin reassignment on move, and net topology (star or hull).
//
// [io] - The text layout protocol shared with external solvers. Parsing
// goes through a participle lexer; writing compacts ids so the output is
// dense.
//
// [solver] - The solver interface, the built-in idle and layout_gen
// solvers, external executables, and the bridge that moves documents
// through temp files.
//
// [session] - Tabs of open documents with cached parameters, estimates and
// renders.
//
// [render] - Scene building plus SVG, PNG and PDF output.
// [render/nodelink] draws the net graph through Graphviz instead.
//
// [cache] - File, Redis and null caches with namespaced keys.
//
// [store] - Durable documents and solver runs on disk, SQLite or MongoDB.
//
// [config], [errors], [observability] and [buildinfo] carry the ambient
// concerns shared by the CLI and the HTTP server.
//
// [geometry]: https://pkg.go.dev/github.com/placerlab/placer/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/placerlab/placer/pkg/layout
// [io]: https://pkg.go.dev/github.com/placerlab/placer/pkg/io
// [solver]: https://pkg.go.dev/github.com/placerlab/placer/pkg/solver
// [session]: https://pkg.go.dev/github.com/placerlab/placer/pkg/session
// [render]: https://pkg.go.dev/github.com/placerlab/placer/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/placerlab/placer/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/placerlab/placer/pkg/cache
// [store]: https://pkg.go.dev/github.com/placerlab/placer/pkg/store
// [config]: https://pkg.go.dev/github.com/placerlab/placer/pkg/config
// [errors]: https://pkg.go.dev/github.com/placerlab/placer/pkg/errors
// [observability]: https://pkg.go.dev/github.com/placerlab/placer/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/placerlab/placer/pkg/buildinfo
package pkg
