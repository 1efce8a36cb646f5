// Package solver runs placement solvers against layout files.
//
// A [Solver] reads a layout from an input path, writes its result layout to
// an output path and reports a list of labelled [Field] rows. Solvers are
// looked up by name in a [Registry]; the built-ins are "idle", which copies
// the layout and reports wirelength metrics, and "layout_gen", which writes
// a random grid layout. External solvers are executables that speak a small
// JSON protocol on stdin/stdout (see [Exec]).
//
// Every registry call returns rows, never an error: a failure becomes the
// single row {"Error", message}. This matches what editors show to users
// and lets estimation act as validation:
//
//	rows := reg.Estimate(ctx, "layout_gen", in, out, solver.Params{"rows": "3"})
//	if msg, failed := solver.Failed(rows); failed {
//	    fmt.Println(msg) // "No cols"
//	}
//
// [Bridge] wraps a registry for in-memory documents. It exports the document
// to a temporary file, runs the solver and imports the result, removing the
// temporary files on every path.
package solver
