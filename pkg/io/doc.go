// Package io reads and writes the placer layout file, the text format
// shared with placement solvers.
//
// # Format
//
// The file is a whitespace-separated token stream. Line breaks are written
// as shown but are not significant when reading:
//
//	Devices
//	<device count>
//	<index>
//	<center x> <center y> <half width> <half height>
//	...
//	Pins
//	<pin count>
//	<index>
//	<device index> <dx> <dy> <half width> <half height>
//	...
//	Nets
//	<net count>
//	<index>
//	<size> <pin index> ...
//	...
//	<width> <height>
//
// Pin coordinates are offsets from the owning device's center. The trailing
// canvas size is optional on input.
//
// # Export
//
// [Encode] turns a [layout.Snapshot] into a [File]: only pins assigned to a
// device and nets with at least two assigned pins are kept, and every id set
// is compacted to 0..n-1 by sorting ids ascending. Records are written in
// the snapshot's order.
//
// # Import
//
// [Parse] validates the whole file before anything is built; a count that
// does not match, an index outside 0..n-1 or a reference to an unknown
// device or pin fails the load with [errors.ErrCodeInvalidLayout] and the
// token position. [File.Document] then builds a fresh document, so a failed
// load never touches the document being edited. Nets of any size are
// rebuilt; the two-pin threshold applies to export only.
//
//	doc, err := io.ImportFile("layout.txt")
//	if err != nil {
//	    return err // the current document is untouched
//	}
//	current.Replace(doc)
package io
