// Package nodelink renders the connectivity of a layout as a node-link
// diagram.
//
// Devices appear as boxes. Each net with at least two assigned pins is a
// small point colored like the net, joined to every device holding one of
// its pins. Unassigned pins and devices' geometry are not drawn; use
// package render for the scene itself.
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With [Options].Pinned the neato engine keeps devices at their canvas
// positions, which makes long nets easy to spot.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
