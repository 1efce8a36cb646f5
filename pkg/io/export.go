package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/placerlab/placer/pkg/layout"
)

// WriteTo writes f in layout file format.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	fmt.Fprintf(cw, "Devices\n%d\n", len(f.Devices))
	for _, d := range f.Devices {
		fmt.Fprintf(cw, "%d\n%d %d %d %d\n", d.Index, d.X, d.Y, d.HW, d.HH)
	}
	fmt.Fprintf(cw, "Pins\n%d\n", len(f.Pins))
	for _, p := range f.Pins {
		fmt.Fprintf(cw, "%d\n%d %d %d %d %d\n", p.Index, p.Device, p.DX, p.DY, p.HW, p.HH)
	}
	fmt.Fprintf(cw, "Nets\n%d\n", len(f.Nets))
	for _, n := range f.Nets {
		fmt.Fprintf(cw, "%d\n%d", n.Index, len(n.Pins))
		for _, p := range n.Pins {
			cw.Write([]byte(" " + strconv.Itoa(p)))
		}
		cw.Write([]byte("\n"))
	}
	fmt.Fprintf(cw, "%d %d\n", f.Width, f.Height)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Write exports doc to w. Nets are re-rendered first so offsets reflect
// the final positions.
func Write(doc *layout.Document, w io.Writer) error {
	_, err := Encode(doc.Snapshot()).WriteTo(w)
	return err
}

// ExportFile writes doc to the layout file at path.
func ExportFile(doc *layout.Document, path string) error {
	return WriteFile(Encode(doc.Snapshot()), path)
}

// WriteFile writes f to path.
func WriteFile(f *File, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteTo(fh); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}

// scene is the JSON view of a document, including rendered net segments.
type scene struct {
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Devices []*layout.Device `json:"devices"`
	Pins    []*layout.Pin    `json:"pins"`
	Nets    []*layout.Net    `json:"nets"`
	ZOrder  []layout.Entity  `json:"z_order"`
	Stats   layout.Stats     `json:"stats"`
}

// WriteJSON encodes the full editor state of doc, including unassigned pins
// and rendered net segments, as indented JSON.
func WriteJSON(doc *layout.Document, w io.Writer) error {
	doc.UpdateNets(true)
	out := scene{
		Width:   doc.Width,
		Height:  doc.Height,
		Devices: doc.Devices(),
		Pins:    doc.Pins(),
		Nets:    doc.Nets(),
		ZOrder:  doc.ZOrder(),
		Stats:   doc.Stats(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
