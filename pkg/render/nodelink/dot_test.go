package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/render"
)

// twoDevices has a net spanning both devices and a net inside the first.
func twoDevices() *layout.Document {
	doc := layout.New()
	doc.AddDevice(100, 100, 25, 25)
	doc.AddDevice(300, 100, 25, 25)
	a := doc.AddPin(95, 95, 5, 5)
	b := doc.AddPin(105, 105, 5, 5)
	c := doc.AddPin(300, 100, 5, 5)
	doc.AddNet([]int{a.ID, c.ID})
	doc.AddNet([]int{a.ID, b.ID})
	return doc
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(twoDevices(), Options{})

	for _, want := range []string{
		"graph G {",
		`"D0" [label="D0"]`,
		`"D1" [label="D1"]`,
		`"N0" -- "D0"`,
		`"N0" -- "D1"`,
		`"N1" -- "D0"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"N1" -- "D1"`) {
		t.Error("ToDOT() linked a net to a device it does not touch")
	}
	if strings.Contains(dot, "neato") {
		t.Error("ToDOT() used neato without Pinned")
	}
}

func TestToDOTSkipsSmallNets(t *testing.T) {
	doc := layout.New()
	doc.AddDevice(100, 100, 25, 25)
	p := doc.AddPin(100, 100, 5, 5)
	free := doc.AddPin(500, 500, 5, 5)
	doc.AddNet([]int{p.ID, free.ID})

	if dot := ToDOT(doc, Options{}); strings.Contains(dot, `"N0"`) {
		t.Errorf("net with one assigned pin drawn:\n%s", dot)
	}
}

func TestToDOTDetailedAndPinned(t *testing.T) {
	doc := twoDevices()
	dot := ToDOT(doc, Options{Detailed: true, Pinned: true})

	if !strings.Contains(dot, `label="D0\n(100, 100)\npins: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("pinned graph without neato")
	}
	wantPos := `pos="300,` // y is flipped against the canvas height
	if !strings.Contains(dot, wantPos) {
		t.Errorf("pinned position missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(twoDevices(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("D1")) {
		t.Errorf("RenderSVG() output incomplete: %.200s", svg)
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	data, err := Render(ctx, twoDevices(), FormatDOT, Options{}, 1)
	if err != nil || !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("Render(dot) = %.40q, %v", data, err)
	}
	if _, err := Render(ctx, twoDevices(), render.FormatJSON, Options{}, 1); err == nil {
		t.Error("Render(json) succeeded for a graph")
	}
}
