package render

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
	"github.com/placerlab/placer/pkg/observability"
)

func testDoc() *layout.Document {
	doc := layout.New(layout.WithCanvas(200, 150))
	doc.AddDevice(100, 75, 25, 25)
	a := doc.AddPin(90, 65, 5, 5)
	b := doc.AddPin(110, 85, 5, 5)
	doc.AddNet([]int{a.ID, b.ID})
	return doc
}

func TestBuildScene(t *testing.T) {
	doc := testDoc()
	doc.Select(layout.PinRef(1))
	s := BuildScene(doc, WithGrid(10))

	if s.Width != 200 || s.Height != 150 || s.Grid != 10 {
		t.Errorf("scene size = %dx%d grid %d", s.Width, s.Height, s.Grid)
	}
	if len(s.Shapes) != 3 {
		t.Fatalf("shapes = %d, want 3", len(s.Shapes))
	}
	want := []struct {
		fill, stroke string
	}{
		{ColorDevice, ColorOutline},
		{ColorPin, ColorOutline},
		{ColorPin, ColorSelected},
	}
	for i, w := range want {
		if s.Shapes[i].Fill != w.fill || s.Shapes[i].Stroke != w.stroke {
			t.Errorf("shape %d = %s/%s, want %s/%s", i, s.Shapes[i].Fill, s.Shapes[i].Stroke, w.fill, w.stroke)
		}
	}
	if len(s.Lines) == 0 || s.Lines[0].Color != layout.NetColor(0) || s.Lines[0].Width != netWidth {
		t.Errorf("lines = %+v", s.Lines)
	}
	if got := s.Entities(); got != 4 {
		t.Errorf("Entities() = %d, want 4", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testDoc(), WithGrid(50)))
	for _, want := range []string{
		`viewBox="0 0 200 150"`,
		`fill="` + ColorBackground + `"`,
		`<rect id="device-0" x="75" y="50" width="50" height="50" fill="#FCE205"`,
		`<rect id="pin-0" x="85" y="60" width="10" height="10" fill="#FF3232"`,
		`class="net-0"`,
		`<g class="grid"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testDoc(), WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("bounds = %v, want 400x300", b)
	}

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"background", 4, 4, ColorBackground},
		{"device", 2 * 80, 2 * 90, ColorDevice},
		{"pin", 2 * 87, 2 * 62, ColorPin},
	}
	for _, tt := range tests {
		want, _ := parseColor(tt.want)
		if got := color.RGBAModel.Convert(img.At(tt.x, tt.y)); got != want {
			t.Errorf("%s pixel = %v, want %v", tt.name, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#FCE205")
	if err != nil || c != (color.RGBA{0xFC, 0xE2, 0x05, 0xFF}) {
		t.Errorf("parseColor = %v, %v", c, err)
	}
	for _, bad := range []string{"", "FCE205", "#FCE20", "#GGGGGG"} {
		if _, err := parseColor(bad); err == nil {
			t.Errorf("parseColor(%q) succeeded", bad)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{".PNG", FormatPNG, false},
		{"Pdf", FormatPDF, false},
		{"json", FormatJSON, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) err code = %v", tt.in, errors.GetCode(err))
		}
	}
}

type recordingHooks struct {
	observability.NoopRenderHooks
	started, completed []string
	size               int
}

func (h *recordingHooks) OnRenderStart(_ context.Context, format string, _ int) {
	h.started = append(h.started, format)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, _ error) {
	h.completed = append(h.completed, format)
	h.size = size
}

func TestRenderReportsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetRenderHooks(h)
	defer observability.Reset()

	data, err := Render(context.Background(), testDoc(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if len(s.Shapes) != 3 {
		t.Errorf("decoded shapes = %d", len(s.Shapes))
	}
	if len(h.started) != 1 || h.completed[0] != "json" || h.size != len(data) {
		t.Errorf("hooks = %+v", h)
	}

	if _, err := Render(context.Background(), testDoc(), Format("gif")); err == nil {
		t.Error("expected unknown format error")
	}
}

func TestRenderPDF(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(context.Background(), testDoc())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", data[:min(len(data), 8)])
	}
}
