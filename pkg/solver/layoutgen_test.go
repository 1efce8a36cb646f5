package solver

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/placerlab/placer/pkg/geometry"
	pkgio "github.com/placerlab/placer/pkg/io"
)

func TestGenerateGrid(t *testing.T) {
	cfg := DefaultGenConfig(2, 3, 4)
	cfg.Seed = 7
	f := Generate(cfg)

	if err := f.Validate(); err != nil {
		t.Fatalf("generated file invalid: %v", err)
	}
	if len(f.Devices) != 6 {
		t.Fatalf("devices = %d, want 6", len(f.Devices))
	}
	// offset = (1488/2 - 2*70/2, 873/2 - 1*70/2)
	if d := f.Devices[4]; d.X != 744 || d.Y != 471 {
		t.Errorf("device 4 at (%d,%d), want (744,471)", d.X, d.Y)
	}
	if d := f.Devices[0]; d.X != 674 || d.Y != 401 {
		t.Errorf("device 0 at (%d,%d), want (674,401)", d.X, d.Y)
	}
	if f.Width != 1488 || f.Height != 873 {
		t.Errorf("canvas = %dx%d", f.Width, f.Height)
	}

	if n := len(f.Pins); n < 6 || n > 24 {
		t.Errorf("pins = %d, want within [6,24]", n)
	}
	perDevice := make(map[int]int)
	for i, p := range f.Pins {
		if p.Index != i {
			t.Errorf("pin %d has index %d", i, p.Index)
		}
		d, _ := f.Device(p.Device)
		rect := geometry.Rect{Center: geometry.Pt(d.X, d.Y), HW: d.HW, HH: d.HH}
		if c, _ := f.PinCenter(i); !rect.Contains(c) {
			t.Errorf("pin %d at %v outside device %d", i, c, p.Device)
		}
		perDevice[p.Device]++
	}
	for id := range f.Devices {
		if n := perDevice[id]; n < 1 || n > 4 {
			t.Errorf("device %d has %d pins, want [1,4]", id, n)
		}
	}

	next := 0
	for _, n := range f.Nets {
		if len(n.Pins) < 2 || len(n.Pins) > 6 {
			t.Errorf("net %d has %d pins", n.Index, len(n.Pins))
		}
		for _, pid := range n.Pins {
			if pid != next {
				t.Errorf("net %d takes pin %d, want least-used %d", n.Index, pid, next)
			}
			next = (next + 1) % len(f.Pins)
		}
	}
}

func TestGenerateLookups(t *testing.T) {
	cfg := DefaultGenConfig(2, 2, 3)
	cfg.Seed = 11
	f := Generate(cfg)
	for _, p := range f.Pins {
		c, ok := f.PinCenter(p.Index)
		if !ok {
			t.Fatalf("PinCenter(%d) not found", p.Index)
		}
		d, _ := f.Device(p.Device)
		if want := geometry.Pt(d.X+p.DX, d.Y+p.DY); c != want {
			t.Errorf("PinCenter(%d) = %v, want %v", p.Index, c, want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig(3, 3, 5)
	cfg.Seed = 42
	a, b := Generate(cfg), Generate(cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different layouts")
	}
	cfg.Seed = 43
	if reflect.DeepEqual(a, Generate(cfg)) {
		t.Error("different seeds produced identical layouts")
	}
}

func TestGenerateCapsNetSize(t *testing.T) {
	cfg := DefaultGenConfig(1, 1, 2)
	cfg.Seed = 1
	cfg.PinsPerDevice = [2]int{2, 2}
	cfg.PinsPerNet = [2]int{5, 5}
	f := Generate(cfg)
	for _, n := range f.Nets {
		if len(n.Pins) != 2 {
			t.Errorf("net %d has %d pins, want capped at 2", n.Index, len(n.Pins))
		}
	}
}

func TestParseGenConfig(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantMsg string
	}{
		{"missing rows", Params{"cols": "2", "nets": "1"}, "No rows"},
		{"missing nets", Params{"rows": "2", "cols": "2"}, "No nets"},
		{"bad int", Params{"rows": "x", "cols": "2", "nets": "1"}, `rows: "x" is not an integer`},
		{"inverted range", Params{"rows": "1", "cols": "1", "nets": "1", "pd_count_left": "5"}, "pd_count: left 5 exceeds right 4"},
		{"ok", Params{"rows": "1", "cols": "1", "nets": "0"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGenConfig(tt.params)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			rows := ErrorRows(err)
			if msg, _ := Failed(rows); msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestLayoutGeneratorSolve(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen.txt")
	g := &LayoutGenerator{Now: func() time.Time { return time.Unix(0, 12345) }}
	reg := NewRegistry(g)

	rows := reg.Estimate(context.Background(), "layout_gen", "", out, Params{"rows": "2"})
	if msg, failed := Failed(rows); !failed || msg != "No cols" {
		t.Errorf("estimate rows = %v", rows)
	}

	rows = reg.Solve(context.Background(), "layout_gen", "", out, Params{"rows": "2", "cols": "2", "nets": "3"})
	if seed, ok := Lookup(rows, "seed"); !ok || seed != "12345" {
		t.Errorf("rows = %v, want seed 12345", rows)
	}
	f, err := pkgio.ParseFile(out)
	if err != nil {
		t.Fatalf("generated file: %v", err)
	}
	if len(f.Devices) != 4 || len(f.Nets) != 3 {
		t.Errorf("generated %d devices %d nets", len(f.Devices), len(f.Nets))
	}
}

func TestLayoutGeneratorParams(t *testing.T) {
	fields := NewLayoutGenerator().Params()
	required := map[string]bool{}
	for _, f := range fields {
		if !f.Optional {
			required[f.Key] = true
		}
	}
	for _, k := range []string{"path", "rows", "cols", "nets"} {
		if !required[k] {
			t.Errorf("%s should be required", k)
		}
	}
	if d := Defaults(fields); d["bbox_width"] != "1488" || d["pn_count_right"] != "6" {
		t.Errorf("defaults = %v", d)
	}
}
