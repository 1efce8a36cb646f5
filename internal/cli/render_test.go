package cli

import (
	"testing"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/render"
	"github.com/placerlab/placer/pkg/render/nodelink"
)

func TestParseRenderFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    render.Format
		wantErr bool
	}{
		{"svg", render.FormatSVG, false},
		{"PNG", render.FormatPNG, false},
		{".pdf", render.FormatPDF, false},
		{"json", render.FormatJSON, false},
		{"dot", nodelink.FormatDOT, false},
		{"DOT", nodelink.FormatDOT, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRenderFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("parseRenderFormat(%q) error = %v, want INVALID_FORMAT", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRenderFormat(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseRenderFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"chip.layout", "chip"},
		{"dir/chip.layout", "dir/chip"},
		{"chip", "chip"},
		{"a.b.layout", "a.b"},
	}
	for _, tt := range tests {
		if got := basePath(tt.input); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"pairs", []string{"rows=4", " cols = 6 "}, map[string]string{"rows": "4", "cols": "6"}, false},
		{"empty value", []string{"seed="}, map[string]string{"seed": ""}, false},
		{"value with equals", []string{"path=a=b"}, map[string]string{"path": "a=b"}, false},
		{"missing equals", []string{"rows"}, nil, true},
		{"missing key", []string{"=4"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidParam) {
					t.Errorf("error = %v, want INVALID_PARAM", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
