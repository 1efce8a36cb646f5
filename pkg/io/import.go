package io

import (
	"fmt"
	"io"
	"os"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/layout"
)

// Parse reads and validates a layout file from r. name is used in error
// positions only.
func Parse(name string, r io.Reader) (*File, error) {
	s, err := newScanner(name, r)
	if err != nil {
		return nil, err
	}
	f := &File{}

	if err := s.section("Devices"); err != nil {
		return nil, err
	}
	n, err := count(s, "device count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := s.ints("device index", "center x", "center y", "half width", "half height")
		if err != nil {
			return nil, err
		}
		f.Devices = append(f.Devices, DeviceRecord{Index: v[0], X: v[1], Y: v[2], HW: v[3], HH: v[4]})
	}

	if err := s.section("Pins"); err != nil {
		return nil, err
	}
	if n, err = count(s, "pin count"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := s.ints("pin index", "device index", "offset x", "offset y", "half width", "half height")
		if err != nil {
			return nil, err
		}
		f.Pins = append(f.Pins, PinRecord{Index: v[0], Device: v[1], DX: v[2], DY: v[3], HW: v[4], HH: v[5]})
	}

	if err := s.section("Nets"); err != nil {
		return nil, err
	}
	if n, err = count(s, "net count"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		idx, err := s.int("net index")
		if err != nil {
			return nil, err
		}
		size, err := count(s, "net size")
		if err != nil {
			return nil, err
		}
		if size > len(f.Pins) {
			return nil, s.failf("net size %d exceeds pin count %d", size, len(f.Pins))
		}
		rec := NetRecord{Index: idx, Pins: make([]int, size)}
		for j := range rec.Pins {
			if rec.Pins[j], err = s.int("net pin index"); err != nil {
				return nil, err
			}
		}
		f.Nets = append(f.Nets, rec)
	}

	eof, err := s.atEOF()
	if err != nil {
		return nil, err
	}
	if !eof {
		wh, err := s.ints("canvas width", "canvas height")
		if err != nil {
			return nil, err
		}
		f.Width, f.Height = wh[0], wh[1]
		if eof, err = s.atEOF(); err != nil {
			return nil, err
		} else if !eof {
			t, _ := s.next()
			return nil, s.unexpected(t, "end of file")
		}
	}

	if err := f.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "%s: %s", name, errors.UserMessage(err))
	}
	return f, nil
}

func count(s *scanner, what string) (int, error) {
	n, err := s.int(what)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, s.failf("negative %s %d", what, n)
	}
	return n, nil
}

// Read parses a layout file from r and builds a new document from it.
// Nothing is built unless the whole file is valid.
func Read(name string, r io.Reader, opts ...layout.Option) (*layout.Document, error) {
	f, err := Parse(name, r)
	if err != nil {
		return nil, err
	}
	return f.Document(opts...)
}

// ImportFile reads the layout file at path into a new document.
func ImportFile(path string, opts ...layout.Option) (*layout.Document, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return f.Document(opts...)
}

// ParseFile parses the layout file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return Parse(path, fh)
}
