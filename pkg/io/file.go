package io

import (
	"fmt"
	"slices"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
	"github.com/placerlab/placer/pkg/layout"
)

// File is a parsed layout file. Records keep their file order.
type File struct {
	Devices []DeviceRecord `json:"devices"`
	Pins    []PinRecord    `json:"pins"`
	Nets    []NetRecord    `json:"nets"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`

	devAt []int // device index -> position in Devices
	pinAt []int // pin index -> position in Pins
}

// DeviceRecord is one entry of the Devices section.
type DeviceRecord struct {
	Index int `json:"index"`
	X     int `json:"x"`
	Y     int `json:"y"`
	HW    int `json:"hw"`
	HH    int `json:"hh"`
}

// PinRecord is one entry of the Pins section. DX and DY are relative to the
// center of device Device.
type PinRecord struct {
	Index  int `json:"index"`
	Device int `json:"device"`
	DX     int `json:"dx"`
	DY     int `json:"dy"`
	HW     int `json:"hw"`
	HH     int `json:"hh"`
}

// NetRecord is one entry of the Nets section.
type NetRecord struct {
	Index int   `json:"index"`
	Pins  []int `json:"pins"`
}

// Device returns the device record with the given file index.
func (f *File) Device(idx int) (DeviceRecord, bool) {
	if idx < 0 || idx >= len(f.devAt) {
		return DeviceRecord{}, false
	}
	return f.Devices[f.devAt[idx]], true
}

// Pin returns the pin record with the given file index.
func (f *File) Pin(idx int) (PinRecord, bool) {
	if idx < 0 || idx >= len(f.pinAt) {
		return PinRecord{}, false
	}
	return f.Pins[f.pinAt[idx]], true
}

// PinCenter returns the absolute center of pin idx.
func (f *File) PinCenter(idx int) (geometry.Point, bool) {
	p, ok := f.Pin(idx)
	if !ok {
		return geometry.Point{}, false
	}
	d, ok := f.Device(p.Device)
	if !ok {
		return geometry.Point{}, false
	}
	return geometry.Pt(d.X+p.DX, d.Y+p.DY), true
}

// Validate checks that every section is indexed 0..n-1 without repeats and
// that every reference resolves. It also builds the index lookups used by
// [File.Device] and [File.Pin].
func (f *File) Validate() error {
	devAt, err := positions("device", len(f.Devices), func(i int) int { return f.Devices[i].Index })
	if err != nil {
		return err
	}
	pinAt, err := positions("pin", len(f.Pins), func(i int) int { return f.Pins[i].Index })
	if err != nil {
		return err
	}
	if _, err := positions("net", len(f.Nets), func(i int) int { return f.Nets[i].Index }); err != nil {
		return err
	}
	for _, p := range f.Pins {
		if p.Device < 0 || p.Device >= len(f.Devices) {
			return errors.New(errors.ErrCodeInvalidLayout, "pin %d: device index %d out of range [0,%d)", p.Index, p.Device, len(f.Devices))
		}
	}
	for _, n := range f.Nets {
		for _, pid := range n.Pins {
			if pid < 0 || pid >= len(f.Pins) {
				return errors.New(errors.ErrCodeInvalidLayout, "net %d: pin index %d out of range [0,%d)", n.Index, pid, len(f.Pins))
			}
		}
	}
	f.devAt, f.pinAt = devAt, pinAt
	return nil
}

func positions(what string, n int, index func(int) int) ([]int, error) {
	at := make([]int, n)
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		idx := index(i)
		if idx < 0 || idx >= n {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "%s index %d out of range [0,%d)", what, idx, n)
		}
		if seen[idx] {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "duplicate %s index %d", what, idx)
		}
		seen[idx] = true
		at[idx] = i
	}
	return at, nil
}

// Document builds a new document from f. Devices, pins and nets are created
// in file order; pins are assigned by containment like any placed pin.
// The trailing canvas size, when present, replaces the document's.
func (f *File) Document(opts ...layout.Option) (*layout.Document, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	doc := layout.New(opts...)
	if f.Width > 0 && f.Height > 0 {
		doc.Width, doc.Height = f.Width, f.Height
	}
	for _, d := range f.Devices {
		doc.AddDevice(d.X, d.Y, d.HW, d.HH)
	}
	pinIDs := make([]int, len(f.Pins))
	for _, p := range f.Pins {
		c, _ := f.PinCenter(p.Index)
		pinIDs[p.Index] = doc.AddPin(c.X, c.Y, p.HW, p.HH).ID
	}
	for _, n := range f.Nets {
		ids := make([]int, len(n.Pins))
		for i, pid := range n.Pins {
			ids[i] = pinIDs[pid]
		}
		doc.AddNet(ids)
	}
	return doc, nil
}

// Compact maps each id to its rank among the ids sorted ascending.
func Compact(ids []int) map[int]int {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	m := make(map[int]int, len(sorted))
	for i, id := range sorted {
		m[id] = i
	}
	return m
}

// Encode converts a snapshot into file records with compacted indices.
func Encode(s layout.Snapshot) *File {
	centers := make(map[int]geometry.Point, len(s.Devices))
	devIDs := make([]int, len(s.Devices))
	for i, d := range s.Devices {
		centers[d.ID] = d.Rect.Center
		devIDs[i] = d.ID
	}

	var pins []layout.Pin
	for _, p := range s.Pins {
		if _, ok := centers[p.Device]; ok && p.Assigned() {
			pins = append(pins, p)
		}
	}
	pinIDs := make([]int, len(pins))
	for i, p := range pins {
		pinIDs[i] = p.ID
	}
	pinMap := Compact(pinIDs)

	var nets []layout.NetRecord
	for _, n := range s.Nets {
		var kept []int
		for _, pid := range n.Pins {
			if _, ok := pinMap[pid]; ok {
				kept = append(kept, pid)
			}
		}
		if len(kept) >= 2 {
			nets = append(nets, layout.NetRecord{ID: n.ID, Pins: kept})
		}
	}
	netIDs := make([]int, len(nets))
	for i, n := range nets {
		netIDs[i] = n.ID
	}

	devMap := Compact(devIDs)
	netMap := Compact(netIDs)

	f := &File{Width: s.Width, Height: s.Height}
	for _, d := range s.Devices {
		c := d.Rect.Center
		f.Devices = append(f.Devices, DeviceRecord{Index: devMap[d.ID], X: c.X, Y: c.Y, HW: d.Rect.HW, HH: d.Rect.HH})
	}
	for _, p := range pins {
		off := p.Rect.Center.Sub(centers[p.Device])
		f.Pins = append(f.Pins, PinRecord{
			Index:  pinMap[p.ID],
			Device: devMap[p.Device],
			DX:     off.X,
			DY:     off.Y,
			HW:     p.Rect.HW,
			HH:     p.Rect.HH,
		})
	}
	for _, n := range nets {
		rec := NetRecord{Index: netMap[n.ID], Pins: make([]int, len(n.Pins))}
		for i, pid := range n.Pins {
			rec.Pins[i] = pinMap[pid]
		}
		f.Nets = append(f.Nets, rec)
	}
	// Compacted indices are dense and unique, so this only builds lookups.
	if err := f.Validate(); err != nil {
		panic(fmt.Sprintf("io: encoded snapshot is invalid: %v", err))
	}
	return f
}
