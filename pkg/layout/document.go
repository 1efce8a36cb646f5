package layout

import (
	"slices"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
)

// Default editor dimensions in canvas pixels.
const (
	DefaultDeviceHalfWidth  = 25
	DefaultDeviceHalfHeight = 25
	DefaultPinHalfWidth     = 5
	DefaultPinHalfHeight    = 5
	DefaultCanvasWidth      = 1280 - 360
	DefaultCanvasHeight     = 720
	DefaultDeviceGrid       = 10
	DefaultPinGrid          = 5
)

// Defaults holds the sizes used when an entity is placed without explicit extents.
type Defaults struct {
	DeviceHW   int  `json:"device_hw" toml:"device_hw" yaml:"device_hw"`
	DeviceHH   int  `json:"device_hh" toml:"device_hh" yaml:"device_hh"`
	PinHW      int  `json:"pin_hw" toml:"pin_hw" yaml:"pin_hw"`
	PinHH      int  `json:"pin_hh" toml:"pin_hh" yaml:"pin_hh"`
	DeviceGrid int  `json:"device_grid" toml:"device_grid" yaml:"device_grid"`
	PinGrid    int  `json:"pin_grid" toml:"pin_grid" yaml:"pin_grid"`
	Mode       Mode `json:"mode" toml:"mode" yaml:"mode"`
}

// DefaultDefaults returns the stock editor sizes.
func DefaultDefaults() Defaults {
	return Defaults{
		DeviceHW:   DefaultDeviceHalfWidth,
		DeviceHH:   DefaultDeviceHalfHeight,
		PinHW:      DefaultPinHalfWidth,
		PinHH:      DefaultPinHalfHeight,
		DeviceGrid: DefaultDeviceGrid,
		PinGrid:    DefaultPinGrid,
		Mode:       DefaultMode,
	}
}

// Document is one editable layout. It is not safe for concurrent use.
type Document struct {
	Width  int
	Height int

	defaults Defaults

	devices []*Device // index is the id, nil once deleted
	pins    []*Pin    // index is the id, kept with Deleted set
	nets    []*Net    // live nets in creation order
	order   []Entity  // z-order, bottom first

	deviceCounter int
	pinCounter    int
	netCounter    int
}

// Option configures a new Document.
type Option func(*Document)

// WithCanvas sets the canvas size exported as the placement region.
func WithCanvas(w, h int) Option {
	return func(d *Document) { d.Width, d.Height = w, h }
}

// WithDefaults overrides the placement defaults. Zero fields keep the stock value.
func WithDefaults(def Defaults) Option {
	return func(d *Document) {
		stock := DefaultDefaults()
		d.defaults = Defaults{
			DeviceHW:   orInt(def.DeviceHW, stock.DeviceHW),
			DeviceHH:   orInt(def.DeviceHH, stock.DeviceHH),
			PinHW:      orInt(def.PinHW, stock.PinHW),
			PinHH:      orInt(def.PinHH, stock.PinHH),
			DeviceGrid: orInt(def.DeviceGrid, stock.DeviceGrid),
			PinGrid:    orInt(def.PinGrid, stock.PinGrid),
			Mode:       stock.Mode,
		}
		if def.Mode != "" {
			d.defaults.Mode = def.Mode
		}
	}
}

// WithMode sets the topology used for new nets.
func WithMode(m Mode) Option {
	return func(d *Document) { d.defaults.Mode = m }
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		Width:    DefaultCanvasWidth,
		Height:   DefaultCanvasHeight,
		defaults: DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Defaults returns the placement defaults of d.
func (d *Document) Defaults() Defaults { return d.defaults }

// Mode returns the topology used for new nets.
func (d *Document) Mode() Mode { return d.defaults.Mode }

// NewEmpty returns an empty document sharing d's canvas and defaults.
func (d *Document) NewEmpty() *Document {
	return &Document{Width: d.Width, Height: d.Height, defaults: d.defaults}
}

// Replace swaps the whole state of d for src's. src must not be used afterwards.
func (d *Document) Replace(src *Document) {
	*d = *src
	*src = Document{}
}

// AddDevice places a device centered at (x, y) with the given half-extents.
func (d *Document) AddDevice(x, y, hw, hh int) *Device {
	dev := &Device{
		ID:   d.deviceCounter,
		Rect: geometry.Rect{Center: geometry.Pt(x, y), HW: hw, HH: hh},
	}
	d.deviceCounter++
	d.devices = append(d.devices, dev)
	d.order = append(d.order, DeviceRef(dev.ID))
	return dev
}

// PlaceDevice places a default-sized device at p.
func (d *Document) PlaceDevice(p geometry.Point) *Device {
	return d.AddDevice(p.X, p.Y, d.defaults.DeviceHW, d.defaults.DeviceHH)
}

// AddPin places a pin centered at (x, y) and assigns it to the device under its center.
func (d *Document) AddPin(x, y, hw, hh int) *Pin {
	pin := &Pin{
		ID:     d.pinCounter,
		Rect:   geometry.Rect{Center: geometry.Pt(x, y), HW: hw, HH: hh},
		Device: NoDevice,
	}
	d.pinCounter++
	d.pins = append(d.pins, pin)
	d.order = append(d.order, PinRef(pin.ID))
	d.assign(pin)
	return pin
}

// PlacePin places a default-sized pin at p.
func (d *Document) PlacePin(p geometry.Point) *Pin {
	return d.AddPin(p.X, p.Y, d.defaults.PinHW, d.defaults.PinHH)
}

// AddNet creates a net over the given pins. Deleted, unknown and repeated
// ids are skipped. It returns nil when no pin remains.
func (d *Document) AddNet(pinIDs []int) *Net {
	pins := make([]int, 0, len(pinIDs))
	for _, id := range pinIDs {
		if p, ok := d.Pin(id); ok && !slices.Contains(pins, p.ID) {
			pins = append(pins, p.ID)
		}
	}
	if len(pins) == 0 {
		return nil
	}
	n := &Net{
		ID:    d.netCounter,
		Pins:  pins,
		Mode:  d.defaults.Mode,
		Color: NetColor(d.netCounter),
	}
	d.netCounter++
	d.nets = append(d.nets, n)
	d.updateNet(n)
	return n
}

// AddNetFromSelection creates a net from the selected pins and every pin of
// the selected devices.
func (d *Document) AddNetFromSelection() *Net {
	var ids []int
	for _, e := range d.Selected() {
		if e.IsDevice() {
			ids = append(ids, d.devices[e.ID].Pins...)
		} else {
			ids = append(ids, e.ID)
		}
	}
	return d.AddNet(ids)
}

// Device returns the live device with the given id.
func (d *Document) Device(id int) (*Device, bool) {
	if id < 0 || id >= len(d.devices) || d.devices[id] == nil {
		return nil, false
	}
	return d.devices[id], true
}

// Pin returns the live pin with the given id.
func (d *Document) Pin(id int) (*Pin, bool) {
	if id < 0 || id >= len(d.pins) || d.pins[id].Deleted {
		return nil, false
	}
	return d.pins[id], true
}

// Net returns the net with the given id.
func (d *Document) Net(id int) (*Net, bool) {
	for _, n := range d.nets {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Devices returns live devices in creation order.
func (d *Document) Devices() []*Device {
	out := make([]*Device, 0, len(d.devices))
	for _, dev := range d.devices {
		if dev != nil {
			out = append(out, dev)
		}
	}
	return out
}

// Pins returns live pins in creation order.
func (d *Document) Pins() []*Pin {
	out := make([]*Pin, 0, len(d.pins))
	for _, p := range d.pins {
		if !p.Deleted {
			out = append(out, p)
		}
	}
	return out
}

// Nets returns nets in creation order.
func (d *Document) Nets() []*Net { return slices.Clone(d.nets) }

// ZOrder returns all live entities, bottom first.
func (d *Document) ZOrder() []Entity { return slices.Clone(d.order) }

// Rect returns the rectangle of e.
func (d *Document) Rect(e Entity) (geometry.Rect, bool) {
	switch e.Kind {
	case KindDevice:
		if dev, ok := d.Device(e.ID); ok {
			return dev.Rect, true
		}
	case KindPin:
		if p, ok := d.Pin(e.ID); ok {
			return p.Rect, true
		}
	}
	return geometry.Rect{}, false
}

// DeviceOf returns the device a pin is assigned to.
func (d *Document) DeviceOf(pinID int) (*Device, bool) {
	p, ok := d.Pin(pinID)
	if !ok || p.Device == NoDevice {
		return nil, false
	}
	return d.Device(p.Device)
}

// DeleteDevice removes a device together with the pins it owns.
func (d *Document) DeleteDevice(id int) error {
	dev, ok := d.Device(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "device %d not found", id)
	}
	for _, pid := range slices.Clone(dev.Pins) {
		d.deletePin(d.pins[pid])
	}
	d.deleteDevice(dev)
	d.UpdateNets(false)
	return nil
}

// DeletePin removes a pin and detaches it from its device.
func (d *Document) DeletePin(id int) error {
	p, ok := d.Pin(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "pin %d not found", id)
	}
	d.deletePin(p)
	d.UpdateNets(false)
	return nil
}

// DeleteNet removes a net. Its pins are untouched.
func (d *Document) DeleteNet(id int) error {
	for i, n := range d.nets {
		if n.ID == id {
			d.nets = slices.Delete(d.nets, i, i+1)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "net %d not found", id)
}

func (d *Document) deleteDevice(dev *Device) {
	dev.Pins = nil
	d.devices[dev.ID] = nil
	d.dropFromOrder(DeviceRef(dev.ID))
}

func (d *Document) deletePin(p *Pin) {
	if dev, ok := d.Device(p.Device); ok {
		dev.Pins = removeID(dev.Pins, p.ID)
	}
	p.Deleted = true
	p.Selected = false
	d.dropFromOrder(PinRef(p.ID))
}

func (d *Document) dropFromOrder(e Entity) {
	if i := slices.Index(d.order, e); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
}

// Clear removes every entity and net and resets the id counters.
func (d *Document) Clear() {
	d.devices = nil
	d.pins = nil
	d.nets = nil
	d.order = nil
	d.deviceCounter = 0
	d.pinCounter = 0
	d.netCounter = 0
}

// Stats summarizes a document.
type Stats struct {
	Devices        int `json:"devices"`
	Pins           int `json:"pins"`
	AssignedPins   int `json:"assigned_pins"`
	Nets           int `json:"nets"`
	QualifyingNets int `json:"qualifying_nets"`
}

// Stats counts the live entities of d.
func (d *Document) Stats() Stats {
	var s Stats
	s.Devices = len(d.Devices())
	for _, p := range d.pins {
		if p.Deleted {
			continue
		}
		s.Pins++
		if p.Assigned() {
			s.AssignedPins++
		}
	}
	s.Nets = len(d.nets)
	for _, n := range d.nets {
		if len(d.assignedPins(n)) >= 2 {
			s.QualifyingNets++
		}
	}
	return s
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
