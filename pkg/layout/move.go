package layout

import (
	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
)

// Move places e so that its center is at p. A device carries its pins along
// by the same delta.
func (d *Document) Move(e Entity, p geometry.Point) error {
	r, ok := d.Rect(e)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "%s not found", e)
	}
	return d.MoveRelative(e, p.Sub(r.Center))
}

// MoveRelative translates e by delta. A device translates its pins too.
// Assignment is not recomputed; see [Document.ReassignDevice].
func (d *Document) MoveRelative(e Entity, delta geometry.Point) error {
	switch e.Kind {
	case KindDevice:
		dev, ok := d.Device(e.ID)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "%s not found", e)
		}
		dev.Rect.Center = dev.Rect.Center.Add(delta)
		for _, pid := range dev.Pins {
			p := d.pins[pid]
			p.Rect.Center = p.Rect.Center.Add(delta)
		}
	case KindPin:
		p, ok := d.Pin(e.ID)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "%s not found", e)
		}
		p.Rect.Center = p.Rect.Center.Add(delta)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown entity kind %s", e.Kind)
	}
	return nil
}

// ReassignDevice detaches a pin from its device and attaches it to the
// device containing its center, if any. When devices overlap, the one
// created last wins.
func (d *Document) ReassignDevice(pinID int) error {
	p, ok := d.Pin(pinID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "pin %d not found", pinID)
	}
	if dev, ok := d.Device(p.Device); ok {
		dev.Pins = removeID(dev.Pins, p.ID)
	}
	p.Device = NoDevice
	d.assign(p)
	return nil
}

func (d *Document) assign(p *Pin) {
	for _, dev := range d.devices {
		if dev != nil && dev.Rect.Contains(p.Rect.Center) {
			p.Device = dev.ID
		}
	}
	if dev, ok := d.Device(p.Device); ok {
		dev.Pins = append(dev.Pins, p.ID)
	}
}

// Drag translates the selection by delta. Pins whose device is also
// selected are skipped since the device already carries them.
func (d *Document) Drag(delta geometry.Point) {
	for _, e := range d.Selected() {
		if !e.IsDevice() {
			if dev, ok := d.DeviceOf(e.ID); ok && dev.Selected {
				continue
			}
		}
		_ = d.MoveRelative(e, delta)
	}
	d.UpdateNets(false)
}

// Release ends a drag: every selected pin is reassigned.
func (d *Document) Release() {
	for _, e := range d.Selected() {
		if !e.IsDevice() {
			_ = d.ReassignDevice(e.ID)
		}
	}
	d.UpdateNets(false)
}

// AlignAll snaps devices and unassigned pins to the device grid and assigned
// pins to the finer pin grid, then re-renders every net.
func (d *Document) AlignAll() {
	for _, dev := range d.Devices() {
		c := dev.Rect.Center
		_ = d.Move(DeviceRef(dev.ID), geometry.Pt(
			geometry.Snap(c.X, d.defaults.DeviceGrid),
			geometry.Snap(c.Y, d.defaults.DeviceGrid),
		))
	}
	for _, p := range d.Pins() {
		step := d.defaults.DeviceGrid
		if p.Assigned() {
			step = d.defaults.PinGrid
		}
		c := p.Rect.Center
		p.Rect.Center = geometry.Pt(geometry.Snap(c.X, step), geometry.Snap(c.Y, step))
	}
	d.UpdateNets(true)
}
