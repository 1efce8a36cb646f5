package layout

import (
	"slices"

	"github.com/placerlab/placer/pkg/geometry"
)

// HitTest returns the topmost entity whose rectangle contains p.
func (d *Document) HitTest(p geometry.Point) (Entity, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		if r, ok := d.Rect(d.order[i]); ok && r.Contains(p) {
			return d.order[i], true
		}
	}
	return Entity{}, false
}

// HitTestNet returns the most recently created net with a rendered segment under p.
func (d *Document) HitTestNet(p geometry.Point) (*Net, bool) {
	for i := len(d.nets) - 1; i >= 0; i-- {
		if d.nets[i].Hit(p) {
			return d.nets[i], true
		}
	}
	return nil, false
}

// Selected returns the selected entities in z-order.
func (d *Document) Selected() []Entity {
	var out []Entity
	for _, e := range d.order {
		if d.isSelected(e) {
			out = append(out, e)
		}
	}
	return out
}

// SelectedNets returns the selected nets in creation order.
func (d *Document) SelectedNets() []*Net {
	var out []*Net
	for _, n := range d.nets {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

func (d *Document) isSelected(e Entity) bool {
	switch e.Kind {
	case KindDevice:
		dev, ok := d.Device(e.ID)
		return ok && dev.Selected
	case KindPin:
		p, ok := d.Pin(e.ID)
		return ok && p.Selected
	}
	return false
}

// Select marks e selected and raises it.
func (d *Document) Select(e Entity) {
	switch e.Kind {
	case KindDevice:
		if dev, ok := d.Device(e.ID); ok {
			dev.Selected = true
			d.Raise(e)
		}
	case KindPin:
		if p, ok := d.Pin(e.ID); ok {
			p.Selected = true
			d.Raise(e)
		}
	}
}

// Deselect clears the selection flag of e.
func (d *Document) Deselect(e Entity) {
	switch e.Kind {
	case KindDevice:
		if dev, ok := d.Device(e.ID); ok {
			dev.Selected = false
		}
	case KindPin:
		if p, ok := d.Pin(e.ID); ok {
			p.Selected = false
		}
	}
}

// Toggle flips the selection of e.
func (d *Document) Toggle(e Entity) {
	if d.isSelected(e) {
		d.Deselect(e)
	} else {
		d.Select(e)
	}
}

// DeselectAll clears every entity and net selection.
func (d *Document) DeselectAll() {
	for _, dev := range d.devices {
		if dev != nil {
			dev.Selected = false
		}
	}
	for _, p := range d.pins {
		p.Selected = false
	}
	for _, n := range d.nets {
		n.Selected = false
	}
}

// Raise moves e to the top of the z-order. Raising a device raises its pins
// above it; raising an assigned pin raises its whole device so the pin is
// never hidden beneath it.
func (d *Document) Raise(e Entity) {
	switch e.Kind {
	case KindDevice:
		dev, ok := d.Device(e.ID)
		if !ok {
			return
		}
		d.toTop(e)
		for _, pid := range dev.Pins {
			d.toTop(PinRef(pid))
		}
	case KindPin:
		if dev, ok := d.DeviceOf(e.ID); ok {
			d.Raise(DeviceRef(dev.ID))
			return
		}
		d.toTop(e)
	}
}

func (d *Document) toTop(e Entity) {
	if i := slices.Index(d.order, e); i >= 0 {
		d.order = append(slices.Delete(d.order, i, i+1), e)
	}
}

// Click applies a pointer press at p. Unless additive, the selection is
// cleared first. The entity under p is toggled; when there is none, the net
// under p is toggled instead.
func (d *Document) Click(p geometry.Point, additive bool) {
	if !additive {
		d.DeselectAll()
	}
	if e, ok := d.HitTest(p); ok {
		d.Toggle(e)
	} else if n, ok := d.HitTestNet(p); ok {
		n.Selected = !n.Selected
	}
	d.UpdateNets(false)
}

// DeleteSelected removes selected devices, pins that are selected or whose
// device is selected, and selected nets. Remaining nets drop the deleted pins.
func (d *Document) DeleteSelected() {
	for _, e := range slices.Clone(d.order) {
		switch e.Kind {
		case KindDevice:
			if dev := d.devices[e.ID]; dev.Selected {
				for _, pid := range slices.Clone(dev.Pins) {
					d.deletePin(d.pins[pid])
				}
				d.deleteDevice(dev)
			}
		case KindPin:
			p := d.pins[e.ID]
			if p.Deleted {
				continue
			}
			dev, hasDev := d.Device(p.Device)
			if p.Selected || (hasDev && dev.Selected) {
				d.deletePin(p)
			}
		}
	}
	d.nets = slices.DeleteFunc(d.nets, func(n *Net) bool { return n.Selected })
	d.UpdateNets(false)
	d.DeselectAll()
}
