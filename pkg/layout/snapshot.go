package layout

// Snapshot is the exportable view of a document: every device, the pins
// assigned to a device, and the nets with at least two assigned pins.
type Snapshot struct {
	Devices []Device    `json:"devices"`
	Pins    []Pin       `json:"pins"`
	Nets    []NetRecord `json:"nets"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
}

// NetRecord lists the assigned pins of a qualifying net.
type NetRecord struct {
	ID   int   `json:"id"`
	Pins []int `json:"pins"`
}

// Snapshot re-renders every net and captures the exportable state.
// Devices and pins appear in z-order; nets in creation order.
func (d *Document) Snapshot() Snapshot {
	d.UpdateNets(true)

	s := Snapshot{Width: d.Width, Height: d.Height}
	for _, e := range d.order {
		switch e.Kind {
		case KindDevice:
			dev := *d.devices[e.ID]
			dev.Pins = append([]int(nil), dev.Pins...)
			s.Devices = append(s.Devices, dev)
		case KindPin:
			if p := d.pins[e.ID]; p.Assigned() {
				s.Pins = append(s.Pins, *p)
			}
		}
	}
	for _, n := range d.nets {
		if ids := d.assignedPins(n); len(ids) >= 2 {
			s.Nets = append(s.Nets, NetRecord{ID: n.ID, Pins: ids})
		}
	}
	return s
}
