package layout

import (
	"fmt"

	"github.com/placerlab/placer/pkg/geometry"
)

// NoDevice marks a pin that is not assigned to any device.
const NoDevice = -1

// Kind discriminates the two entity variants.
type Kind uint8

const (
	KindDevice Kind = iota + 1
	KindPin
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindPin:
		return "pin"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entity is a handle to either a device or a pin.
type Entity struct {
	Kind Kind `json:"kind"`
	ID   int  `json:"id"`
}

// DeviceRef returns the handle of device id.
func DeviceRef(id int) Entity { return Entity{Kind: KindDevice, ID: id} }

// PinRef returns the handle of pin id.
func PinRef(id int) Entity { return Entity{Kind: KindPin, ID: id} }

// IsDevice reports whether e refers to a device.
func (e Entity) IsDevice() bool { return e.Kind == KindDevice }

func (e Entity) String() string { return fmt.Sprintf("%s#%d", e.Kind, e.ID) }

// Device is a placed rectangle that owns the pins inside it.
type Device struct {
	ID       int           `json:"id"`
	Rect     geometry.Rect `json:"rect"`
	Pins     []int         `json:"pins,omitempty"`
	Selected bool          `json:"selected,omitempty"`
}

// Pin is a small rectangle optionally attached to a device.
type Pin struct {
	ID       int           `json:"id"`
	Rect     geometry.Rect `json:"rect"`
	Device   int           `json:"device"`
	Selected bool          `json:"selected,omitempty"`
	Deleted  bool          `json:"deleted,omitempty"`
}

// Assigned reports whether the pin is live and attached to a device.
func (p *Pin) Assigned() bool { return !p.Deleted && p.Device != NoDevice }

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
