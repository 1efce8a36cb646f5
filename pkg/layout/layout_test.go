package layout

import (
	"slices"
	"testing"

	"github.com/placerlab/placer/pkg/errors"
	"github.com/placerlab/placer/pkg/geometry"
)

func TestPinAssignedOnCreate(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	pin := d.AddPin(105, 95, 5, 5)

	if pin.Device != dev.ID {
		t.Fatalf("pin.Device = %d, want %d", pin.Device, dev.ID)
	}
	if !slices.Equal(dev.Pins, []int{pin.ID}) {
		t.Errorf("dev.Pins = %v, want [%d]", dev.Pins, pin.ID)
	}

	if err := d.Move(DeviceRef(dev.ID), geometry.Pt(200, 200)); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if pin.Rect.Center != geometry.Pt(205, 195) {
		t.Errorf("pin center = %v, want (205,195)", pin.Rect.Center)
	}

	far := d.AddPin(1000, 1000, 5, 5)
	if far.Assigned() {
		t.Error("pin outside every device should be unassigned")
	}
	snap := d.Snapshot()
	if len(snap.Devices) != 1 || len(snap.Pins) != 1 || len(snap.Nets) != 0 {
		t.Errorf("snapshot = %d devices, %d pins, %d nets, want 1, 1, 0",
			len(snap.Devices), len(snap.Pins), len(snap.Nets))
	}
}

func TestReassignLastDeviceWins(t *testing.T) {
	d := New()
	a := d.AddDevice(100, 100, 30, 30)
	b := d.AddDevice(110, 100, 30, 30)
	pin := d.AddPin(105, 100, 5, 5)

	if pin.Device != b.ID {
		t.Fatalf("pin.Device = %d, want later device %d", pin.Device, b.ID)
	}

	// Raising a does not change the creation-order tie-break.
	d.Select(DeviceRef(a.ID))
	if err := d.ReassignDevice(pin.ID); err != nil {
		t.Fatal(err)
	}
	if pin.Device != b.ID {
		t.Errorf("after reassign pin.Device = %d, want %d", pin.Device, b.ID)
	}
	if len(a.Pins) != 0 || len(b.Pins) != 1 {
		t.Errorf("a.Pins = %v, b.Pins = %v", a.Pins, b.Pins)
	}
}

func TestReassignAfterDrag(t *testing.T) {
	d := New()
	a := d.AddDevice(100, 100, 25, 25)
	b := d.AddDevice(300, 100, 25, 25)
	pin := d.AddPin(100, 100, 5, 5)

	d.Select(PinRef(pin.ID))
	d.Drag(geometry.Pt(100, 0))
	if pin.Device != a.ID {
		t.Fatalf("drag must not reassign: pin.Device = %d, want %d", pin.Device, a.ID)
	}
	d.Drag(geometry.Pt(100, 0))
	d.Release()
	if pin.Device != b.ID {
		t.Errorf("after release pin.Device = %d, want %d", pin.Device, b.ID)
	}
	if len(a.Pins) != 0 {
		t.Errorf("old device still owns pins: %v", a.Pins)
	}
}

func TestDragSkipsPinsOfSelectedDevice(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	pin := d.AddPin(110, 110, 5, 5)

	d.Select(DeviceRef(dev.ID))
	d.Select(PinRef(pin.ID))
	d.Drag(geometry.Pt(10, -10))

	if dev.Rect.Center != geometry.Pt(110, 90) {
		t.Errorf("device center = %v, want (110,90)", dev.Rect.Center)
	}
	if pin.Rect.Center != geometry.Pt(120, 100) {
		t.Errorf("pin center = %v, want (120,100), moved once", pin.Rect.Center)
	}
}

func TestMoveUnknownEntity(t *testing.T) {
	d := New()
	err := d.Move(DeviceRef(3), geometry.Pt(0, 0))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Move() error = %v, want NOT_FOUND", err)
	}
}

func TestRaise(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	pin := d.AddPin(100, 100, 5, 5)
	other := d.AddDevice(100, 100, 40, 40)

	// other was created after pin but the pin resolved before it existed.
	if pin.Device != dev.ID {
		t.Fatalf("pin.Device = %d, want %d", pin.Device, dev.ID)
	}
	if e, _ := d.HitTest(geometry.Pt(100, 100)); e != DeviceRef(other.ID) {
		t.Fatalf("HitTest = %v, want %v", e, DeviceRef(other.ID))
	}

	d.Raise(PinRef(pin.ID))
	want := []Entity{DeviceRef(other.ID), DeviceRef(dev.ID), PinRef(pin.ID)}
	if got := d.ZOrder(); !slices.Equal(got, want) {
		t.Errorf("ZOrder = %v, want %v", got, want)
	}
	if e, _ := d.HitTest(geometry.Pt(100, 100)); e != PinRef(pin.ID) {
		t.Errorf("HitTest after raise = %v, want pin", e)
	}
}

func TestClickToggles(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	p1 := d.AddPin(300, 300, 5, 5)
	p2 := d.AddPin(400, 300, 5, 5)
	n := d.AddNet([]int{p1.ID, p2.ID})

	d.Click(geometry.Pt(100, 100), false)
	if !dev.Selected {
		t.Fatal("device should be selected")
	}
	d.Click(geometry.Pt(100, 100), true)
	if dev.Selected {
		t.Fatal("additive click should toggle device off")
	}

	d.Click(geometry.Pt(350, 300), false)
	if !n.Selected {
		t.Fatal("click on a net segment should select the net")
	}
	d.Click(geometry.Pt(700, 700), false)
	if n.Selected || len(d.Selected()) != 0 {
		t.Error("click on empty canvas should clear the selection")
	}
}

func TestDeleteSelected(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	owned := d.AddPin(100, 100, 5, 5)
	other := d.AddDevice(300, 100, 25, 25)
	p2 := d.AddPin(300, 100, 5, 5)
	p3 := d.AddPin(310, 100, 5, 5)
	loose := d.AddPin(600, 600, 5, 5)
	n := d.AddNet([]int{owned.ID, p2.ID, p3.ID})
	gone := d.AddNet([]int{p2.ID, loose.ID})

	d.Select(DeviceRef(dev.ID))
	d.Select(PinRef(p3.ID))
	gone.Selected = true
	d.DeleteSelected()

	if _, ok := d.Device(dev.ID); ok {
		t.Error("selected device should be deleted")
	}
	if _, ok := d.Pin(owned.ID); ok {
		t.Error("pin of selected device should be deleted")
	}
	if _, ok := d.Pin(p3.ID); ok {
		t.Error("selected pin should be deleted")
	}
	if !slices.Equal(other.Pins, []int{p2.ID}) {
		t.Errorf("surviving device pins = %v, want [%d]", other.Pins, p2.ID)
	}
	if !slices.Equal(n.Pins, []int{p2.ID}) {
		t.Errorf("net pins = %v, want pruned to [%d]", n.Pins, p2.ID)
	}
	if len(n.Segments) != 0 {
		t.Errorf("single-pin net should render nothing, got %d segments", len(n.Segments))
	}
	if _, ok := d.Net(gone.ID); ok {
		t.Error("selected net should be deleted")
	}
	if len(d.Selected()) != 0 {
		t.Error("selection should be cleared")
	}
	if _, ok := d.Pin(loose.ID); !ok {
		t.Error("unselected pin should survive")
	}
}

func TestDeleteDeviceCascades(t *testing.T) {
	d := New()
	dev := d.AddDevice(0, 0, 25, 25)
	p := d.AddPin(5, 5, 5, 5)
	if err := d.DeleteDevice(dev.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Pin(p.ID); ok {
		t.Error("owned pin should be deleted with its device")
	}
	if err := d.DeleteDevice(dev.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second delete error = %v, want NOT_FOUND", err)
	}
}

func TestClearResetsCounters(t *testing.T) {
	d := New()
	d.AddDevice(0, 0, 25, 25)
	d.AddPin(0, 0, 5, 5)
	d.AddPin(1, 1, 5, 5)
	d.Clear()

	if s := d.Stats(); s != (Stats{}) {
		t.Errorf("Stats after Clear = %+v, want zero", s)
	}
	if dev := d.AddDevice(0, 0, 25, 25); dev.ID != 0 {
		t.Errorf("device id after Clear = %d, want 0", dev.ID)
	}
	if p := d.AddPin(500, 500, 5, 5); p.ID != 0 {
		t.Errorf("pin id after Clear = %d, want 0", p.ID)
	}
}

func TestAddNetFromSelection(t *testing.T) {
	d := New()
	dev := d.AddDevice(100, 100, 25, 25)
	a := d.AddPin(90, 90, 5, 5)
	b := d.AddPin(110, 110, 5, 5)
	c := d.AddPin(500, 500, 5, 5)

	if n := d.AddNetFromSelection(); n != nil {
		t.Fatal("empty selection should not create a net")
	}
	d.Select(DeviceRef(dev.ID))
	d.Select(PinRef(c.ID))
	n := d.AddNetFromSelection()
	if n == nil {
		t.Fatal("AddNetFromSelection() = nil")
	}
	got := slices.Clone(n.Pins)
	slices.Sort(got)
	if want := []int{a.ID, b.ID, c.ID}; !slices.Equal(got, want) {
		t.Errorf("net pins = %v, want %v", got, want)
	}
	if n.Color != NetColors[0] {
		t.Errorf("net color = %s, want %s", n.Color, NetColors[0])
	}
}

func TestAlignAll(t *testing.T) {
	d := New()
	dev := d.AddDevice(103, 97, 25, 25)
	pin := d.AddPin(111, 93, 5, 5)
	loose := d.AddPin(503, 506, 5, 5)

	d.AlignAll()

	if dev.Rect.Center != geometry.Pt(100, 100) {
		t.Errorf("device center = %v, want (100,100)", dev.Rect.Center)
	}
	// (111,93) moved with the device to (108,96), then snapped to the pin grid.
	if pin.Rect.Center != geometry.Pt(110, 95) {
		t.Errorf("pin center = %v, want (110,95)", pin.Rect.Center)
	}
	if loose.Rect.Center != geometry.Pt(500, 510) {
		t.Errorf("loose pin center = %v, want (500,510)", loose.Rect.Center)
	}
}

func TestStats(t *testing.T) {
	d := New()
	d.AddDevice(0, 0, 25, 25)
	a := d.AddPin(0, 0, 5, 5)
	b := d.AddPin(10, 10, 5, 5)
	c := d.AddPin(900, 900, 5, 5)
	d.AddNet([]int{a.ID, b.ID})
	d.AddNet([]int{a.ID, c.ID})

	want := Stats{Devices: 1, Pins: 3, AssignedPins: 2, Nets: 2, QualifyingNets: 1}
	if got := d.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
