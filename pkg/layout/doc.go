// Package layout is the editor's document model: devices, pins and nets on
// a canvas.
//
// # Entities
//
// A [Document] is an arena. Devices and pins live in dense slices indexed by
// their id, and every reference between them is an id, never a pointer. An
// [Entity] is the tagged handle used wherever either kind is accepted
// (hit testing, selection, movement).
//
// Devices and pins draw ids from independent counters kept on the document.
// [Document.Clear] resets all counters.
//
// # Assignment
//
// A pin belongs to the device whose rectangle contains its center. When
// several devices overlap the center, the device created last wins. The
// relation is resolved by a linear scan in [Document.ReassignDevice] and is
// only recomputed when asked (on pin creation and after a drag ends), never
// while the pin moves.
//
// # Nets
//
// A [Net] references pins by id. Its rendered segments are derived state: a
// pure function of the pin centers and the net's [Mode], recomputed by
// [Document.UpdateNets]. Deleted pins are pruned from nets on their next
// update.
//
// # Example
//
//	doc := layout.New()
//	dev := doc.AddDevice(100, 100, 25, 25)
//	pin := doc.AddPin(105, 95, 5, 5)
//	_ = doc.Move(layout.DeviceRef(dev.ID), geometry.Pt(200, 200))
//	// pin.Rect.Center is now (205, 195)
package layout
