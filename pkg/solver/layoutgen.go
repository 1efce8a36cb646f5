package solver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/placerlab/placer/pkg/errors"
	pkgio "github.com/placerlab/placer/pkg/io"
)

// GenConfig describes a random grid layout. Each [lo, hi] pair is an
// inclusive range sampled uniformly.
type GenConfig struct {
	Seed         int64
	BBoxWidth    int
	BBoxHeight   int
	StepX, StepY int
	Rows, Cols   int
	Nets         int

	DeviceHW, DeviceHH [2]int
	PinHW, PinHH       [2]int
	PinsPerDevice      [2]int
	PinsPerNet         [2]int
}

// DefaultGenConfig returns the generator defaults for a rows×cols grid.
func DefaultGenConfig(rows, cols, nets int) GenConfig {
	return GenConfig{
		Seed:          -1,
		BBoxWidth:     1488,
		BBoxHeight:    873,
		StepX:         70,
		StepY:         70,
		Rows:          rows,
		Cols:          cols,
		Nets:          nets,
		DeviceHW:      [2]int{25, 25},
		DeviceHH:      [2]int{25, 25},
		PinHW:         [2]int{5, 5},
		PinHH:         [2]int{5, 5},
		PinsPerDevice: [2]int{1, 4},
		PinsPerNet:    [2]int{2, 6},
	}
}

// LayoutGenerator is the "layout_gen" solver. It ignores its input and
// writes a random layout to the output path.
type LayoutGenerator struct {
	// Now seeds the generator when seed is -1.
	Now func() time.Time
}

// NewLayoutGenerator returns a generator seeded from the wall clock.
func NewLayoutGenerator() *LayoutGenerator {
	return &LayoutGenerator{Now: time.Now}
}

func (*LayoutGenerator) Name() string { return "layout_gen" }

func (*LayoutGenerator) Params() []Field {
	d := DefaultGenConfig(0, 0, 0)
	itoa := strconv.Itoa
	return []Field{
		{Key: "path"},
		{Key: "seed", Value: "-1", Optional: true},
		{Key: "bbox_width", Value: itoa(d.BBoxWidth), Optional: true},
		{Key: "bbox_height", Value: itoa(d.BBoxHeight), Optional: true},
		{Key: "step_x", Value: itoa(d.StepX), Optional: true},
		{Key: "step_y", Value: itoa(d.StepY), Optional: true},
		{Key: "rows"},
		{Key: "cols"},
		{Key: "nets"},
		{Key: "device_hwidth_left", Value: itoa(d.DeviceHW[0]), Optional: true},
		{Key: "device_hwidth_right", Value: itoa(d.DeviceHW[1]), Optional: true},
		{Key: "device_hheight_left", Value: itoa(d.DeviceHH[0]), Optional: true},
		{Key: "device_hheight_right", Value: itoa(d.DeviceHH[1]), Optional: true},
		{Key: "pin_hwidth_left", Value: itoa(d.PinHW[0]), Optional: true},
		{Key: "pin_hwidth_right", Value: itoa(d.PinHW[1]), Optional: true},
		{Key: "pin_hheight_left", Value: itoa(d.PinHH[0]), Optional: true},
		{Key: "pin_hheight_right", Value: itoa(d.PinHH[1]), Optional: true},
		{Key: "pd_count_left", Value: itoa(d.PinsPerDevice[0]), Optional: true},
		{Key: "pd_count_right", Value: itoa(d.PinsPerDevice[1]), Optional: true},
		{Key: "pn_count_left", Value: itoa(d.PinsPerNet[0]), Optional: true},
		{Key: "pn_count_right", Value: itoa(d.PinsPerNet[1]), Optional: true},
	}
}

func (g *LayoutGenerator) Estimate(ctx context.Context, input, output string, params Params) ([]Field, error) {
	if _, err := ParseGenConfig(params); err != nil {
		return nil, err
	}
	return []Field{{Key: KeyExpectTime, Value: "0 sec"}}, nil
}

func (g *LayoutGenerator) Solve(ctx context.Context, input, output string, params Params) ([]Field, error) {
	cfg, err := ParseGenConfig(params)
	if err != nil {
		return nil, err
	}
	if cfg.Seed == -1 {
		now := time.Now
		if g.Now != nil {
			now = g.Now
		}
		cfg.Seed = int64(uint32(now().UnixNano()))
	}
	if err := pkgio.WriteFile(Generate(cfg), output); err != nil {
		return nil, err
	}
	return []Field{{Key: "seed", Value: strconv.FormatInt(cfg.Seed, 10)}}, nil
}

// ParseGenConfig reads and validates generator parameters.
func ParseGenConfig(p Params) (GenConfig, error) {
	var errs []error
	req := func(key string) int {
		v, err := p.RequiredInt(key)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	opt := func(key string, def int) int {
		v, err := p.Int(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	pair := func(name string, def [2]int) [2]int {
		return [2]int{opt(name+"_left", def[0]), opt(name+"_right", def[1])}
	}

	rows, cols, nets := req("rows"), req("cols"), req("nets")
	if len(errs) > 0 {
		return GenConfig{}, errs[0]
	}
	cfg := DefaultGenConfig(rows, cols, nets)
	cfg.Seed = int64(opt("seed", int(cfg.Seed)))
	cfg.BBoxWidth = opt("bbox_width", cfg.BBoxWidth)
	cfg.BBoxHeight = opt("bbox_height", cfg.BBoxHeight)
	cfg.StepX = opt("step_x", cfg.StepX)
	cfg.StepY = opt("step_y", cfg.StepY)
	cfg.DeviceHW = pair("device_hwidth", cfg.DeviceHW)
	cfg.DeviceHH = pair("device_hheight", cfg.DeviceHH)
	cfg.PinHW = pair("pin_hwidth", cfg.PinHW)
	cfg.PinHH = pair("pin_hheight", cfg.PinHH)
	cfg.PinsPerDevice = pair("pd_count", cfg.PinsPerDevice)
	cfg.PinsPerNet = pair("pn_count", cfg.PinsPerNet)
	if len(errs) > 0 {
		return GenConfig{}, errs[0]
	}
	return cfg, cfg.Validate()
}

// Validate checks counts and ranges.
func (c GenConfig) Validate() error {
	var v errors.ValidationErrors
	if c.Rows < 0 {
		v.Add("rows", "must not be negative")
	}
	if c.Cols < 0 {
		v.Add("cols", "must not be negative")
	}
	if c.Nets < 0 {
		v.Add("nets", "must not be negative")
	}
	for _, r := range []struct {
		name string
		rng  [2]int
		min  int
	}{
		{"device_hwidth", c.DeviceHW, 0},
		{"device_hheight", c.DeviceHH, 0},
		{"pin_hwidth", c.PinHW, 0},
		{"pin_hheight", c.PinHH, 0},
		{"pd_count", c.PinsPerDevice, 0},
		{"pn_count", c.PinsPerNet, 0},
	} {
		if r.rng[0] < r.min {
			v.Add(r.name+"_left", "must be at least %d", r.min)
		}
		if r.rng[0] > r.rng[1] {
			v.Add(r.name, "left %d exceeds right %d", r.rng[0], r.rng[1])
		}
	}
	return v.Err()
}

// Generate builds a random layout. Devices sit on a rows×cols grid centered
// in the bounding box and are filled in shuffled order, so pin indices are
// not grouped by grid position. Nets draw the least-used pins first, ties
// going to the lowest index, and never repeat a pin.
func Generate(c GenConfig) *pkgio.File {
	seed := uint64(c.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	between := func(r [2]int) int { return r[0] + rng.IntN(r[1]-r[0]+1) }

	n := c.Rows * c.Cols
	pinsIn := make([]int, n)
	pinCount := 0
	for i := range pinsIn {
		pinsIn[i] = between(c.PinsPerDevice)
		pinCount += pinsIn[i]
	}

	f := &pkgio.File{
		Devices: make([]pkgio.DeviceRecord, n),
		Pins:    make([]pkgio.PinRecord, 0, pinCount),
		Width:   c.BBoxWidth,
		Height:  c.BBoxHeight,
	}
	offX := c.BBoxWidth/2 - (c.Cols-1)*c.StepX/2
	offY := c.BBoxHeight/2 - (c.Rows-1)*c.StepY/2

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, id := range order {
		row, col := id/c.Cols, id%c.Cols
		d := pkgio.DeviceRecord{
			Index: id,
			X:     offX + c.StepX*col,
			Y:     offY + c.StepY*row,
			HW:    between(c.DeviceHW),
			HH:    between(c.DeviceHH),
		}
		f.Devices[id] = d
		for k := 0; k < pinsIn[id]; k++ {
			f.Pins = append(f.Pins, pkgio.PinRecord{
				Index:  len(f.Pins),
				Device: id,
				HW:     between(c.PinHW),
				HH:     between(c.PinHH),
				DX:     between([2]int{-d.HW, d.HW}),
				DY:     between([2]int{-d.HH, d.HH}),
			})
		}
	}

	// Taking pins by (use count, index) visits them round-robin.
	next := 0
	for i := 0; i < c.Nets; i++ {
		size := min(between(c.PinsPerNet), pinCount)
		net := pkgio.NetRecord{Index: i, Pins: make([]int, size)}
		for j := range net.Pins {
			net.Pins[j] = next
			next = (next + 1) % pinCount
		}
		f.Nets = append(f.Nets, net)
	}
	if err := f.Validate(); err != nil {
		panic(fmt.Sprintf("layout_gen: generated file is invalid: %v", err))
	}
	return f
}
