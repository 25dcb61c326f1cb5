package job

import (
	"fmt"
	"slices"
)

// DoseCompensation scales the exposure dose near a substrate edge.
type DoseCompensation struct {
	NodeBase

	edgeLocation    []float64
	edgeOrientation float64
	domainSize      []float64
	gainLimit       float64
}

// NewDoseCompensation builds a dose compensation over a 200x100x100 um
// domain with a gain limit of 2.
func NewDoseCompensation(name string) (*DoseCompensation, error) {
	d := &DoseCompensation{
		edgeLocation: []float64{0, 0, 0},
		domainSize:   []float64{200, 100, 100},
		gainLimit:    2,
	}
	if err := d.init(KindDoseCompensation, name, d, nil, nil); err != nil {
		return nil, err
	}
	return d, nil
}

// SetEdge places the compensated edge at location [x, y, z] with the given
// orientation in degrees.
func (d *DoseCompensation) SetEdge(location []float64, orientation float64) error {
	if len(location) != 3 {
		return fmt.Errorf("edge location: %w", ErrBadVector)
	}
	d.edgeLocation = slices.Clone(location)
	d.edgeOrientation = orientation
	return nil
}

// SetDomainSize sets the compensated domain extents in micrometers. All
// three must be positive.
func (d *DoseCompensation) SetDomainSize(size []float64) error {
	if len(size) != 3 {
		return fmt.Errorf("domain size: %w", ErrBadVector)
	}
	for _, s := range size {
		if s <= 0 {
			return fmt.Errorf("domain size %v: extents must be positive", size)
		}
	}
	d.domainSize = slices.Clone(size)
	return nil
}

// SetGainLimit sets the dose gain limit. Must be at least 1.
func (d *DoseCompensation) SetGainLimit(v float64) error {
	if v < 1 {
		return fmt.Errorf("gain limit %v: must be at least 1", v)
	}
	d.gainLimit = v
	return nil
}

func (d *DoseCompensation) Record() Record {
	rec := d.NodeBase.Record()
	rec["position_local_cos"] = slices.Clone(d.edgeLocation)
	rec["z_rotation_local_cos"] = d.edgeOrientation
	rec["size"] = slices.Clone(d.domainSize)
	rec["gain_limit"] = d.gainLimit
	return rec
}

func (d *DoseCompensation) clone() Node {
	dup := &DoseCompensation{
		edgeLocation:    slices.Clone(d.edgeLocation),
		edgeOrientation: d.edgeOrientation,
		domainSize:      slices.Clone(d.domainSize),
		gainLimit:       d.gainLimit,
	}
	d.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Capture modes.
const (
	CaptureCamera   = "Camera"
	CaptureConfocal = "Confocal"
)

// Capture records an image of the print area, by camera (the default) or by
// confocal scan.
type Capture struct {
	NodeBase

	captureType        string
	laserPower         float64
	scanAreaSize       []float64
	scanAreaRefFactors []float64
}

// NewCapture builds a camera capture.
func NewCapture(name string) (*Capture, error) {
	c := &Capture{
		captureType:        CaptureCamera,
		laserPower:         0.5,
		scanAreaSize:       []float64{100, 100},
		scanAreaRefFactors: []float64{1, 1},
	}
	if err := c.init(KindCapture, name, c, nil, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// CaptureType returns CaptureCamera or CaptureConfocal.
func (c *Capture) CaptureType() string { return c.captureType }

// Confocal switches the capture to a confocal scan with the given laser
// power, scan area size and resolution factors.
func (c *Capture) Confocal(laserPower float64, scanAreaSize, refFactors []float64) error {
	if laserPower < 0 {
		return fmt.Errorf("laser power %v: must not be negative", laserPower)
	}
	if len(scanAreaSize) != 2 || scanAreaSize[0] < 0 || scanAreaSize[1] < 0 {
		return fmt.Errorf("scan area size %v: must be two non-negative extents", scanAreaSize)
	}
	if len(refFactors) != 2 || refFactors[0] <= 0 || refFactors[1] <= 0 {
		return fmt.Errorf("scan area factors %v: must be two positive factors", refFactors)
	}
	c.captureType = CaptureConfocal
	c.laserPower = laserPower
	c.scanAreaSize = slices.Clone(scanAreaSize)
	c.scanAreaRefFactors = slices.Clone(refFactors)
	return nil
}

func (c *Capture) Record() Record {
	rec := c.NodeBase.Record()
	rec["capture_type"] = c.captureType
	rec["laser_power"] = c.laserPower
	rec["scan_area_size"] = slices.Clone(c.scanAreaSize)
	rec["scan_area_ref_factors"] = slices.Clone(c.scanAreaRefFactors)
	return rec
}

func (c *Capture) clone() Node {
	dup := &Capture{
		captureType:        c.captureType,
		laserPower:         c.laserPower,
		scanAreaSize:       slices.Clone(c.scanAreaSize),
		scanAreaRefFactors: slices.Clone(c.scanAreaRefFactors),
	}
	c.cloneInto(&dup.NodeBase, dup)
	return dup
}

// StageMove drives the stage to an absolute target position.
type StageMove struct {
	NodeBase

	targetPosition []float64
}

// NewStageMove builds a stage move to target [x, y, z] in micrometers.
func NewStageMove(name string, target []float64) (*StageMove, error) {
	if len(target) != 3 {
		return nil, fmt.Errorf("stage target: %w", ErrBadVector)
	}
	s := &StageMove{targetPosition: slices.Clone(target)}
	if err := s.init(KindStageMove, name, s, nil, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// TargetPosition returns the stage target in micrometers.
func (s *StageMove) TargetPosition() []float64 { return s.targetPosition }

func (s *StageMove) Record() Record {
	rec := s.NodeBase.Record()
	rec["target_position"] = slices.Clone(s.targetPosition)
	return rec
}

func (s *StageMove) clone() Node {
	dup := &StageMove{targetPosition: slices.Clone(s.targetPosition)}
	s.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Wait pauses the job for a fixed duration.
type Wait struct {
	NodeBase

	waitTime float64
}

// NewWait builds a wait of seconds duration. Must be positive.
func NewWait(name string, seconds float64) (*Wait, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("wait time %v: must be positive", seconds)
	}
	w := &Wait{waitTime: seconds}
	if err := w.init(KindWait, name, w, nil, nil); err != nil {
		return nil, err
	}
	return w, nil
}

// WaitTime returns the pause duration in seconds.
func (w *Wait) WaitTime() float64 { return w.waitTime }

func (w *Wait) Record() Record {
	rec := w.NodeBase.Record()
	rec["wait_time"] = w.waitTime
	return rec
}

func (w *Wait) clone() Node {
	dup := &Wait{waitTime: w.waitTime}
	w.cloneInto(&dup.NodeBase, dup)
	return dup
}
