package job

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fbeier/nanoprint/pkg/resource"
)

// Failure actions shared by the aligner kinds.
const (
	FailureAbort  = "abort"
	FailureIgnore = "ignore"
)

// Anchor count mismatches from the batch setters.
var ErrAnchorMismatch = errors.New("anchor labels and positions must have equal length")

func validFailureAction(v string) error {
	if v != FailureAbort && v != FailureIgnore {
		return fmt.Errorf("failure action %q: must be %q or %q", v, FailureAbort, FailureIgnore)
	}
	return nil
}

// CoarseAligner aligns the stage against labeled 3D anchor positions.
type CoarseAligner struct {
	NodeBase

	residualThreshold float64
	anchors           []Record
}

// NewCoarseAligner builds a coarse aligner with a 10 um residual threshold.
func NewCoarseAligner(name string) (*CoarseAligner, error) {
	c := &CoarseAligner{residualThreshold: 10}
	if err := c.init(KindCoarseAlignment, name, c, nil, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// ResidualThreshold returns the alignment residual threshold in micrometers.
func (c *CoarseAligner) ResidualThreshold() float64 { return c.residualThreshold }

// SetResidualThreshold sets the residual threshold. Must be positive.
func (c *CoarseAligner) SetResidualThreshold(v float64) error {
	if v <= 0 {
		return fmt.Errorf("residual threshold %v: must be positive", v)
	}
	c.residualThreshold = v
	return nil
}

// AddAnchor appends a labeled anchor at position [x, y, z].
func (c *CoarseAligner) AddAnchor(label string, position []float64) error {
	if len(position) != 3 {
		return fmt.Errorf("anchor %q position: %w", label, ErrBadVector)
	}
	c.anchors = append(c.anchors, Record{
		"label":    label,
		"position": slices.Clone(position),
	})
	return nil
}

// SetAnchorsAt appends one anchor per label/position pair.
func (c *CoarseAligner) SetAnchorsAt(labels []string, positions [][]float64) error {
	if len(labels) != len(positions) {
		return ErrAnchorMismatch
	}
	for i, l := range labels {
		if err := c.AddAnchor(l, positions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Anchors returns the anchor records in insertion order.
func (c *CoarseAligner) Anchors() []Record { return c.anchors }

func (c *CoarseAligner) Record() Record {
	rec := c.NodeBase.Record()
	rec["residual_threshold"] = c.residualThreshold
	rec["alignment_anchors"] = cloneRecordSlice(c.anchors)
	return rec
}

func (c *CoarseAligner) clone() Node {
	dup := &CoarseAligner{
		residualThreshold: c.residualThreshold,
		anchors:           cloneRecordSlice(c.anchors),
	}
	c.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Interface aligner signal and detector choices, plus anchor patterns.
const (
	SignalAuto         = "auto"
	SignalFluorescence = "fluorescence"
	SignalReflection   = "reflection"

	DetectorAuto         = "auto"
	DetectorConfocal     = "confocal"
	DetectorCamera       = "camera"
	DetectorCameraLegacy = "camera_legacy"

	PatternOrigin = "Origin"
	PatternGrid   = "Grid"
	PatternCustom = "Custom"
)

// InterfaceAligner finds the substrate interface before printing. Its
// measurement locations follow one of three patterns: the scene origin (the
// default), a grid, or custom anchors. SetGrid and AddAnchor switch the
// pattern implicitly, matching how operators use it.
type InterfaceAligner struct {
	NodeBase

	signalType          string
	detectorType        string
	measureTilt         bool
	areaMeasurement     bool
	centerStage         bool
	actionUponFailure   string
	laserPower          float64
	scanAreaResFactors  []float64
	scanZSampleDistance float64
	scanZSampleCount    int

	anchors []Record
	count   []int
	size    []float64
	pattern string
}

// NewInterfaceAligner builds an interface aligner with automatic signal and
// detector selection and the origin pattern.
func NewInterfaceAligner(name string) (*InterfaceAligner, error) {
	ia := &InterfaceAligner{
		signalType:          SignalAuto,
		detectorType:        DetectorAuto,
		centerStage:         true,
		actionUponFailure:   FailureAbort,
		laserPower:          0.5,
		scanAreaResFactors:  []float64{1, 1},
		scanZSampleDistance: 0.1,
		scanZSampleCount:    51,
		count:               []int{5, 5},
		size:                []float64{200, 200},
		pattern:             PatternOrigin,
	}
	if err := ia.init(KindInterfaceAlignment, name, ia, nil, nil); err != nil {
		return nil, err
	}
	return ia, nil
}

// SetSignalType selects the measurement signal.
func (ia *InterfaceAligner) SetSignalType(v string) error {
	switch v {
	case SignalAuto, SignalFluorescence, SignalReflection:
		ia.signalType = v
		return nil
	}
	return fmt.Errorf("signal type %q: must be auto, fluorescence or reflection", v)
}

// SetDetectorType selects the detector.
func (ia *InterfaceAligner) SetDetectorType(v string) error {
	switch v {
	case DetectorAuto, DetectorConfocal, DetectorCamera, DetectorCameraLegacy:
		ia.detectorType = v
		return nil
	}
	return fmt.Errorf("detector type %q: must be auto, confocal, camera or camera_legacy", v)
}

// SetMeasureTilt controls interface tilt measurement.
func (ia *InterfaceAligner) SetMeasureTilt(v bool) { ia.measureTilt = v }

// SetAreaMeasurement controls area measurement.
func (ia *InterfaceAligner) SetAreaMeasurement(v bool) { ia.areaMeasurement = v }

// SetCenterStage controls stage centering before measurement.
func (ia *InterfaceAligner) SetCenterStage(v bool) { ia.centerStage = v }

// SetActionUponFailure selects what happens when alignment fails.
func (ia *InterfaceAligner) SetActionUponFailure(v string) error {
	if err := validFailureAction(v); err != nil {
		return err
	}
	ia.actionUponFailure = v
	return nil
}

// SetLaserPower sets the measurement laser power in mW. Must be positive.
func (ia *InterfaceAligner) SetLaserPower(v float64) error {
	if v <= 0 {
		return fmt.Errorf("laser power %v: must be positive", v)
	}
	ia.laserPower = v
	return nil
}

// SetZScan sets the z sampling distance and count. count must be at least 1.
func (ia *InterfaceAligner) SetZScan(distance float64, count int) error {
	if count < 1 {
		return fmt.Errorf("z sample count %d: must be at least 1", count)
	}
	ia.scanZSampleDistance = distance
	ia.scanZSampleCount = count
	return nil
}

// Pattern returns the active measurement pattern.
func (ia *InterfaceAligner) Pattern() string { return ia.pattern }

// SetGrid switches to the grid pattern with the given point count and grid
// size per axis.
func (ia *InterfaceAligner) SetGrid(count []int, size []float64) error {
	if len(count) != 2 || len(size) != 2 {
		return ErrBadGrid
	}
	ia.pattern = PatternGrid
	ia.count = slices.Clone(count)
	ia.size = slices.Clone(size)
	return nil
}

// AddAnchor switches to the custom pattern and appends a measurement
// location at position [x, y]. nil scanAreaSize means 10x10 um.
func (ia *InterfaceAligner) AddAnchor(label string, position, scanAreaSize []float64) error {
	if len(position) != 2 {
		return fmt.Errorf("anchor %q: position must have two components", label)
	}
	if scanAreaSize == nil {
		scanAreaSize = []float64{10, 10}
	}
	if len(scanAreaSize) != 2 {
		return fmt.Errorf("anchor %q: scan area size must have two components", label)
	}
	ia.pattern = PatternCustom
	ia.anchors = append(ia.anchors, Record{
		"label":          label,
		"position":       slices.Clone(position),
		"scan_area_size": slices.Clone(scanAreaSize),
	})
	return nil
}

// SetAnchorsAt appends one anchor per label/position pair. nil
// scanAreaSizes applies the 10x10 um default to every anchor.
func (ia *InterfaceAligner) SetAnchorsAt(labels []string, positions, scanAreaSizes [][]float64) error {
	if len(labels) != len(positions) {
		return ErrAnchorMismatch
	}
	for i, l := range labels {
		var size []float64
		if scanAreaSizes != nil {
			if len(scanAreaSizes) != len(labels) {
				return ErrAnchorMismatch
			}
			size = scanAreaSizes[i]
		}
		if err := ia.AddAnchor(l, positions[i], size); err != nil {
			return err
		}
	}
	return nil
}

func (ia *InterfaceAligner) Record() Record {
	rec := ia.NodeBase.Record()
	rec["properties"] = Record{
		"signal_type":   ia.signalType,
		"detector_type": ia.detectorType,
	}
	rec["action_upon_failure"] = ia.actionUponFailure
	rec["measure_tilt"] = ia.measureTilt
	rec["area_measurement"] = ia.areaMeasurement
	rec["center_stage"] = ia.centerStage
	rec["laser_power"] = ia.laserPower
	rec["scan_area_res_factors"] = slices.Clone(ia.scanAreaResFactors)
	rec["scan_z_sample_distance"] = ia.scanZSampleDistance
	rec["scan_z_sample_count"] = ia.scanZSampleCount
	rec["alignment_anchors"] = cloneRecordSlice(ia.anchors)
	rec["grid_point_count"] = slices.Clone(ia.count)
	rec["grid_size"] = slices.Clone(ia.size)
	rec["pattern"] = ia.pattern
	return rec
}

func (ia *InterfaceAligner) clone() Node {
	dup := &InterfaceAligner{
		signalType:          ia.signalType,
		detectorType:        ia.detectorType,
		measureTilt:         ia.measureTilt,
		areaMeasurement:     ia.areaMeasurement,
		centerStage:         ia.centerStage,
		actionUponFailure:   ia.actionUponFailure,
		laserPower:          ia.laserPower,
		scanAreaResFactors:  slices.Clone(ia.scanAreaResFactors),
		scanZSampleDistance: ia.scanZSampleDistance,
		scanZSampleCount:    ia.scanZSampleCount,
		anchors:             cloneRecordSlice(ia.anchors),
		count:               slices.Clone(ia.count),
		size:                slices.Clone(ia.size),
		pattern:             ia.pattern,
	}
	ia.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Marker z-scan optimization modes.
const (
	ZScanCorrelation = "correlation"
	ZScanIntensity   = "intensity"
)

// MarkerAligner matches a marker image at labeled positions. The image
// resource must be loaded into the project for the archive to resolve it.
type MarkerAligner struct {
	NodeBase

	image                *resource.Image
	markerSize           []float64
	centerStage          bool
	actionUponFailure    string
	laserPower           float64
	scanAreaSize         []float64
	scanAreaResFactors   []float64
	detectionMargin      float64
	correlationThreshold float64
	residualThreshold    float64
	maxOutliers          int
	orthonormalize       bool
	zScanSampleCount     int
	zScanSampleDistance  float64
	zScanSampleMode      string
	measureZ             bool

	anchors []Record
}

// NewMarkerAligner builds a marker aligner for the given image with marker
// size [w, h] in micrometers. Both extents must be positive.
func NewMarkerAligner(name string, image *resource.Image, markerSize []float64) (*MarkerAligner, error) {
	if image == nil {
		return nil, errors.New("marker aligner requires an image resource")
	}
	if len(markerSize) != 2 || markerSize[0] <= 0 || markerSize[1] <= 0 {
		return nil, fmt.Errorf("marker size %v: must be two positive extents", markerSize)
	}
	m := &MarkerAligner{
		image:                image,
		markerSize:           slices.Clone(markerSize),
		centerStage:          true,
		actionUponFailure:    FailureAbort,
		laserPower:           0.5,
		scanAreaSize:         []float64{10, 10},
		scanAreaResFactors:   []float64{2, 2},
		detectionMargin:      5,
		correlationThreshold: 60,
		residualThreshold:    0.5,
		orthonormalize:       true,
		zScanSampleCount:     1,
		zScanSampleDistance:  0.5,
		zScanSampleMode:      ZScanCorrelation,
	}
	if err := m.init(KindMarkerAlignment, name, m, nil, nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Image returns the marker image resource.
func (m *MarkerAligner) Image() *resource.Image { return m.image }

// SetLaserPower sets the measurement laser power in mW. Negative values are
// rejected.
func (m *MarkerAligner) SetLaserPower(v float64) error {
	if v < 0 {
		return fmt.Errorf("laser power %v: must not be negative", v)
	}
	m.laserPower = v
	return nil
}

// SetCorrelationThreshold sets the abort threshold in percent.
func (m *MarkerAligner) SetCorrelationThreshold(v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("correlation threshold %v: must be within [0, 100]", v)
	}
	m.correlationThreshold = v
	return nil
}

// SetMaxOutliers sets how many markers may fail matching.
func (m *MarkerAligner) SetMaxOutliers(n int) error {
	if n < 0 {
		return fmt.Errorf("max outliers %d: must not be negative", n)
	}
	m.maxOutliers = n
	return nil
}

// SetZScan configures z sampling: count >= 1, positive distance, mode
// ZScanCorrelation or ZScanIntensity.
func (m *MarkerAligner) SetZScan(count int, distance float64, mode string) error {
	if count < 1 {
		return fmt.Errorf("z sample count %d: must be at least 1", count)
	}
	if distance <= 0 {
		return fmt.Errorf("z sample distance %v: must be positive", distance)
	}
	if mode != ZScanCorrelation && mode != ZScanIntensity {
		return fmt.Errorf("z scan mode %q: must be %q or %q", mode, ZScanCorrelation, ZScanIntensity)
	}
	m.zScanSampleCount = count
	m.zScanSampleDistance = distance
	m.zScanSampleMode = mode
	return nil
}

// SetMeasureZ controls z measurement during matching.
func (m *MarkerAligner) SetMeasureZ(v bool) { m.measureZ = v }

// SetActionUponFailure selects what happens when matching fails.
func (m *MarkerAligner) SetActionUponFailure(v string) error {
	if err := validFailureAction(v); err != nil {
		return err
	}
	m.actionUponFailure = v
	return nil
}

// AddMarker appends a marker at position [x, y] with the given orientation
// in degrees.
func (m *MarkerAligner) AddMarker(label string, orientation float64, position []float64) error {
	if len(position) != 2 {
		return fmt.Errorf("marker %q: position must have two components", label)
	}
	m.anchors = append(m.anchors, Record{
		"label":    label,
		"position": slices.Clone(position),
		"rotation": orientation,
	})
	return nil
}

// SetMarkersAt appends one marker per label/orientation/position triple.
func (m *MarkerAligner) SetMarkersAt(labels []string, orientations []float64, positions [][]float64) error {
	if len(labels) != len(positions) || len(labels) != len(orientations) {
		return ErrAnchorMismatch
	}
	for i, l := range labels {
		if err := m.AddMarker(l, orientations[i], positions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MarkerAligner) Record() Record {
	rec := m.NodeBase.Record()
	rec["action_upon_failure"] = m.actionUponFailure
	rec["marker"] = Record{
		"image": m.image.ID(),
		"size":  slices.Clone(m.markerSize),
	}
	rec["center_stage"] = m.centerStage
	rec["laser_power"] = m.laserPower
	rec["scan_area_size"] = slices.Clone(m.scanAreaSize)
	rec["scan_area_res_factors"] = slices.Clone(m.scanAreaResFactors)
	rec["detection_margin"] = m.detectionMargin
	rec["correlation_threshold"] = m.correlationThreshold
	rec["residual_threshold"] = m.residualThreshold
	rec["max_outliers"] = m.maxOutliers
	rec["orthonormalize"] = m.orthonormalize
	rec["z_scan_sample_distance"] = m.zScanSampleDistance
	rec["z_scan_sample_count"] = m.zScanSampleCount
	rec["z_scan_optimization_mode"] = m.zScanSampleMode
	rec["measure_z"] = m.measureZ
	rec["alignment_anchors"] = cloneRecordSlice(m.anchors)
	return rec
}

func (m *MarkerAligner) clone() Node {
	dup := &MarkerAligner{
		image:                m.image,
		markerSize:           slices.Clone(m.markerSize),
		centerStage:          m.centerStage,
		actionUponFailure:    m.actionUponFailure,
		laserPower:           m.laserPower,
		scanAreaSize:         slices.Clone(m.scanAreaSize),
		scanAreaResFactors:   slices.Clone(m.scanAreaResFactors),
		detectionMargin:      m.detectionMargin,
		correlationThreshold: m.correlationThreshold,
		residualThreshold:    m.residualThreshold,
		maxOutliers:          m.maxOutliers,
		orthonormalize:       m.orthonormalize,
		zScanSampleCount:     m.zScanSampleCount,
		zScanSampleDistance:  m.zScanSampleDistance,
		zScanSampleMode:      m.zScanSampleMode,
		measureZ:             m.measureZ,
		anchors:              cloneRecordSlice(m.anchors),
	}
	m.cloneInto(&dup.NodeBase, dup)
	return dup
}

// EdgeAligner locates a substrate edge by scanning across it at labeled
// offsets.
type EdgeAligner struct {
	NodeBase

	edgeLocation        []float64
	edgeOrientation     float64
	centerStage         bool
	actionUponFailure   string
	laserPower          float64
	scanAreaResFactors  []float64
	scanZSampleDistance float64
	scanZSampleCount    int
	outlierThreshold    float64

	anchors []Record
}

// NewEdgeAligner builds an edge aligner at the local origin.
func NewEdgeAligner(name string) (*EdgeAligner, error) {
	e := &EdgeAligner{
		edgeLocation:        []float64{0, 0},
		centerStage:         true,
		actionUponFailure:   FailureAbort,
		laserPower:          0.5,
		scanAreaResFactors:  []float64{1, 1},
		scanZSampleDistance: 0.1,
		scanZSampleCount:    51,
		outlierThreshold:    10,
	}
	if err := e.init(KindEdgeAlignment, name, e, nil, nil); err != nil {
		return nil, err
	}
	return e, nil
}

// SetEdge places the edge at location [x, y] with the given orientation in
// degrees.
func (e *EdgeAligner) SetEdge(location []float64, orientation float64) error {
	if len(location) != 2 {
		return errors.New("edge location must have two components")
	}
	e.edgeLocation = slices.Clone(location)
	e.edgeOrientation = orientation
	return nil
}

// SetOutlierThreshold sets the outlier threshold in percent.
func (e *EdgeAligner) SetOutlierThreshold(v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("outlier threshold %v: must be within [0, 100]", v)
	}
	e.outlierThreshold = v
	return nil
}

// SetActionUponFailure selects what happens when alignment fails.
func (e *EdgeAligner) SetActionUponFailure(v string) error {
	if err := validFailureAction(v); err != nil {
		return err
	}
	e.actionUponFailure = v
	return nil
}

// AddMeasurement appends a scan at the given offset along the edge. The
// scan area width must be positive; the height may be zero for a line scan.
func (e *EdgeAligner) AddMeasurement(label string, offset float64, scanAreaSize []float64) error {
	if len(scanAreaSize) != 2 {
		return fmt.Errorf("measurement %q: scan area size must have two components", label)
	}
	if scanAreaSize[0] <= 0 {
		return fmt.Errorf("measurement %q: scan area width must be positive", label)
	}
	if scanAreaSize[1] < 0 {
		return fmt.Errorf("measurement %q: scan area height must not be negative", label)
	}
	e.anchors = append(e.anchors, Record{
		"label":          label,
		"offset":         offset,
		"scan_area_size": slices.Clone(scanAreaSize),
	})
	return nil
}

// SetMeasurementsAt appends one measurement per label/offset/size triple.
func (e *EdgeAligner) SetMeasurementsAt(labels []string, offsets []float64, scanAreaSizes [][]float64) error {
	if len(labels) != len(offsets) || len(labels) != len(scanAreaSizes) {
		return ErrAnchorMismatch
	}
	for i, l := range labels {
		if err := e.AddMeasurement(l, offsets[i], scanAreaSizes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *EdgeAligner) Record() Record {
	rec := e.NodeBase.Record()
	rec["properties"] = Record{
		"xy_position_local_cos":  slices.Clone(e.edgeLocation),
		"z_rotation_local_cos":   e.edgeOrientation,
		"center_stage":           e.centerStage,
		"action_upon_failure":    e.actionUponFailure,
		"laser_power":            e.laserPower,
		"scan_area_res_factors":  slices.Clone(e.scanAreaResFactors),
		"scan_z_sample_distance": e.scanZSampleDistance,
		"scan_z_sample_count":    e.scanZSampleCount,
		"outlier_threshold":      e.outlierThreshold,
	}
	rec["alignment_anchors"] = cloneRecordSlice(e.anchors)
	return rec
}

func (e *EdgeAligner) clone() Node {
	dup := &EdgeAligner{
		edgeLocation:        slices.Clone(e.edgeLocation),
		edgeOrientation:     e.edgeOrientation,
		centerStage:         e.centerStage,
		actionUponFailure:   e.actionUponFailure,
		laserPower:          e.laserPower,
		scanAreaResFactors:  slices.Clone(e.scanAreaResFactors),
		scanZSampleDistance: e.scanZSampleDistance,
		scanZSampleCount:    e.scanZSampleCount,
		outlierThreshold:    e.outlierThreshold,
		anchors:             cloneRecordSlice(e.anchors),
	}
	e.cloneInto(&dup.NodeBase, dup)
	return dup
}

// FiberAligner centers the optical axis on a fiber core.
type FiberAligner struct {
	NodeBase

	fiberRadius             float64
	centerStage             bool
	actionUponFailure       string
	illuminationName        string
	coreSignalLowerBound    float64
	coreSignalRange         []float64
	detectionMargin         float64
	detectLightDirection    bool
	zScanRange              []float64
	zScanRangeSampleCount   int
	zScanRangeScanCount     int
}

// NewFiberAligner builds a fiber aligner for a standard 127 um cladding
// fiber (63.5 um radius).
func NewFiberAligner(name string) (*FiberAligner, error) {
	f := &FiberAligner{
		fiberRadius:           63.5,
		centerStage:           true,
		actionUponFailure:     FailureAbort,
		illuminationName:      "process_led_1",
		coreSignalLowerBound:  0.05,
		coreSignalRange:       []float64{0.1, 0.9},
		detectionMargin:       6.35,
		zScanRange:            []float64{10, 100},
		zScanRangeSampleCount: 1,
		zScanRangeScanCount:   1,
	}
	if err := f.init(KindFiberCoreAlignment, name, f, nil, nil); err != nil {
		return nil, err
	}
	return f, nil
}

// SetFiberRadius sets the fiber radius in micrometers. Must be positive.
func (f *FiberAligner) SetFiberRadius(v float64) error {
	if v <= 0 {
		return fmt.Errorf("fiber radius %v: must be positive", v)
	}
	f.fiberRadius = v
	return nil
}

// SetActionUponFailure selects what happens when alignment fails.
func (f *FiberAligner) SetActionUponFailure(v string) error {
	if err := validFailureAction(v); err != nil {
		return err
	}
	f.actionUponFailure = v
	return nil
}

// SetCoreSignal sets the core detection thresholds: the lower bound and the
// accepted [min, max] signal range.
func (f *FiberAligner) SetCoreSignal(lower float64, signalRange []float64) error {
	if len(signalRange) != 2 {
		return errors.New("core signal range must have two components")
	}
	f.coreSignalLowerBound = lower
	f.coreSignalRange = slices.Clone(signalRange)
	return nil
}

// MeasureTilt enables light direction detection, scanning z over
// [min, max] with the given sample and scan counts.
func (f *FiberAligner) MeasureTilt(zRange []float64, sampleCount, scanCount int) error {
	if len(zRange) != 2 || zRange[1] <= zRange[0] || zRange[1] <= 0 {
		return fmt.Errorf("z scan range %v: must be an increasing positive pair", zRange)
	}
	if sampleCount <= 0 || scanCount <= 0 {
		return fmt.Errorf("z scan counts %d/%d: must be positive", sampleCount, scanCount)
	}
	f.detectLightDirection = true
	f.zScanRange = slices.Clone(zRange)
	f.zScanRangeSampleCount = sampleCount
	f.zScanRangeScanCount = scanCount
	return nil
}

func (f *FiberAligner) Record() Record {
	rec := f.NodeBase.Record()
	rec["fiber_radius"] = f.fiberRadius
	rec["center_stage"] = f.centerStage
	rec["action_upon_failure"] = f.actionUponFailure
	rec["illumination_name"] = f.illuminationName
	rec["core_signal_lower_threshold"] = f.coreSignalLowerBound
	rec["core_signal_range"] = slices.Clone(f.coreSignalRange)
	rec["core_position_offset_tolerance"] = f.detectionMargin
	rec["detect_light_direction"] = f.detectLightDirection
	rec["z_scan_range"] = slices.Clone(f.zScanRange)
	rec["z_scan_range_sample_count"] = f.zScanRangeSampleCount
	rec["z_scan_range_scan_count"] = f.zScanRangeScanCount
	return rec
}

func (f *FiberAligner) clone() Node {
	dup := &FiberAligner{
		fiberRadius:           f.fiberRadius,
		centerStage:           f.centerStage,
		actionUponFailure:     f.actionUponFailure,
		illuminationName:      f.illuminationName,
		coreSignalLowerBound:  f.coreSignalLowerBound,
		coreSignalRange:       slices.Clone(f.coreSignalRange),
		detectionMargin:       f.detectionMargin,
		detectLightDirection:  f.detectLightDirection,
		zScanRange:            slices.Clone(f.zScanRange),
		zScanRangeSampleCount: f.zScanRangeSampleCount,
		zScanRangeScanCount:   f.zScanRangeScanCount,
	}
	f.cloneInto(&dup.NodeBase, dup)
	return dup
}

// cloneRecordSlice deep-copies a slice of anchor records.
func cloneRecordSlice(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = cloneRecord(r)
	}
	return out
}
