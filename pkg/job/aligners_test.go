package job

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fbeier/nanoprint/pkg/resource"
)

func testImage(t *testing.T) *resource.Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marker.png")
	if err := os.WriteFile(path, []byte("not a real png"), 0644); err != nil {
		t.Fatal(err)
	}
	img, err := resource.NewImage("marker", path)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func TestCoarseAlignerAnchors(t *testing.T) {
	c, err := NewCoarseAligner("coarse")
	if err != nil {
		t.Fatal(err)
	}

	if err := c.AddAnchor("a0", []float64{1, 2}); !errors.Is(err, ErrBadVector) {
		t.Errorf("AddAnchor(short) error = %v, want %v", err, ErrBadVector)
	}
	if err := c.SetAnchorsAt([]string{"a0", "a1"}, [][]float64{{0, 0, 0}}); !errors.Is(err, ErrAnchorMismatch) {
		t.Errorf("SetAnchorsAt(mismatch) error = %v, want %v", err, ErrAnchorMismatch)
	}

	if err := c.SetAnchorsAt(
		[]string{"a0", "a1"},
		[][]float64{{0, 0, 0}, {100, 0, 0}},
	); err != nil {
		t.Fatalf("SetAnchorsAt failed: %v", err)
	}
	if len(c.Anchors()) != 2 {
		t.Fatalf("Anchors() = %d, want 2", len(c.Anchors()))
	}

	rec := c.Record()
	anchors, ok := rec["alignment_anchors"].([]Record)
	if !ok || len(anchors) != 2 {
		t.Fatalf("record alignment_anchors = %v", rec["alignment_anchors"])
	}
	if anchors[1]["label"] != "a1" {
		t.Errorf("anchor label = %v, want a1", anchors[1]["label"])
	}
	if rec["residual_threshold"] != 10.0 {
		t.Errorf("residual_threshold = %v, want 10", rec["residual_threshold"])
	}
}

func TestInterfaceAlignerPatternSwitching(t *testing.T) {
	ia, err := NewInterfaceAligner("interface")
	if err != nil {
		t.Fatal(err)
	}
	if got := ia.Pattern(); got != PatternOrigin {
		t.Fatalf("Pattern() = %q, want %q", got, PatternOrigin)
	}

	if err := ia.SetGrid([]int{3, 3}, []float64{100, 100}); err != nil {
		t.Fatalf("SetGrid failed: %v", err)
	}
	if got := ia.Pattern(); got != PatternGrid {
		t.Errorf("Pattern() after SetGrid = %q, want %q", got, PatternGrid)
	}

	if err := ia.AddAnchor("a0", []float64{5, 5}, nil); err != nil {
		t.Fatalf("AddAnchor failed: %v", err)
	}
	if got := ia.Pattern(); got != PatternCustom {
		t.Errorf("Pattern() after AddAnchor = %q, want %q", got, PatternCustom)
	}

	rec := ia.Record()
	props, ok := rec["properties"].(Record)
	if !ok {
		t.Fatalf("record properties = %T, want Record", rec["properties"])
	}
	if props["signal_type"] != SignalAuto || props["detector_type"] != DetectorAuto {
		t.Errorf("properties = %v, want auto signal and detector", props)
	}
	anchors := rec["alignment_anchors"].([]Record)
	size, ok := anchors[0]["scan_area_size"].([]float64)
	if !ok || size[0] != 10 || size[1] != 10 {
		t.Errorf("default scan area = %v, want [10 10]", anchors[0]["scan_area_size"])
	}
}

func TestInterfaceAlignerValidation(t *testing.T) {
	ia, err := NewInterfaceAligner("interface")
	if err != nil {
		t.Fatal(err)
	}
	if err := ia.SetSignalType("loud"); err == nil {
		t.Error("SetSignalType accepted an unknown signal")
	}
	if err := ia.SetDetectorType("sonar"); err == nil {
		t.Error("SetDetectorType accepted an unknown detector")
	}
	if err := ia.SetActionUponFailure("retry"); err == nil {
		t.Error("SetActionUponFailure accepted an unknown action")
	}
	if err := ia.SetZScan(0.1, 0); err == nil {
		t.Error("SetZScan accepted a zero sample count")
	}
	if err := ia.AddAnchor("a", []float64{1, 2, 3}, nil); err == nil {
		t.Error("AddAnchor accepted a 3D position")
	}
}

func TestMarkerAlignerConstruction(t *testing.T) {
	img := testImage(t)

	if _, err := NewMarkerAligner("m", nil, []float64{5, 5}); err == nil {
		t.Error("NewMarkerAligner accepted a nil image")
	}
	if _, err := NewMarkerAligner("m", img, []float64{5}); err == nil {
		t.Error("NewMarkerAligner accepted a single extent")
	}
	if _, err := NewMarkerAligner("m", img, []float64{5, 0}); err == nil {
		t.Error("NewMarkerAligner accepted a zero extent")
	}

	m, err := NewMarkerAligner("m", img, []float64{5, 5})
	if err != nil {
		t.Fatalf("NewMarkerAligner failed: %v", err)
	}
	if err := m.AddMarker("m0", 90, []float64{0, 10}); err != nil {
		t.Fatalf("AddMarker failed: %v", err)
	}

	rec := m.Record()
	marker, ok := rec["marker"].(Record)
	if !ok || marker["image"] != img.ID() {
		t.Errorf("record marker = %v, want image %s", rec["marker"], img.ID())
	}
	if rec["z_scan_optimization_mode"] != ZScanCorrelation {
		t.Errorf("z_scan_optimization_mode = %v, want %q", rec["z_scan_optimization_mode"], ZScanCorrelation)
	}
	anchors := rec["alignment_anchors"].([]Record)
	if anchors[0]["rotation"] != 90.0 {
		t.Errorf("marker rotation = %v, want 90", anchors[0]["rotation"])
	}
}

func TestMarkerAlignerValidation(t *testing.T) {
	m, err := NewMarkerAligner("m", testImage(t), []float64{5, 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetCorrelationThreshold(101); err == nil {
		t.Error("SetCorrelationThreshold accepted 101")
	}
	if err := m.SetMaxOutliers(-1); err == nil {
		t.Error("SetMaxOutliers accepted -1")
	}
	if err := m.SetZScan(3, 0.5, "guesswork"); err == nil {
		t.Error("SetZScan accepted an unknown mode")
	}
	if err := m.SetZScan(3, 0.5, ZScanIntensity); err != nil {
		t.Errorf("SetZScan failed: %v", err)
	}
}

func TestEdgeAlignerRecordNestsProperties(t *testing.T) {
	e, err := NewEdgeAligner("edge")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetEdge([]float64{50, -50}, 45); err != nil {
		t.Fatal(err)
	}
	if err := e.AddMeasurement("m0", 10, []float64{20, 0}); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}
	if err := e.AddMeasurement("m1", 10, []float64{0, 20}); err == nil {
		t.Error("AddMeasurement accepted a zero width")
	}

	rec := e.Record()
	props, ok := rec["properties"].(Record)
	if !ok {
		t.Fatalf("record properties = %T, want Record", rec["properties"])
	}
	if props["z_rotation_local_cos"] != 45.0 {
		t.Errorf("z_rotation_local_cos = %v, want 45", props["z_rotation_local_cos"])
	}
	loc := props["xy_position_local_cos"].([]float64)
	if loc[0] != 50 || loc[1] != -50 {
		t.Errorf("xy_position_local_cos = %v, want [50 -50]", loc)
	}
	if _, ok := rec["alignment_anchors"].([]Record); !ok {
		t.Errorf("alignment_anchors = %T, want []Record", rec["alignment_anchors"])
	}
}

func TestFiberAlignerMeasureTilt(t *testing.T) {
	f, err := NewFiberAligner("fiber")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.MeasureTilt([]float64{100, 10}, 1, 1); err == nil {
		t.Error("MeasureTilt accepted a decreasing range")
	}
	if err := f.MeasureTilt([]float64{10, 100}, 0, 1); err == nil {
		t.Error("MeasureTilt accepted a zero sample count")
	}
	if err := f.MeasureTilt([]float64{10, 100}, 3, 2); err != nil {
		t.Fatalf("MeasureTilt failed: %v", err)
	}

	rec := f.Record()
	if rec["detect_light_direction"] != true {
		t.Error("detect_light_direction not set after MeasureTilt")
	}
	if rec["z_scan_range_sample_count"] != 3 {
		t.Errorf("z_scan_range_sample_count = %v, want 3", rec["z_scan_range_sample_count"])
	}
	if rec["core_position_offset_tolerance"] != 6.35 {
		t.Errorf("core_position_offset_tolerance = %v, want 6.35", rec["core_position_offset_tolerance"])
	}
}
