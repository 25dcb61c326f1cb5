package job

import (
	"errors"
	"testing"
)

func TestDoseCompensation(t *testing.T) {
	d, err := NewDoseCompensation("dose")
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetEdge([]float64{1, 2}, 0); !errors.Is(err, ErrBadVector) {
		t.Errorf("SetEdge(short) error = %v, want %v", err, ErrBadVector)
	}
	if err := d.SetDomainSize([]float64{100, 0, 100}); err == nil {
		t.Error("SetDomainSize accepted a zero extent")
	}
	if err := d.SetGainLimit(0.5); err == nil {
		t.Error("SetGainLimit accepted a value below 1")
	}

	rec := d.Record()
	if rec["gain_limit"] != 2.0 {
		t.Errorf("gain_limit = %v, want 2", rec["gain_limit"])
	}
	size := rec["size"].([]float64)
	if size[0] != 200 || size[1] != 100 || size[2] != 100 {
		t.Errorf("size = %v, want [200 100 100]", size)
	}
}

func TestCaptureConfocal(t *testing.T) {
	c, err := NewCapture("snap")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.CaptureType(); got != CaptureCamera {
		t.Fatalf("CaptureType() = %q, want %q", got, CaptureCamera)
	}

	if err := c.Confocal(0.5, []float64{50, 50}, []float64{0, 1}); err == nil {
		t.Error("Confocal accepted a zero resolution factor")
	}
	if err := c.Confocal(0.5, []float64{50, 50}, []float64{1, 1}); err != nil {
		t.Fatalf("Confocal failed: %v", err)
	}

	rec := c.Record()
	if rec["capture_type"] != CaptureConfocal {
		t.Errorf("capture_type = %v, want %q", rec["capture_type"], CaptureConfocal)
	}
}

func TestStageMove(t *testing.T) {
	if _, err := NewStageMove("move", []float64{1, 2}); !errors.Is(err, ErrBadVector) {
		t.Errorf("NewStageMove(short) error = %v, want %v", err, ErrBadVector)
	}
	s, err := NewStageMove("move", []float64{100, 200, 0})
	if err != nil {
		t.Fatal(err)
	}
	target := s.Record()["target_position"].([]float64)
	if target[0] != 100 || target[1] != 200 || target[2] != 0 {
		t.Errorf("target_position = %v, want [100 200 0]", target)
	}
}

func TestWait(t *testing.T) {
	if _, err := NewWait("pause", 0); err == nil {
		t.Error("NewWait accepted a zero duration")
	}
	w, err := NewWait("pause", 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Record()["wait_time"]; got != 2.5 {
		t.Errorf("wait_time = %v, want 2.5", got)
	}
}
