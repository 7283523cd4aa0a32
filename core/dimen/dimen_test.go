package dimen

import "testing"

func TestPoints(t *testing.T) {
	if BP.Points() != 1.0 {
		t.Errorf("expected 1bp to be 1 PDF point, is %f", BP.Points())
	}
}

func TestMinMax(t *testing.T) {
	if Min(PT, BP) != PT {
		t.Errorf("expected min(pt, bp) = pt")
	}
	if Max(PT, BP) != BP {
		t.Errorf("expected max(pt, bp) = bp")
	}
}
