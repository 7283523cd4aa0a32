package monospace

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pierrejoye/libraqm/core/dimen"
	"github.com/pierrejoye/libraqm/engine/glyphing"
)

func TestMonospaceShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.glyphs")
	defer teardown()
	//
	sh := Shaper(10*dimen.PT, nil)
	text := []rune("hello")
	seq, err := sh.Shape(text, 0, len(text), nil, glyphing.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Glyphs) != 5 {
		t.Fatalf("expected 5 glyphs, have %d", len(seq.Glyphs))
	}
	for i, g := range seq.Glyphs {
		if g.ClusterID != i {
			t.Errorf("expected cluster %d, is %d", i, g.ClusterID)
		}
		if g.XAdvance != 10*dimen.PT {
			t.Errorf("expected advance of 1em for glyph %d", i)
		}
	}
}

func TestMonospaceShapeWindow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.glyphs")
	defer teardown()
	//
	sh := Shaper(0, nil)
	text := []rune("hello world")
	seq, err := sh.Shape(text, 6, 5, nil, glyphing.Params{})
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Glyphs) != 5 {
		t.Fatalf("expected 5 glyphs, have %d", len(seq.Glyphs))
	}
	if seq.Glyphs[0].ClusterID != 6 {
		t.Errorf("expected first cluster to be 6, is %d", seq.Glyphs[0].ClusterID)
	}
}

func TestMonospaceBackward(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.glyphs")
	defer teardown()
	//
	sh := Shaper(0, nil)
	text := []rune{0x0627, 0x0644, 0x0639} // Arabic letters
	seq, err := sh.Shape(text, 0, len(text), nil, glyphing.Params{
		Direction: glyphing.RightToLeft,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, have %d", len(seq.Glyphs))
	}
	for i, g := range seq.Glyphs {
		if g.ClusterID != len(text)-1-i {
			t.Errorf("expected clusters in descending order, glyph %d has cluster %d",
				i, g.ClusterID)
		}
	}
}

func TestMonospaceParseFeature(t *testing.T) {
	sh := Shaper(0, nil)
	feat, err := sh.ParseFeature("-liga")
	if err != nil {
		t.Fatal(err)
	}
	if feat.On {
		t.Errorf("expected feature '-liga' to be switched off")
	}
	if _, err := sh.ParseFeature("no-such-feature"); err == nil {
		t.Errorf("expected overlong feature tag to be rejected")
	}
}
