package harfbuzz_test

import (
	"testing"

	hb "github.com/benoitkugler/textlayout/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pierrejoye/libraqm/core/font"
	"github.com/pierrejoye/libraqm/engine/glyphing"
	"github.com/pierrejoye/libraqm/engine/glyphing/harfbuzz"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestHBDir(t *testing.T) {
	var d glyphing.Direction = glyphing.TopToBottom
	dir := harfbuzz.Direction4HB(d)
	if dir != hb.TopToBottom {
		t.Errorf("expected dir to be %d, is %d", hb.TopToBottom, dir)
	}
}

func TestHBParseFeature(t *testing.T) {
	sh := harfbuzz.New()
	feat, err := sh.ParseFeature("dlig")
	if err != nil {
		t.Fatal(err)
	}
	if !feat.On {
		t.Errorf("expected feature 'dlig' to be switched on")
	}
	if feat.Feature != glyphing.NewTag("dlig") {
		t.Errorf("expected feature tag 'dlig', is %s", feat.Feature)
	}
	feat, err = sh.ParseFeature("-liga")
	if err != nil {
		t.Fatal(err)
	}
	if feat.On {
		t.Errorf("expected feature '-liga' to be switched off")
	}
	if _, err = sh.ParseFeature(""); err == nil {
		t.Errorf("expected empty feature string to be a parse error")
	}
}

func TestHBShape(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.glyphs")
	defer teardown()
	//
	input := []rune("Hello")
	typecase := loadGoFont(t)
	params := glyphing.Params{
		Font:      typecase,
		Direction: glyphing.LeftToRight,
	}
	sh := harfbuzz.New()
	seq, err := sh.Shape(input, 0, len(input), nil, params)
	if err != nil {
		t.Error(err)
	}
	if seq.Glyphs == nil {
		t.Error("expected shaping output to be non-nil")
	}
	if len(seq.Glyphs) != len(input) {
		t.Errorf("expected %d output glyphs, have %d", len(input), len(seq.Glyphs))
	}
	for i, g := range seq.Glyphs {
		if g.ClusterID != i {
			t.Errorf("expected glyph %d to have cluster %d, has %d", i, i, g.ClusterID)
		}
	}
}

func TestHBShapeWindow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.glyphs")
	defer teardown()
	//
	input := []rune("Hello, world")
	typecase := loadGoFont(t)
	params := glyphing.Params{
		Font:      typecase,
		Direction: glyphing.LeftToRight,
	}
	sh := harfbuzz.New()
	seq, err := sh.Shape(input, 7, 5, nil, params) // shape "world" with context
	if err != nil {
		t.Error(err)
	}
	if len(seq.Glyphs) != 5 {
		t.Fatalf("expected 5 output glyphs, have %d", len(seq.Glyphs))
	}
	if seq.Glyphs[0].ClusterID != 7 {
		t.Errorf("expected first cluster to be 7, is %d", seq.Glyphs[0].ClusterID)
	}
}

// ---------------------------------------------------------------------------

func loadGoFont(t *testing.T) *font.TypeCase {
	gofont := &font.ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	var err error
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		t.Fatal("cannot load Go font") // this cannot happen
	}
	typecase, err := gofont.PrepareCase(12.0)
	if err != nil {
		t.Fatal(err)
	}
	return typecase
}
