/*
Package harfbuzz implements the shaping capability on top of the HarfBuzz
text shaping algorithms.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package harfbuzz

import (
	"bytes"
	"sync"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pierrejoye/libraqm/core/dimen"
	"github.com/pierrejoye/libraqm/core/font"
	"github.com/pierrejoye/libraqm/engine/glyphing"
	"golang.org/x/text/language"
)

// https://harfbuzz.github.io/shaping-and-shape-plans.html

// tracer traces with key 'raqm.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("raqm.glyphs")
}

// Shaper shapes text with HarfBuzz. The zero value is not usable; create
// instances with New.
//
// A Shaper caches HarfBuzz font structures per typecase. HarfBuzz uses its
// own font structure, different from ours; unfortunately this duplicates the
// binary data of the font.
type Shaper struct {
	mu        sync.Mutex
	fontCache map[*font.TypeCase]*hb.Font
}

// New creates a HarfBuzz shaper, fully initialized.
func New() *Shaper {
	return &Shaper{
		fontCache: make(map[*font.TypeCase]*hb.Font),
	}
}

var _ glyphing.Shaper = &Shaper{}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB converts a feature range struct to a HarfBuzz feature switch.
func Feature4HB(frng glyphing.FeatureRange) hb.Feature {
	f := hb.Feature{
		Tag:   hbtt.Tag(frng.Feature),
		Start: frng.Start,
		End:   frng.End,
	}
	if frng.On {
		if frng.Arg > 0 {
			f.Value = uint32(frng.Arg)
		} else {
			f.Value = 1
		}
	}
	return f
}

// ParseFeature is part of interface glyphing.Shaper.
//
// The feature string is parsed with HarfBuzz's textual feature grammar, e.g.
// "dlig", "+dlig", "-liga", "ss01=2" or "kern[3:5]".
func (sh *Shaper) ParseFeature(feature string) (glyphing.FeatureRange, error) {
	f, err := hb.ParseFeature(feature)
	if err != nil {
		return glyphing.FeatureRange{}, err
	}
	return glyphing.FeatureRange{
		Feature: glyphing.Tag(f.Tag),
		Arg:     int(f.Value),
		On:      f.Value > 0,
		Start:   f.Start,
		End:     f.End,
	}, nil
}

// hbFont returns a HarfBuzz font structure for a typecase, creating and
// caching it if necessary.
func (sh *Shaper) hbFont(typecase *font.TypeCase) (*hb.Font, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if f, ok := sh.fontCache[typecase]; ok {
		return f, nil
	}
	r := bytes.NewReader(typecase.ScalableFontParent().Binary)
	face, err := hbtt.Parse(r, true)
	if err != nil {
		return nil, err
	}
	f := hb.NewFont(face)
	f.Ptem = float32(typecase.PtSize())
	sh.fontCache[typecase] = f
	return f, nil
}

// --- Shape -----------------------------------------------------------------

// Shape is part of interface glyphing.Shaper.
//
// This is where all the heavy lifting is done. We input a font and a window
// into a string of Unicode code-points, and receive a list of glyphs. The
// code-points around the window are passed to HarfBuzz as context, which is
// required for cursive joining and mark positioning across run boundaries.
//
// Clients may provide `buf` to avoid allocating memory by Shape. Shape will
// wrap it into the GlyphSequence returned.
func (sh *Shaper) Shape(text []rune, pos, length int, buf []glyphing.ShapedGlyph,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if len(text) == 0 || length <= 0 || params.Font == nil {
		return glyphing.GlyphSequence{}, nil
	}
	hbFont, err := sh.hbFont(params.Font)
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	props := hb.SegmentProperties{
		Direction: Direction4HB(params.Direction),
		Script:    params.Script,
	}
	if params.Language != language.Und {
		props.Language = Lang4HB(params.Language)
	} else {
		props.Language = hblang.DefaultLanguage()
	}
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, Feature4HB(feat))
	}
	hbBuf := hb.NewBuffer()
	hbBuf.Props = props
	hbBuf.AddRunes(text, pos, length)
	hbBuf.Shape(hbFont, features)
	// move HarfBuzz output to glyph sequence output
	if buf == nil || cap(buf) < len(hbBuf.Info) {
		buf = make([]glyphing.ShapedGlyph, len(hbBuf.Info))
	} else {
		buf = buf[:len(hbBuf.Info)]
	}
	seq := glyphing.GlyphSequence{
		Glyphs: buf,
	}
	for i, ginfo := range hbBuf.Info {
		gpos := &hbBuf.Pos[i]
		g := &buf[i]
		g.ClusterID = ginfo.Cluster
		g.GID = ginfo.Glyph
		g.XAdvance = dimen.DU(gpos.XAdvance)
		g.YAdvance = dimen.DU(gpos.YAdvance)
		g.XOffset = dimen.DU(gpos.XOffset)
		g.YOffset = dimen.DU(gpos.YOffset)
		g.CodePoint = text[g.ClusterID]
		seq.W += g.XAdvance
		tracer().Debugf("[%3d] %v", i, g)
	}
	return seq, nil
}
