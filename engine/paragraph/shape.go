package paragraph

import (
	"unicode/utf8"

	"github.com/pierrejoye/libraqm/core/font"
	"github.com/pierrejoye/libraqm/engine/glyphing"
)

// shapeRuns drives the shaper over the shaping-ready runs, in list order.
// The shaper receives the whole paragraph text with the run as a window, so
// that it sees context on both sides for cursive joining and mark
// positioning.
//
// Shaper-internal errors are not fatal for the layout process; the affected
// run ends up with an empty glyph sequence.
func (p *Paragraph) shapeRuns() error {
	for _, run := range p.runs {
		params := glyphing.Params{
			Font:      run.font,
			Direction: run.Direction,
			Script:    run.Script,
			Language:  p.language,
			Features:  p.features,
		}
		seq, err := p.shaper.Shape(p.text, run.Pos, run.Len, run.glyphs, params)
		if err != nil {
			tracer().Errorf("shaper failed on run [%d,%d): %v", run.Pos, run.Pos+run.Len, err)
			run.glyphs = nil
			continue
		}
		run.glyphs = seq.Glyphs
	}
	return nil
}

// collectGlyphs concatenates the per-run glyph sequences into the
// paragraph's glyph array. Since runs are kept in visual order, so is the
// resulting glyph array.
func (p *Paragraph) collectGlyphs() {
	total := 0
	for _, run := range p.runs {
		total += len(run.glyphs)
	}
	glyphs := make([]glyphing.ShapedGlyph, 0, total)
	for _, run := range p.runs {
		glyphs = append(glyphs, run.glyphs...)
	}
	p.glyphs = glyphs
}

// --- One-shot shaping ------------------------------------------------------

// ShapeRunes takes a UTF-32 input text and does the reordering and shaping
// in one go, using a transient Paragraph. The returned glyphs are owned by
// the caller; cluster positions are indices into text.
func ShapeRunes(text []rune, typecase *font.TypeCase, dir Direction,
	features []string, opts ...Option) ([]glyphing.ShapedGlyph, error) {
	//
	p := New(opts...)
	p.SetText(text)
	p.SetBaseDirection(dir)
	p.SetFont(typecase, 0, len(text))
	for _, feature := range features {
		if err := p.AddFeature(feature); err != nil {
			return nil, err
		}
	}
	if err := p.Layout(); err != nil {
		return nil, err
	}
	glyphs := make([]glyphing.ShapedGlyph, len(p.Glyphs()))
	copy(glyphs, p.Glyphs())
	return glyphs, nil
}

// ShapeString takes a UTF-8 input text and does the reordering and shaping
// in one go. Cluster positions of the returned glyphs are byte offsets into
// s, not code-point indices.
func ShapeString(s string, typecase *font.TypeCase, dir Direction,
	features []string, opts ...Option) ([]glyphing.ShapedGlyph, error) {
	//
	text := []rune(s)
	glyphs, err := ShapeRunes(text, typecase, dir, features, opts...)
	if err != nil {
		return nil, err
	}
	for i := range glyphs {
		glyphs[i].ClusterID = utf8Index(text, glyphs[i].ClusterID)
	}
	return glyphs, nil
}

// utf8Index converts a code-point index into the corresponding byte offset,
// by measuring the UTF-8 length of the code-points before it.
func utf8Index(text []rune, index int) int {
	size := 0
	for _, ch := range text[:index] {
		size += utf8.RuneLen(ch)
	}
	return size
}
