package paragraph

import (
	"unicode/utf8"

	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/pierrejoye/libraqm/core"
	"github.com/pierrejoye/libraqm/core/font"
	"github.com/pierrejoye/libraqm/engine/glyphing"
	"github.com/pierrejoye/libraqm/engine/glyphing/harfbuzz"
	"golang.org/x/text/language"
)

// Direction is the base direction of a paragraph.
type Direction int

// Base directions of a paragraph.
//
// DirDefault determines the paragraph direction from the first character
// with a strong bidi type (see rule P2 of the Unicode Bidirectional
// Algorithm), falling back to left-to-right when the text contains no
// strong character at all.
//
// DirTTB is for vertical, top-to-bottom text. Vertical support is limited:
// rotated horizontal segments are not handled, instead everything is
// treated as vertical text.
const (
	DirDefault Direction = iota
	DirLTR
	DirRTL
	DirTTB
)

func (d Direction) String() string {
	switch d {
	case DirDefault:
		return "Default"
	case DirLTR:
		return "LTR"
	case DirRTL:
		return "RTL"
	case DirTTB:
		return "TTB"
	}
	return "Default"
}

// Run is a maximal piece of text which can be shaped in one go: its
// code-points share a single script, a single direction and a single font.
type Run struct {
	Pos       int                // position of first code-point of the run
	Len       int                // number of code-points
	Direction glyphing.Direction // resolved direction of the run
	Script    hblang.Script      // resolved script of the run

	font   *font.TypeCase
	glyphs []glyphing.ShapedGlyph
}

// Paragraph is a layout session for a single paragraph of text.
//
// A Paragraph is not safe for concurrent use; two distinct Paragraphs may be
// laid out in parallel.
type Paragraph struct {
	text     []rune
	baseDir  Direction
	language language.Tag
	features []glyphing.FeatureRange
	font     *font.TypeCase
	shaper   glyphing.Shaper

	// derived state, rebuilt by Layout
	scripts []hblang.Script
	runs    []*Run
	glyphs  []glyphing.ShapedGlyph
}

// Option configures a Paragraph at creation time.
type Option func(*Paragraph)

// WithShaper binds a text shaper other than the default HarfBuzz shaper.
func WithShaper(sh glyphing.Shaper) Option {
	return func(p *Paragraph) {
		if sh != nil {
			p.shaper = sh
		}
	}
}

// WithLanguage presets the language passed to the shaper; see SetLanguage.
func WithLanguage(tag language.Tag) Option {
	return func(p *Paragraph) {
		p.language = tag
	}
}

// New creates a Paragraph with all its internal states initialized to their
// defaults: no text, default base direction, the HarfBuzz shaper, and the
// host default language.
func New(opts ...Option) *Paragraph {
	p := &Paragraph{
		baseDir: DirDefault,
		shaper:  harfbuzz.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetText sets the UTF-32 encoded text of the paragraph. Invalid code-points
// (surrogates and out-of-range values) are replaced with U+FFFD. Derived
// state of a previous layout is discarded.
func (p *Paragraph) SetText(text []rune) {
	if p == nil {
		return
	}
	p.text = make([]rune, len(text))
	for i, ch := range text {
		if !utf8.ValidRune(ch) {
			ch = utf8.RuneError
		}
		p.text[i] = ch
	}
	p.clearLayout()
}

// SetString sets the text of the paragraph from a UTF-8 encoded string.
// Invalid byte sequences are replaced with U+FFFD.
func (p *Paragraph) SetString(s string) {
	if p == nil {
		return
	}
	p.text = []rune(s)
	p.clearLayout()
}

func (p *Paragraph) clearLayout() {
	p.scripts = nil
	p.runs = nil
	p.glyphs = nil
}

// SetBaseDirection sets the base paragraph direction, also known as block
// direction in CSS. For horizontal text, this controls the overall direction
// in the Unicode Bidirectional Algorithm: when the text is mainly
// right-to-left (with or without some left-to-right), the base direction
// should be set to DirRTL, and vice versa.
func (p *Paragraph) SetBaseDirection(dir Direction) {
	if p == nil {
		return
	}
	p.baseDir = dir
}

// SetLanguage sets the language passed to the shaper. The default is the
// host language.
func (p *Paragraph) SetLanguage(tag language.Tag) {
	if p == nil {
		return
	}
	p.language = tag
}

// AddFeature adds a font feature to be used during text layout. This is
// usually used to turn on optional font features that are not enabled by
// default, for example "dlig" or "ss01", but can be also used to turn off
// default font features.
//
// feature is a string representing a single font feature, in the syntax
// understood by the bound shaper (see glyphing.Shaper.ParseFeature).
//
// This function can be called repeatedly; new features will be appended to
// the end of the features list and can potentially override previous
// features. If the feature string cannot be parsed, an error is returned
// and the feature list is left unchanged.
func (p *Paragraph) AddFeature(feature string) error {
	if p == nil {
		return core.Error(core.EINVALID, "no paragraph to add feature to")
	}
	feat, err := p.shaper.ParseFeature(feature)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot parse font feature %q", feature)
	}
	p.features = append(p.features, feat)
	return nil
}

// SetFont sets the typecase to be used for length code-points starting at
// start. Only a single font per paragraph is supported: the last call wins
// for the whole paragraph, so only the start bound is checked. A start
// position beyond the text is a no-op.
//
// SetText must have been called before.
func (p *Paragraph) SetFont(typecase *font.TypeCase, start, length int) {
	if p == nil || typecase == nil || len(p.text) == 0 || start < 0 || start >= len(p.text) {
		return
	}
	p.font = typecase
}

// Layout runs the text layout process: the Unicode Bidirectional Algorithm
// is applied to the text, scripts are resolved, the text is split into
// shaping-ready runs, and the runs are shaped.
//
// Layout is idempotent with respect to its inputs. Re-invoking it after
// mutations rebuilds all derived state, discarding prior runs and glyphs.
func (p *Paragraph) Layout() error {
	if p == nil || len(p.text) == 0 {
		return core.Error(core.EINVALID, "no text to lay out")
	}
	p.clearLayout()
	p.resolveScripts()
	if err := p.itemize(); err != nil {
		return err
	}
	if err := p.shapeRuns(); err != nil {
		return err
	}
	p.collectGlyphs()
	return nil
}

// Glyphs returns the final result of the layout process, an array of glyphs
// containing the glyph indices in the font, their positions and other
// possible information. Cluster positions of the glyphs are indices into
// the code-point text.
//
// The returned slice is owned by the Paragraph and valid until the next
// call to Layout or SetText.
func (p *Paragraph) Glyphs() []glyphing.ShapedGlyph {
	if p == nil {
		return nil
	}
	return p.glyphs
}

// Runs returns descriptors of the shaping-ready runs of the paragraph, in
// visual order. Runs is only meaningful after a successful Layout.
func (p *Paragraph) Runs() []Run {
	if p == nil {
		return nil
	}
	runs := make([]Run, len(p.runs))
	for i, r := range p.runs {
		runs[i] = *r
		runs[i].glyphs = nil
	}
	return runs
}
