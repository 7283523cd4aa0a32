package glyphing

import (
	"fmt"

	"github.com/benoitkugler/textlayout/fonts"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/pierrejoye/libraqm/core/dimen"
	"github.com/pierrejoye/libraqm/core/font"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	case BottomToTop:
		return "BottomToTop"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsBackward returns true if glyphs progress against the reading order of
// the memory representation, i.e. right-to-left or bottom-to-top.
func (d Direction) IsBackward() bool {
	return d == RightToLeft || d == BottomToTop
}

// A ShapedGlyph lives in design space (result from the shaper, which lives in
// design space as well, at least its interface).
type ShapedGlyph struct {
	ClusterID int           // position of code-point(s) for this glyph in the original text
	XAdvance  dimen.DU      // advance after glyph has been set, in design units
	YAdvance  dimen.DU      //
	XOffset   dimen.DU      // position of anchor dot for glyph, in design units
	YOffset   dimen.DU      //
	GID       fonts.GID     // glyph index within font
	CodePoint rune          // code-point of first rune to produce this glyph
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%s)", g.GID, g.ClusterID, g.XAdvance)
}

// Tag is a 4-byte OpenType tag, e.g. for layout features.
type Tag uint32

// NewTag creates a tag from a string, padding it with blanks to 4 bytes if
// necessary. Longer strings are truncated.
func NewTag(s string) Tag {
	b := []byte(s + "    ")[:4]
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// A Shaper creates a sequence of glyphs from a sequence of Unicode
// code-points. Glyphs are taken from a font, given in a specific point-size.
//
// Shape receives the full paragraph text plus a window [pos, pos+length) to
// produce glyphs for. The text outside the window is context: scripts with
// contextual joining (e.g. Arabic) need to see the neighbouring code-points
// to select correct glyph forms.
//
// ParseFeature parses a textual description of an OpenType feature setting.
// The grammar is owned by the shaper implementation.
type Shaper interface {
	ParseFeature(feature string) (FeatureRange, error)
	Shape(text []rune, pos, length int, buf []ShapedGlyph, params Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font      *font.TypeCase // use a font at a given point-size
	Direction Direction      // writing direction
	Script    hblang.Script  // 4-letter ISO 15924 script identifier
	Language  language.Tag   // BCP 47 language tag
	Features  []FeatureRange // OpenType features to apply
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off
// for a range of code-points.
type FeatureRange struct {
	Feature    Tag  // 4-letter feature tag
	Arg        int  // optional argument for this feature
	On         bool // turn it on or off?
	Start, End int  // position of code-points to apply feature for
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs  []ShapedGlyph // resulting sequence of glyphs
	W, H, D dimen.DU      // width, height, depth of bounding box
}

// BoundingBox returns width, height and depth of a glyph sequence.
func (seq GlyphSequence) BoundingBox() (w dimen.DU, h dimen.DU, d dimen.DU) {
	return seq.W, seq.H, seq.D
}
