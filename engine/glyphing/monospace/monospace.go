package monospace

import (
	"strings"
	"unicode/utf8"

	"github.com/benoitkugler/textlayout/fonts"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	"github.com/pierrejoye/libraqm/core"
	"github.com/pierrejoye/libraqm/core/dimen"
	"github.com/pierrejoye/libraqm/engine/glyphing"
)

type msshape struct {
	em               dimen.DU
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
}

// Shaper creates a shaper for monospace typesetting.
// An em-dimension may be given which will then be used for shaping text.
// If it is zero, it will be set to 10pt.
func Shaper(em dimen.DU, context *uax11.Context) glyphing.Shaper {
	if em == 0 {
		em = 10 * dimen.PT
	}
	sh := &msshape{
		em:      em,
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	grapheme.SetupGraphemeClasses()
	return sh
}

// Shape creates a glyph sequence for the window [pos, pos+length) of text.
// Glyphs of right-to-left runs are emitted in visual order, i.e. with
// descending cluster positions.
func (ms *msshape) Shape(text []rune, pos, length int, buf []glyphing.ShapedGlyph,
	p glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if len(text) == 0 || length <= 0 {
		return glyphing.GlyphSequence{}, nil
	}
	if pos < 0 || pos >= len(text) {
		return glyphing.GlyphSequence{}, nil
	}
	if pos+length > len(text) {
		length = len(text) - pos
	}
	seq := glyphing.GlyphSequence{Glyphs: buf}
	if seq.Glyphs == nil {
		seq.Glyphs = make([]glyphing.ShapedGlyph, 0, length)
	} else {
		seq.Glyphs = seq.Glyphs[:0]
	}
	window := text[pos : pos+length]
	ms.graphemeSplitter.Init(strings.NewReader(string(window)))
	cluster := pos
	for ms.graphemeSplitter.Next() {
		grphm := ms.graphemeSplitter.Bytes()
		w := uax11.Width(grphm, ms.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		g := glyphing.ShapedGlyph{
			XAdvance:  dimen.DU(w) * ms.em,
			ClusterID: cluster,
			CodePoint: codepoint,
			GID:       fonts.GID(codepoint),
		}
		seq.Glyphs = append(seq.Glyphs, g)
		seq.W += g.XAdvance
		cluster += utf8.RuneCount(grphm)
	}
	if p.Direction.IsBackward() {
		for i, j := 0, len(seq.Glyphs)-1; i < j; i, j = i+1, j-1 {
			seq.Glyphs[i], seq.Glyphs[j] = seq.Glyphs[j], seq.Glyphs[i]
		}
	}
	seq.H = ms.em * 3 / 5
	seq.D = ms.em * 2 / 5
	tracer().Debugf("monospace shaper produced %d glyphs", len(seq.Glyphs))
	return seq, nil
}

// ParseFeature is part of interface glyphing.Shaper.
//
// The monospace shaper ignores OpenType features while shaping, but accepts
// the common subset of the feature grammar: `tag`, `+tag`, `-tag` and
// `tag=value`.
func (ms *msshape) ParseFeature(feature string) (glyphing.FeatureRange, error) {
	f := strings.TrimSpace(feature)
	on := true
	switch {
	case strings.HasPrefix(f, "+"):
		f = f[1:]
	case strings.HasPrefix(f, "-"):
		on = false
		f = f[1:]
	}
	arg := 0
	if eq := strings.IndexByte(f, '='); eq >= 0 {
		val := f[eq+1:]
		f = f[:eq]
		for _, digit := range val {
			if digit < '0' || digit > '9' {
				return glyphing.FeatureRange{}, core.Error(core.EINVALID,
					"cannot parse feature %q", feature)
			}
			arg = arg*10 + int(digit-'0')
		}
		on = arg > 0
	}
	if len(f) == 0 || len(f) > 4 {
		return glyphing.FeatureRange{}, core.Error(core.EINVALID,
			"cannot parse feature %q", feature)
	}
	return glyphing.FeatureRange{
		Feature: glyphing.NewTag(f),
		Arg:     arg,
		On:      on,
	}, nil
}
