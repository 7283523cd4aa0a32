package paragraph

import (
	"github.com/benoitkugler/textlayout/fribidi"
	"github.com/pierrejoye/libraqm/core"
	"github.com/pierrejoye/libraqm/engine/glyphing"
)

// bidiRun is a maximal contiguous range of equal bidi embedding level.
type bidiRun struct {
	pos   int
	len   int
	level int
}

// itemize computes the bidi level runs of the paragraph in visual order and
// splits them on script boundaries into shaping-ready runs.
func (p *Paragraph) itemize() error {
	var runs []bidiRun
	if p.baseDir == DirTTB {
		// treat everything as LTR in vertical text
		runs = []bidiRun{{pos: 0, len: len(p.text), level: 0}}
	} else {
		var err error
		if runs, err = p.bidiLevelRuns(); err != nil {
			return err
		}
	}
	tracer().Debugf("number of runs before script itemization: %d", len(runs))
	for i, r := range runs {
		tracer().Debugf("run[%d]: start: %d length: %d level: %d", i, r.pos, r.len, r.level)
	}
	p.splitRuns(runs)
	tracer().Debugf("number of runs after script itemization: %d", len(p.runs))
	for i, r := range p.runs {
		tracer().Debugf("run[%d]: start: %d length: %d direction: %v script: %v",
			i, r.Pos, r.Len, r.Direction, r.Script)
	}
	return nil
}

// bidiLevelRuns computes per-character embedding levels with the Unicode
// Bidirectional Algorithm and derives the level runs, reordered to visual
// order.
func (p *Paragraph) bidiLevelRuns() ([]bidiRun, error) {
	parType := fribidi.ParType(fribidi.ON)
	switch p.baseDir {
	case DirLTR:
		parType = fribidi.ParType(fribidi.LTR)
	case DirRTL:
		parType = fribidi.ParType(fribidi.RTL)
	}
	types := getBidiTypes(p.text)
	brackets := getBracketTypes(p.text)
	levels, maxLevel := fribidi.GetParEmbeddingLevels(types, brackets, &parType)
	if maxLevel < 0 {
		return nil, core.Error(core.EINTERNAL, "bidi algorithm failed on paragraph text")
	}
	runs := levelRuns(levels)
	reorderRuns(runs, int(maxLevel))
	return runs, nil
}

// getBidiTypes computes per-character bidi types for text.
func getBidiTypes(text []rune) []fribidi.CharType {
	types := make([]fribidi.CharType, len(text))
	for i, r := range text {
		types[i] = fribidi.GetBidiType(r)
	}
	return types
}

// getBracketTypes computes per-character bracket types for text.
func getBracketTypes(text []rune) []fribidi.BracketType {
	brackets := make([]fribidi.BracketType, len(text))
	for i, r := range text {
		brackets[i] = fribidi.GetBracket(r)
	}
	return brackets
}

// levelRuns derives the level runs from per-character embedding levels, in
// logical order.
func levelRuns(levels []fribidi.Level) []bidiRun {
	var runs []bidiRun
	for i, level := range levels {
		if i > 0 && int(level) == runs[len(runs)-1].level {
			runs[len(runs)-1].len++
			continue
		}
		runs = append(runs, bidiRun{pos: i, len: 1, level: int(level)})
	}
	return runs
}

// reorderRuns reorders level runs from logical to visual order, applying
// rule L2 of the Unicode Bidirectional Algorithm at run granularity: from
// the highest level down to the lowest odd level, reverse any contiguous
// sequence of runs at that level or higher.
func reorderRuns(runs []bidiRun, maxLevel int) {
	for level := maxLevel; level > 0; level-- {
		for i := 0; i < len(runs); {
			if runs[i].level < level {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].level >= level {
				j++
			}
			for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
				runs[lo], runs[hi] = runs[hi], runs[lo]
			}
			i = j
		}
	}
}

// runDirection maps a bidi embedding level to a shaping direction, honoring
// the paragraph base direction: TTB paragraphs shape all runs top-to-bottom,
// odd levels are right-to-left, even levels left-to-right.
func (p *Paragraph) runDirection(level int) glyphing.Direction {
	if p.baseDir == DirTTB {
		return glyphing.TopToBottom
	}
	if level%2 == 1 {
		return glyphing.RightToLeft
	}
	return glyphing.LeftToRight
}

// splitRuns walks the bidi level runs in visual order and subdivides each of
// them on script boundaries. Right-to-left runs are walked from their high
// end, so that the produced shaping-ready runs again appear in visual order.
// Each run's Pos denotes the low end of its range, regardless of walking
// direction.
func (p *Paragraph) splitRuns(bidiRuns []bidiRun) {
	for _, br := range bidiRuns {
		dir := p.runDirection(br.level)
		var cur *Run
		for k := 0; k < br.len; k++ {
			idx := br.pos + k
			if dir.IsBackward() {
				idx = br.pos + br.len - 1 - k
			}
			script := p.scripts[idx]
			if cur != nil && script == cur.Script {
				cur.Len++
				if dir.IsBackward() {
					cur.Pos = idx
				}
				continue
			}
			cur = &Run{
				Pos:       idx,
				Len:       1,
				Direction: dir,
				Script:    script,
				font:      p.font,
			}
			p.runs = append(p.runs, cur)
		}
	}
}
