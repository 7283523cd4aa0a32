package paragraph

import (
	"testing"

	"github.com/benoitkugler/textlayout/fribidi"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pierrejoye/libraqm/core/dimen"
	"github.com/pierrejoye/libraqm/engine/glyphing"
	"github.com/pierrejoye/libraqm/engine/glyphing/monospace"
)

func TestLevelRuns(t *testing.T) {
	levels := []fribidi.Level{0, 0, 1, 1, 1, 0}
	runs := levelRuns(levels)
	if len(runs) != 3 {
		t.Fatalf("expected 3 level runs, have %d", len(runs))
	}
	if runs[0] != (bidiRun{pos: 0, len: 2, level: 0}) ||
		runs[1] != (bidiRun{pos: 2, len: 3, level: 1}) ||
		runs[2] != (bidiRun{pos: 5, len: 1, level: 0}) {
		t.Errorf("unexpected level runs %v", runs)
	}
}

func TestReorderRunsLTRBase(t *testing.T) {
	// LTR base with an embedded RTL run: visual order equals logical order
	runs := []bidiRun{{0, 2, 0}, {2, 3, 1}, {5, 1, 0}}
	reorderRuns(runs, 1)
	if runs[0].pos != 0 || runs[1].pos != 2 || runs[2].pos != 5 {
		t.Errorf("unexpected visual order %v", runs)
	}
}

func TestReorderRunsRTLBase(t *testing.T) {
	// RTL base with an embedded LTR run: runs are listed right-to-left
	runs := []bidiRun{{0, 2, 1}, {2, 3, 2}, {5, 1, 1}}
	reorderRuns(runs, 2)
	if runs[0].pos != 5 || runs[1].pos != 2 || runs[2].pos != 0 {
		t.Errorf("unexpected visual order %v", runs)
	}
}

func TestReorderRunsNested(t *testing.T) {
	// levels 0,1,2: the level-2 run travels with its level-1 neighbour
	runs := []bidiRun{{0, 1, 0}, {1, 2, 1}, {3, 2, 2}, {5, 1, 0}}
	reorderRuns(runs, 2)
	want := []int{0, 3, 1, 5}
	for i, r := range runs {
		if r.pos != want[i] {
			t.Fatalf("unexpected visual order %v", runs)
		}
	}
}

// --- Itemization through the pipeline --------------------------------------

func testShaper() glyphing.Shaper {
	return monospace.Shaper(10*dimen.PT, nil)
}

func layoutRunes(t *testing.T, text []rune, dir Direction) *Paragraph {
	t.Helper()
	p := New(WithShaper(testShaper()))
	p.SetText(text)
	p.SetBaseDirection(dir)
	if err := p.Layout(); err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	return p
}

func checkRun(t *testing.T, r Run, pos, length int, dir glyphing.Direction, script hblang.Script) {
	t.Helper()
	if r.Pos != pos || r.Len != length {
		t.Errorf("expected run [%d,%d), have [%d,%d)", pos, pos+length, r.Pos, r.Pos+r.Len)
	}
	if r.Direction != dir {
		t.Errorf("expected run direction %v, have %v", dir, r.Direction)
	}
	if r.Script != script {
		t.Errorf("expected run script %v, have %v", script, r.Script)
	}
}

// checkCoverage checks that every code-point index is covered by exactly one
// run.
func checkCoverage(t *testing.T, p *Paragraph) {
	t.Helper()
	seen := make([]int, len(p.text))
	for _, r := range p.Runs() {
		for i := r.Pos; i < r.Pos+r.Len; i++ {
			seen[i]++
		}
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("code-point %d covered by %d runs", i, n)
		}
	}
}

// checkScriptPurity checks that runs only span code-points of their script.
func checkScriptPurity(t *testing.T, p *Paragraph) {
	t.Helper()
	for _, r := range p.Runs() {
		for i := r.Pos; i < r.Pos+r.Len; i++ {
			if p.scripts[i] != r.Script {
				t.Errorf("script[%d] = %v differs from run script %v", i, p.scripts[i], r.Script)
			}
		}
	}
}

func TestItemizeLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	p := layoutRunes(t, []rune("hello"), DirLTR)
	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected a single run, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 5, glyphing.LeftToRight, hblang.Latin)
	checkCoverage(t, p)
}

func TestItemizePureArabic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	text := []rune{0x0627, 0x0644, 0x0639, 0x0631, 0x0628, 0x064A, 0x0629} // العربية
	p := layoutRunes(t, text, DirRTL)
	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected a single run, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 7, glyphing.RightToLeft, hblang.Arabic)
	checkCoverage(t, p)
}

func TestItemizeMixed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	text := []rune("abc الع xyz")
	p := layoutRunes(t, text, DirLTR)
	runs := p.Runs()
	// The embedded Arabic is a right-to-left run between two Latin runs.
	// The blank after the Arabic letters resolves to Arabic script but
	// stays at the base embedding level, so it forms a run of its own.
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 4, glyphing.LeftToRight, hblang.Latin)
	checkRun(t, runs[1], 4, 3, glyphing.RightToLeft, hblang.Arabic)
	checkRun(t, runs[2], 7, 1, glyphing.LeftToRight, hblang.Arabic)
	checkRun(t, runs[3], 8, 3, glyphing.LeftToRight, hblang.Latin)
	checkCoverage(t, p)
	checkScriptPurity(t, p)
}

func TestItemizePairedQuotes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	text := []rune("a “ب” c")
	p := layoutRunes(t, text, DirLTR)
	runs := p.Runs()
	// quotes pair up and travel with the surrounding Latin, leaving the
	// Arabic letter as a single right-to-left run in the middle
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 3, glyphing.LeftToRight, hblang.Latin)
	checkRun(t, runs[1], 3, 1, glyphing.RightToLeft, hblang.Arabic)
	checkRun(t, runs[2], 4, 3, glyphing.LeftToRight, hblang.Latin)
	checkCoverage(t, p)
	checkScriptPurity(t, p)
}

func TestItemizeCombiningMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	p := layoutRunes(t, []rune("é"), DirLTR)
	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected a single run, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 2, glyphing.LeftToRight, hblang.Latin)
}

func TestItemizeVertical(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	p := layoutRunes(t, []rune("漢字"), DirTTB)
	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected a single run, have %d", len(runs))
	}
	checkRun(t, runs[0], 0, 2, glyphing.TopToBottom, hblang.Han)
	checkCoverage(t, p)
}

func TestItemizeRTLBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	// Arabic with an embedded Latin word, RTL base: visually the Latin run
	// comes after (right of) the trailing Arabic run.
	text := []rune("ال ab ع")
	p := layoutRunes(t, text, DirRTL)
	runs := p.Runs()
	checkCoverage(t, p)
	checkScriptPurity(t, p)
	if len(runs) < 2 {
		t.Fatalf("expected at least 2 runs, have %d", len(runs))
	}
	if runs[0].Pos <= runs[len(runs)-1].Pos {
		t.Errorf("expected visual order to list high positions first for RTL base")
	}
	if runs[0].Direction != glyphing.RightToLeft {
		t.Errorf("expected first visual run to be right-to-left")
	}
}

func TestItemizeInheritedOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "raqm.layout")
	defer teardown()
	//
	// a lone combining mark: no strong script exists, the single run keeps
	// the unresolved script property
	p := layoutRunes(t, []rune{0x0301}, DirLTR)
	runs := p.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected a single run, have %d", len(runs))
	}
	if runs[0].Pos != 0 || runs[0].Len != 1 {
		t.Errorf("expected run [0,1), have [%d,%d)", runs[0].Pos, runs[0].Pos+runs[0].Len)
	}
	checkCoverage(t, p)
}
