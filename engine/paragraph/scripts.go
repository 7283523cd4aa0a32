package paragraph

import (
	"sort"

	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// noScript is the invalid-script sentinel.
const noScript = hblang.Script(0)

// Special paired characters for script detection. The table is sorted;
// characters at even positions open a pair, the character at the following
// odd position closes it.
var pairedChars = []rune{
	0x0028, 0x0029, // ascii paired punctuation
	0x003c, 0x003e,
	0x005b, 0x005d,
	0x007b, 0x007d,
	0x00ab, 0x00bb, // guillemets
	0x2018, 0x2019, // general punctuation
	0x201c, 0x201d,
	0x2039, 0x203a,
	0x3008, 0x3009, // chinese paired punctuation
	0x300a, 0x300b,
	0x300c, 0x300d,
	0x300e, 0x300f,
	0x3010, 0x3011,
	0x3014, 0x3015,
	0x3016, 0x3017,
	0x3018, 0x3019,
	0x301a, 0x301b,
}

// pairIndex returns the position of a character in the paired-characters
// table, or -1 if the character does not pair.
func pairIndex(ch rune) int {
	i := sort.Search(len(pairedChars), func(i int) bool {
		return pairedChars[i] >= ch
	})
	if i < len(pairedChars) && pairedChars[i] == ch {
		return i
	}
	return -1
}

func isOpenPair(pairIdx int) bool {
	return pairIdx&1 == 0
}

// --- Paired-script stack ---------------------------------------------------

// pairEntry is a stack entry for an open paired character.
type pairEntry struct {
	script    hblang.Script // script the opener resolved to
	pairIndex int           // position of the opener in pairedChars
}

// scriptStack is a stack of open paired characters, bounded by a fixed
// capacity.
//
// The capacity bound keeps one slot of headroom: the original C
// implementation indexed entries with the post-incremented stack size,
// leaving slot 0 unused, so a stack of capacity N holds at most N-1 entries.
// That is sufficient, since a resolution pass pushes at most once per
// code-point and never for the first one.
type scriptStack struct {
	capacity int
	entries  *arraystack.Stack
}

func newScriptStack(capacity int) *scriptStack {
	return &scriptStack{
		capacity: capacity,
		entries:  arraystack.New(),
	}
}

// push puts an entry for an open paired character onto the stack. Pushing
// onto a full stack fails non-fatally: the pairing heuristic degrades
// gracefully when pairings are lost.
func (s *scriptStack) push(script hblang.Script, pairIdx int) bool {
	if s.entries.Size() >= s.capacity-1 {
		tracer().Debugf("script stack is full")
		return false
	}
	s.entries.Push(pairEntry{script, pairIdx})
	return true
}

// pop removes the top entry. Popping an empty stack fails non-fatally.
func (s *scriptStack) pop() bool {
	if _, ok := s.entries.Pop(); !ok {
		tracer().Debugf("script stack is empty")
		return false
	}
	return true
}

// top returns the top entry. On an empty stack, ok is false and the entry
// carries the invalid-script sentinel.
func (s *scriptStack) top() (pairEntry, bool) {
	v, ok := s.entries.Peek()
	if !ok {
		tracer().Debugf("script stack is empty")
		return pairEntry{script: noScript, pairIndex: -1}, false
	}
	return v.(pairEntry), true
}

func (s *scriptStack) empty() bool {
	return s.entries.Empty()
}

// --- Script resolution -----------------------------------------------------

func isNeutralScript(script hblang.Script) bool {
	return script == hblang.Common || script == hblang.Inherited
}

// resolveScripts resolves the script for each character of the paragraph.
// If the character script is Common or Inherited, it takes the script of the
// character before it, except for paired characters: a closing character is
// anchored to its matching opening character via a stack and takes the same
// script, so that e.g. quotation marks inside an Arabic phrase resolve to
// Arabic on both sides, even when the quoted words are Latin.
//
// Characters before the first strong character take the script of that first
// strong character. If the text has no strong character at all, the script
// array keeps the plain Unicode script property values.
func (p *Paragraph) resolveScripts() {
	scripts := make([]hblang.Script, len(p.text))
	for i, ch := range p.text {
		scripts[i] = hblang.LookupScript(ch)
	}
	lastScriptIndex := -1
	lastSetIndex := -1
	lastScript := noScript
	stack := newScriptStack(len(p.text))
	for i := 0; i < len(scripts); i++ {
		switch {
		case isNeutralScript(scripts[i]) && lastScriptIndex == -1:
			// neutral prefix: left alone until the first strong character
			// appears, which backfills it
		case scripts[i] == hblang.Common:
			pairIdx := pairIndex(p.text[i])
			switch {
			case pairIdx < 0: // not a paired character
				scripts[i] = lastScript
				lastSetIndex = i
			case isOpenPair(pairIdx):
				scripts[i] = lastScript
				lastSetIndex = i
				stack.push(scripts[i], pairIdx)
			default: // a closing paired character
				// find matching opening (by getting the last even index for
				// current odd index)
				for !stack.empty() {
					if entry, _ := stack.top(); entry.pairIndex == pairIdx&^1 {
						break
					}
					stack.pop()
				}
				if entry, ok := stack.top(); ok {
					if entry.script != lastScript {
						tracer().Debugf("closing pair at %d adopts the script of its opener", i)
					}
					scripts[i] = entry.script
					lastScript = entry.script
				} else {
					scripts[i] = lastScript
				}
				lastSetIndex = i
			}
		case scripts[i] == hblang.Inherited:
			scripts[i] = lastScript
			lastSetIndex = i
		default: // a strong script
			for j := lastSetIndex + 1; j < i; j++ {
				scripts[j] = scripts[i]
			}
			lastScript = scripts[i]
			lastScriptIndex = i
			lastSetIndex = i
		}
	}
	p.scripts = scripts
}
