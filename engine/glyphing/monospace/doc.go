/*
Package monospace implements a simple shaper for monospace output.

It maps every grapheme cluster to a single glyph with a fixed-width advance
(doubled for wide East Asian characters). No font tables are consulted; the
glyph index is the code-point itself. This is good enough for terminal-like
output and for exercising the layout engine without a font.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'raqm.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("raqm.glyphs")
}
