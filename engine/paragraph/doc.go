/*
Package paragraph implements complex text layout for a single paragraph of
Unicode text.

A Paragraph stores the states of the input text, its properties, and the
output of the layout process. To start, create a Paragraph, add text and a
font to it, run the layout process, and finally query the output:

	typecase, _ := font.FallbackFont().PrepareCase(11.0)

	p := paragraph.New()
	p.SetText([]rune("Hello, world"))
	p.SetFont(typecase, 0, 12)
	if err := p.Layout(); err == nil {
		glyphs := p.Glyphs()
		…
	}

Layout applies the Unicode Bidirectional Algorithm to the text, resolves a
script for every code-point, splits the text into shaping-ready runs in
visual order, and drives a text shaper over the runs. The text should
typically represent a full paragraph, since doing the layout of chunks of
text separately can give improper output.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package paragraph

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'raqm.layout'.
func tracer() tracing.Trace {
	return tracing.Select("raqm.layout")
}
