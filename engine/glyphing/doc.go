/*
Package glyphing defines the text shaping capability used by the layout
engine.

A Shaper creates a sequence of positioned glyphs from a run of Unicode
code-points. The layout engine treats shapers as interchangeable: any
implementation of interface Shaper may be plugged into a paragraph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphing
