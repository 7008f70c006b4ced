/*
Package glyph holds glyphs, the unit of caching for rendering characters.

A glyph is identified by its index in a face plus the Unicode code point it
has been requested for. It caches metrics and the GL objects created to
draw it. GL objects are created through a Backend. Two backends exist,
selected once per context from a capability flag: one storing display
lists, and one storing buffer objects together with the raw geometry
needed to re-issue draw calls.

GL objects live in whatever GL context was current when they were created.
Nothing in this package verifies that the same GL context is current when
they are used or deleted.

*/
package glyph

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glc.fonts")
}
