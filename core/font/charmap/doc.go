/*
Package charmap maps character codes to glyphs for a font or a master.

A character map combines two pieces of information: the coverage of the
underlying faces, held as a charset, and a small overlay of explicit
code-to-glyph entries. The overlay remembers glyphs which have already been
resolved, and carries remappings requested by clients. Coverage tells
whether a code can be resolved at all; the overlay tells whether it has
already been resolved to a specific glyph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package charmap

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glc.fonts")
}
