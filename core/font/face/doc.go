/*
Package face opens concrete font faces and extracts glyph data from them.

A Descriptor stands for one face of one font file, selected from the font
database by a reduced pattern (family, foundry, spacing) and optionally by
style name or coverage of a character code. It owns the glyphs created
for codes requested from the face, and it extracts metrics, outlines and
bitmaps for them.

Faces are opened in one of two modes. With a Manager, open faces are held
in a bounded LRU cache, keyed by an opaque face ID the descriptor
registers. The cache never refers back to descriptors. Without a Manager,
a descriptor opens its face on demand and keeps an open count, so that
nested operations share one open face and the face is released when the
outermost operation is done.

Metric values are returned as floating point values relative to the
requested scale, with the Y axis pointing up.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package face

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glc.fonts")
}
