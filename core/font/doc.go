/*
Package font implements fonts: instantiations of a master for one of its
faces.

Nomenclature follows GLC, which differs from the conventions of Go's font
packages:

* A "master" is a font family, e.g. "Go". Masters are implemented in
package master.

* A "face" is one style of a master, e.g. "Go Bold". It corresponds to a
concrete face inside a font file, see package face.

* A "font" is a master together with its current face and a character map.
Fonts have client-visible IDs and may switch faces.

The character map of a font starts out as the coverage of its face and
remembers every glyph resolved through it. Glyph metrics are cached with
the glyphs when GL objects are cached, because then the scale is fixed.

Fonts are owned by a context and are not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glc.fonts")
}
