/*
Package master implements masters: font families, seen as the set of faces
sharing family name, foundry and spacing.

Masters are not stored anywhere. A context keeps a table of the hash values
of all reduced patterns it has seen, and the position of a hash in this
table is the public ID of its master. A Master is re-derived from the font
database whenever it is needed and discarded afterwards, so it never refers
to stale database entries after catalogs have changed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package master

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fonts'
func tracer() tracing.Trace {
	return tracing.Select("glc.fonts")
}
