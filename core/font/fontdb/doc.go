/*
Package fontdb is a database of installed fonts, serving the needs of
font resolution: enumerate faces, filter them by family, foundry, spacing,
outline capability and character coverage, sort them by relevance for a
character, and compute stable hashes of reduced patterns.

A Config holds the font directories ("catalogs") an application has
registered, plus, optionally, the platform's system font directories.
Every face found in these directories is described by a Pattern. Faces are
enumerated in a stable order: system fonts first, then application fonts
in the order their directories were added. Clients must not rely on any
other ordering property.

Scanning a font file reads the naming, post, OS/2 and cmap tables. Faces
which do not contain glyph outlines (bitmap-only fonts) are kept in the
database but flagged as non-outline; font resolution ignores them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontdb

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.fontdb'
func tracer() tracing.Trace {
	return tracing.Select("glc.fontdb")
}
