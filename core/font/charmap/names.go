package charmap

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/runenames"
)

// Name returns the Unicode character name of r, or "" if r has none.
func Name(r rune) string {
	return runenames.Name(r)
}

var nameTable struct {
	sync.Once
	codes map[string]rune
}

// planes holding named characters.
var namedRanges = [][2]rune{
	{0x0000, 0xD7FF},   // below surrogates
	{0xF900, 0x3FFFF},  // compatibility ideographs up to plane 3
	{0xE0000, 0xE01EF}, // tags and variation selectors
}

// Lookup returns the code point of the character with Unicode name name.
// Names are compared case-insensitively. The reverse table is built on
// first use.
func Lookup(name string) (rune, bool) {
	nameTable.Do(func() {
		nameTable.codes = make(map[string]rune, 40000)
		for _, rng := range namedRanges {
			for r := rng[0]; r <= rng[1]; r++ {
				n := runenames.Name(r)
				if n == "" || n[0] == '<' {
					continue
				}
				if _, dup := nameTable.codes[n]; !dup {
					nameTable.codes[n] = r
				}
			}
		}
		tracer().Debugf("charmap: %d character names", len(nameTable.codes))
	})
	r, ok := nameTable.codes[strings.ToUpper(name)]
	return r, ok
}
