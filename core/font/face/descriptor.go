package face

import (
	"fmt"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"golang.org/x/image/font/sfnt"
)

// Descriptor is a concrete face of a font file, together with the glyphs
// which have been requested from it.
type Descriptor struct {
	pattern *fontdb.Pattern
	mgr     *Manager // nil if the descriptor opens its face itself
	id      FaceID   // registration with mgr
	face    *sfnt.Font
	refs    int // open count without mgr
	glyphs  []*glyph.Glyph
	buf     sfnt.Buffer
}

// Create selects a face of the family given by key from db. If faceName is
// not empty, the face's style must equal it. If code is not 0, the face
// must cover code. The first face in enumeration order wins.
//
// If mgr is nil, the descriptor opens its face itself (see Open).
func Create(db *fontdb.Config, key fontdb.Key, faceName string, code rune,
	mgr *Manager) (*Descriptor, error) {
	//
	var match *fontdb.Pattern
	for _, p := range db.List(fontdb.MatchingKey(key)) {
		if code != 0 && !p.Charset.Has(code) {
			continue
		}
		if faceName != "" && p.Style != faceName {
			continue
		}
		match = p
		break
	}
	if match == nil {
		if faceName != "" {
			return nil, core.Error(core.ERESOURCE, "no face %q for %s", faceName, key)
		}
		return nil, core.Error(core.ERESOURCE, "no face for %s covering %#U", key, code)
	}
	d := &Descriptor{pattern: match.Duplicate(), mgr: mgr}
	if mgr != nil {
		d.id = mgr.Register(match.File, match.Index)
	}
	tracer().Debugf("face descriptor for %s", d)
	return d, nil
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %s", d.pattern.Family, d.pattern.Style)
}

// Pattern returns the full pattern of the face. Clients must not modify it.
func (d *Descriptor) Pattern() *fontdb.Pattern {
	return d.pattern
}

// Style returns the style name of the face, e.g. "Bold".
func (d *Descriptor) Style() string {
	return d.pattern.Style
}

// IsFixedPitch is a predicate: is the face not proportionally spaced?
func (d *Descriptor) IsFixedPitch() bool {
	return d.pattern.Spacing != fontdb.Proportional
}

// Charset returns the coverage of the face.
func (d *Descriptor) Charset() *fontdb.Charset {
	return d.pattern.Charset
}

// Format returns the outline format of the face.
func (d *Descriptor) Format() string {
	return d.pattern.Format
}

// Open opens the face. Without a Manager, Open and Close maintain an open
// count: the face file is read on the first Open and released on the
// matching last Close. With a Manager, Open looks the face up in the cache
// and Close is a no-op.
func (d *Descriptor) Open() (*sfnt.Font, error) {
	if d.mgr != nil {
		return d.mgr.Lookup(d.id)
	}
	if d.refs == 0 {
		f, err := openFace(d.pattern.File, d.pattern.Index)
		if err != nil {
			return nil, err
		}
		d.face = f
		tracer().Debugf("opened face %s", d)
	}
	d.refs++
	return d.face, nil
}

// Close releases one Open.
func (d *Descriptor) Close() {
	if d.mgr != nil {
		return
	}
	if d.refs <= 0 {
		panic(fmt.Sprintf("face %s closed more often than opened", d))
	}
	d.refs--
	if d.refs == 0 {
		d.face = nil
		tracer().Debugf("closed face %s", d)
	}
}

// OpenCount returns the open count of a descriptor without a Manager.
func (d *Descriptor) OpenCount() int {
	return d.refs
}

// GetGlyph returns the glyph for code. Glyphs are created on first request
// and owned by the descriptor. If the face has no glyph for code, GetGlyph
// returns nil and no error.
func (d *Descriptor) GetGlyph(code rune) (*glyph.Glyph, error) {
	for _, g := range d.glyphs {
		if g.Codepoint == code {
			return g, nil
		}
	}
	f, err := d.Open()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	inx, err := f.GlyphIndex(&d.buf, code)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot map %#U in face %s", code, d)
	}
	if inx == 0 {
		return nil, nil
	}
	g := glyph.New(uint16(inx), code)
	d.glyphs = append(d.glyphs, g)
	tracer().Debugf("%s: new %s", d, g)
	return g, nil
}

// Glyphs returns the glyphs created so far.
func (d *Descriptor) Glyphs() []*glyph.Glyph {
	return d.glyphs
}

// DestroyGLObjects releases the GL objects of all glyphs.
func (d *Descriptor) DestroyGLObjects(be glyph.Backend) {
	if be == nil {
		return
	}
	for _, g := range d.glyphs {
		be.Release(g)
	}
}

// Destroy drops all glyphs and unregisters the face from its Manager.
// GL objects are released through be, unless teardown is set: during
// teardown no GL context can be assumed to be current.
func (d *Descriptor) Destroy(be glyph.Backend, teardown bool) {
	if d.refs != 0 {
		panic(fmt.Sprintf("face %s destroyed while open", d))
	}
	if !teardown {
		d.DestroyGLObjects(be)
	}
	d.glyphs = nil
	if d.mgr != nil {
		d.mgr.RemoveFace(d.id)
	}
}
