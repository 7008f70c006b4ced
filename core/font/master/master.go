package master

import (
	"fmt"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/charmap"
	"github.com/npillmayer/glc/core/font/fontdb"
)

// Catalog is what masters need from a context: the font database and the
// table of master hashes.
type Catalog interface {
	Database() *fontdb.Config
	MasterHashes() []uint64
}

// Master is a font family. It is an immutable value.
type Master struct {
	key  fontdb.Key
	hash uint64
}

func newMaster(key fontdb.Key) *Master {
	return &Master{key: key, hash: key.Hash()}
}

// FromKey returns the master with reduced pattern key. Fonts remember the
// key of their master and re-create it with FromKey.
func FromKey(key fontdb.Key) *Master {
	return newMaster(key)
}

// Key returns the reduced pattern of the master.
func (m *Master) Key() fontdb.Key {
	return m.key
}

// Hash returns the hash value of the master's reduced pattern.
func (m *Master) Hash() uint64 {
	return m.hash
}

// Family returns the family name.
func (m *Master) Family() string {
	return m.key.Family
}

func (m *Master) String() string {
	return fmt.Sprintf("master(%s)", m.key)
}

// Hashes lists the hash values of all masters in db, in enumeration order
// of their first face, and appends the ones not yet present to table.
// Existing positions in table are never changed.
func Hashes(db *fontdb.Config, table []uint64) []uint64 {
	known := make(map[uint64]bool, len(table))
	for _, h := range table {
		known[h] = true
	}
	for _, p := range db.List(fontdb.Outlines) {
		if h := p.Key().Hash(); !known[h] {
			known[h] = true
			table = append(table, h)
		}
	}
	return table
}

// Resolve returns the master with the given ID. The ID is a position in the
// catalog's hash table.
func Resolve(c Catalog, id int) (*Master, error) {
	hashes := c.MasterHashes()
	if id < 0 || id >= len(hashes) {
		return nil, core.Error(core.EPARAMETER, "master ID %d out of range [0..%d)", id, len(hashes))
	}
	for _, p := range c.Database().List(fontdb.Outlines) {
		if k := p.Key(); k.Hash() == hashes[id] {
			return newMaster(k), nil
		}
	}
	return nil, core.Error(core.ERESOURCE, "master %d has vanished from the font database", id)
}

// FromFamily returns the master of the first face whose family name equals
// family.
func FromFamily(db *fontdb.Config, family string) (*Master, error) {
	for _, p := range db.List(fontdb.Outlines) {
		if p.Family == family {
			return newMaster(p.Key()), nil
		}
	}
	return nil, core.Error(core.EPARAMETER, "no font family %q", family)
}

// MatchCode returns the master of the most relevant face covering code.
func MatchCode(db *fontdb.Config, code rune) (*Master, error) {
	for _, p := range db.Sort(code) {
		if p.Outline && p.Charset.Has(code) {
			tracer().Debugf("%#U matched by %s", code, p)
			return newMaster(p.Key()), nil
		}
	}
	return nil, core.Error(core.ERESOURCE, "no font covers %#U", code)
}

// ID returns the position of the master in the catalog's hash table.
// Masters obtained from the catalog's database are always present; ID
// panics otherwise.
func (m *Master) ID(c Catalog) int {
	for i, h := range c.MasterHashes() {
		if h == m.hash {
			return i
		}
	}
	panic(fmt.Sprintf("%s not in master hash table", m))
}

// Faces returns the faces of the master in enumeration order.
func (m *Master) Faces(db *fontdb.Config) []*fontdb.Pattern {
	return db.List(fontdb.MatchingKey(m.key))
}

// FaceCount returns the number of faces (styles) of the master.
func (m *Master) FaceCount(db *fontdb.Config) int {
	return len(m.Faces(db))
}

// FaceName returns the style name of the index-th face.
func (m *Master) FaceName(db *fontdb.Config, index int) (string, error) {
	faces := m.Faces(db)
	if index < 0 || index >= len(faces) {
		return "", core.Error(core.EPARAMETER, "face index %d out of range [0..%d)", index, len(faces))
	}
	return faces[index].Style, nil
}

// FaceNames returns the style names of all faces, in enumeration order.
func (m *Master) FaceNames(db *fontdb.Config) []string {
	faces := m.Faces(db)
	names := make([]string, len(faces))
	for i, p := range faces {
		names[i] = p.Style
	}
	return names
}

// IsFixedPitch is a predicate: is the master not proportionally spaced?
func (m *Master) IsFixedPitch() bool {
	return m.key.Spacing != fontdb.Proportional
}

// CharMap returns a character map covering the union of all faces of the
// master.
func (m *Master) CharMap(db *fontdb.Config) *charmap.CharMap {
	cs := fontdb.NewCharset()
	for _, p := range m.Faces(db) {
		cs.Merge(p.Charset)
	}
	return charmap.New(cs)
}

// Info holds descriptive strings of a master.
type Info struct {
	Family   string
	Vendor   string
	Version  string
	FullName string
	Format   string
}

// Info returns descriptive strings of the master. Version, full name and
// format are those of the master's first face.
func (m *Master) Info(db *fontdb.Config) (Info, error) {
	info := Info{Family: m.key.Family, Vendor: m.key.Foundry}
	faces := m.Faces(db)
	if len(faces) == 0 {
		return info, core.Error(core.ERESOURCE, "%s has no faces", m)
	}
	info.Version = faces[0].Version
	info.FullName = faces[0].FullName
	info.Format = faces[0].Format
	return info, nil
}
