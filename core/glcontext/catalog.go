package glcontext

import (
	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/master"
)

// Database returns the font database of the context.
func (c *Context) Database() *fontdb.Config {
	return c.db
}

// MasterHashes returns the master hash table. Position i holds the hash of
// master i.
func (c *Context) MasterHashes() []uint64 {
	return c.masters.Slice()
}

var _ master.Catalog = (*Context)(nil)

// UpdateHashTable appends the masters of newly found faces to the master
// hash table. IDs of known masters do not change.
func (c *Context) UpdateHashTable() {
	old := c.masters.Len()
	table := master.Hashes(c.db, c.masters.Duplicate().Slice())
	c.masters.Append(table[old:]...)
	if n := c.masters.Len() - old; n > 0 {
		tracer().Debugf("context %d: %d new masters", c.id, n)
	}
}

// CatalogCount returns the number of catalogs.
func (c *Context) CatalogCount() int {
	return c.catalogs.Len()
}

// CatalogPath returns the directory of catalog i.
func (c *Context) CatalogPath(i int) (string, error) {
	if i < 0 || i >= c.catalogs.Len() {
		return "", core.Error(core.EPARAMETER, "catalog index %d out of range [0..%d)", i, c.catalogs.Len())
	}
	return c.catalogs.At(i), nil
}

// Catalogs returns all catalog directories in list order.
func (c *Context) Catalogs() []string {
	return append([]string(nil), c.catalogs.Slice()...)
}

// AppendCatalog adds dir at the end of the catalog list and registers its
// fonts. If dir cannot be scanned, the catalog list is left unchanged.
func (c *Context) AppendCatalog(dir string) error {
	return c.addCatalog(dir, c.catalogs.Len())
}

// PrependCatalog adds dir at the front of the catalog list and registers
// its fonts. If dir cannot be scanned, the catalog list is left unchanged.
func (c *Context) PrependCatalog(dir string) error {
	return c.addCatalog(dir, 0)
}

func (c *Context) addCatalog(dir string, at int) error {
	c.catalogs.Insert(at, dir)
	if err := c.db.AppFontAddDir(dir); err != nil {
		c.catalogs.Remove(at)
		return core.WrapError(err, core.ERESOURCE, "cannot add catalog %s", dir)
	}
	c.UpdateHashTable()
	tracer().Infof("context %d: catalog %s added at %d", c.id, dir, at)
	return nil
}

// RemoveCatalog removes catalog i. The font database is rebuilt from the
// remaining catalogs, dropping catalogs which cannot be scanned any more,
// and so is the master hash table. Fonts whose master has vanished are
// deleted.
//
// RemoveCatalog always completes; the returned error reports the first
// catalog which had to be dropped.
func (c *Context) RemoveCatalog(i int) error {
	if i < 0 || i >= c.catalogs.Len() {
		return core.Error(core.EPARAMETER, "catalog index %d out of range [0..%d)", i, c.catalogs.Len())
	}
	var failed error
	dir := c.catalogs.At(i)
	c.catalogs.Remove(i)
	c.db.AppFontClear()
	for k := 0; k < c.catalogs.Len(); {
		if err := c.db.AppFontAddDir(c.catalogs.At(k)); err != nil {
			tracer().Errorf("context %d: dropping catalog %s: %v", c.id, c.catalogs.At(k), err)
			if failed == nil {
				failed = core.WrapError(err, core.ERESOURCE, "catalog %s dropped", c.catalogs.At(k))
			}
			c.catalogs.Remove(k)
			continue
		}
		k++
	}
	c.masters.Reset()
	c.UpdateHashTable()
	c.purgeFonts()
	tracer().Infof("context %d: catalog %s removed", c.id, dir)
	return failed
}

// purgeFonts deletes every font whose master is not in the master hash
// table.
func (c *Context) purgeFonts() {
	known := make(map[uint64]bool, c.masters.Len())
	for _, h := range c.masters.Slice() {
		known[h] = true
	}
	for k := 0; k < c.fontList.Len(); {
		f := c.fontList.At(k)
		if known[f.MasterHash()] {
			k++
			continue
		}
		c.fontList.Remove(k)
		c.deleteFont(f)
		tracer().Infof("context %d: font %d purged, its master has vanished", c.id, f.ID)
	}
}
