package glcontext

import (
	"github.com/npillmayer/glc/core/font/charmap"
	"github.com/npillmayer/glc/core/font/master"
)

// MasterCount returns the number of masters.
func (c *Context) MasterCount() int {
	return c.masters.Len()
}

// Master returns the master with ID id.
func (c *Context) Master(id int) (*master.Master, error) {
	return master.Resolve(c, id)
}

// MasterInfo returns descriptive strings of master id.
func (c *Context) MasterInfo(id int) (master.Info, error) {
	m, err := master.Resolve(c, id)
	if err != nil {
		return master.Info{}, err
	}
	return m.Info(c.db)
}

// MasterFaceCount returns the number of faces of master id.
func (c *Context) MasterFaceCount(id int) (int, error) {
	m, err := master.Resolve(c, id)
	if err != nil {
		return 0, err
	}
	return m.FaceCount(c.db), nil
}

// MasterFaceName returns the style of face i of master id.
func (c *Context) MasterFaceName(id, i int) (string, error) {
	m, err := master.Resolve(c, id)
	if err != nil {
		return "", err
	}
	return m.FaceName(c.db, i)
}

// MasterCharMap returns the character map of master id, covering all of
// its faces.
func (c *Context) MasterCharMap(id int) (*charmap.CharMap, error) {
	m, err := master.Resolve(c, id)
	if err != nil {
		return nil, err
	}
	return m.CharMap(c.db), nil
}

// MasterIsFixedPitch is a predicate: is master id fixed pitch?
func (c *Context) MasterIsFixedPitch(id int) (bool, error) {
	m, err := master.Resolve(c, id)
	if err != nil {
		return false, err
	}
	return m.IsFixedPitch(), nil
}
