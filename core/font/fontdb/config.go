package fontdb

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/utils"
	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko"
)

// Configuration keys.
const (
	// SystemFontsKey selects whether system font directories are part of
	// the font set. Default is true.
	SystemFontsKey = "glc.system-fonts"
)

// SystemFontFiles lists the font files of the platform. It defaults to the
// search paths of go-findfont.
var SystemFontFiles = findfont.List

var systemFontSet struct {
	sync.Once
	patterns []*Pattern
}

// systemFonts scans the system font files once per process.
func systemFonts() []*Pattern {
	systemFontSet.Do(func() {
		var files []string
		for _, f := range SystemFontFiles() {
			if IsFontFile(f) {
				files = append(files, f)
			}
		}
		systemFontSet.patterns = scanFiles(files)
		tracer().Infof("scanned %d system font faces in %d files",
			len(systemFontSet.patterns), len(files))
	})
	return systemFontSet.patterns
}

// Config is a font configuration: the system font set, if enabled, plus the
// faces of all application font directories.
//
// A Config is not safe for concurrent use.
type Config struct {
	system  bool
	appDirs []string
	fonts   *linkedhashmap.Map // pattern id -> *Pattern, in scan order
}

// NewConfig creates a font configuration. conf may be nil, in which case
// defaults apply.
func NewConfig(conf schuko.Configuration) *Config {
	c := &Config{
		system: true,
		fonts:  linkedhashmap.New(),
	}
	if conf != nil && conf.IsSet(SystemFontsKey) {
		c.system = conf.GetBool(SystemFontsKey)
	}
	tracer().Debugf("new font configuration, system fonts = %v", c.system)
	return c
}

// AppFontAddDir scans dir recursively and adds all faces found to the font
// set. It fails if dir cannot be read. Adding a directory twice does not
// duplicate its faces.
func (c *Config) AppFontAddDir(dir string) error {
	patterns, err := scanDir(dir)
	if err != nil {
		return err
	}
	for _, p := range patterns {
		if _, found := c.fonts.Get(p.id()); !found {
			c.fonts.Put(p.id(), p)
		}
	}
	known := false
	for _, d := range c.appDirs {
		known = known || d == dir
	}
	if !known {
		c.appDirs = append(c.appDirs, dir)
	}
	tracer().Infof("font directory %s added, %d faces", dir, len(patterns))
	return nil
}

// AppFontClear removes all application fonts.
func (c *Config) AppFontClear() {
	c.fonts.Clear()
	c.appDirs = c.appDirs[:0]
}

// AppFontDirs returns the application font directories in the order they
// have been added.
func (c *Config) AppFontDirs() []string {
	return append([]string(nil), c.appDirs...)
}

// Fonts returns all faces in enumeration order.
func (c *Config) Fonts() []*Pattern {
	var all []*Pattern
	if c.system {
		all = append(all, systemFonts()...)
	}
	for _, v := range c.fonts.Values() {
		all = append(all, v.(*Pattern))
	}
	return all
}

// List returns the faces accepted by filter, in enumeration order.
// A nil filter accepts every face.
func (c *Config) List(filter func(*Pattern) bool) []*Pattern {
	var list []*Pattern
	for _, p := range c.Fonts() {
		if filter == nil || filter(p) {
			list = append(list, p)
		}
	}
	return list
}

// Outlines is a filter accepting faces with glyph outlines.
func Outlines(p *Pattern) bool {
	return p.Outline
}

// MatchingKey returns a filter accepting outline faces of the family given
// by key.
func MatchingKey(key Key) func(*Pattern) bool {
	return func(p *Pattern) bool {
		return p.Outline && p.Key() == key
	}
}

type ranked struct {
	p      *Pattern
	seq    int
	covers bool
}

// Sort ranks all faces by relevance for displaying code: faces covering code
// come first, outline faces before bitmap-only faces, and enumeration order
// breaks ties. The ranking is a heuristic; clients must re-check coverage.
func (c *Config) Sort(code rune) []*Pattern {
	fonts := c.Fonts()
	values := make([]interface{}, len(fonts))
	for i, p := range fonts {
		values[i] = ranked{p: p, seq: i, covers: p.Charset.Has(code)}
	}
	utils.Sort(values, func(a, b interface{}) int {
		x, y := a.(ranked), b.(ranked)
		if x.covers != y.covers {
			if x.covers {
				return -1
			}
			return 1
		}
		if x.p.Outline != y.p.Outline {
			if x.p.Outline {
				return -1
			}
			return 1
		}
		return utils.IntComparator(x.seq, y.seq)
	})
	sorted := make([]*Pattern, len(values))
	for i, v := range values {
		sorted[i] = v.(ranked).p
	}
	return sorted
}
