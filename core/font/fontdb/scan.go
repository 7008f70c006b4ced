package fontdb

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	textfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/glc/core"
	"golang.org/x/image/font/sfnt"
)

var errFontFormat = errors.New("fontdb: malformed font file")

var (
	tagOS2  = ot.MustNewTag("OS/2")
	tagCmap = ot.MustNewTag("cmap")
	tagGlyf = ot.MustNewTag("glyf")
	tagCFF  = ot.MustNewTag("CFF ")
	tagCFF2 = ot.MustNewTag("CFF2")
)

// IsFontFile is a predicate: does the file name denote a font file this
// package is able to scan?
func IsFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// ScanFile reads a font file and returns a pattern for every face in it.
func ScanFile(path string) ([]*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot read font file %s", path)
	}
	return ScanBytes(data, path)
}

// ScanBytes is like ScanFile, but reads the font from memory. path is
// recorded in the patterns and not accessed.
//
// Names and the post table are read with sfnt; table presence, the OS/2
// vendor and the cmap coverage come from the OpenType loaders.
func ScanBytes(data []byte, path string) ([]*Pattern, error) {
	loaders, err := ot.NewLoaders(bytes.NewReader(data))
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot scan font file %s", path)
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot parse font file %s", path)
	}
	if coll.NumFonts() != len(loaders) {
		return nil, core.Error(core.ERESOURCE, "inconsistent font collection %s", path)
	}
	patterns := make([]*Pattern, 0, len(loaders))
	for i, ld := range loaders {
		f, err := coll.Font(i)
		if err != nil {
			tracer().Infof("skipping face #%d of %s: %v", i, path, err)
			continue
		}
		p, err := scanFace(ld, f)
		if err != nil {
			tracer().Infof("skipping face #%d of %s: %v", i, path, err)
			continue
		}
		p.File, p.Index = path, i
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func scanFace(ld *ot.Loader, f *sfnt.Font) (*Pattern, error) {
	var buf sfnt.Buffer
	p := &Pattern{
		Family:   nameEntry(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily),
		Style:    nameEntry(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily),
		FullName: nameEntry(f, &buf, sfnt.NameIDFull),
		Version:  nameEntry(f, &buf, sfnt.NameIDVersion),
		Format:   outlineFormat(ld),
	}
	if p.Family == "" {
		return nil, errFontFormat
	}
	p.Outline = p.Format != ""
	if post := f.PostTable(); post != nil && post.IsFixedPitch {
		p.Spacing = Mono
	}
	var err error
	if p.Foundry, p.Charset, err = coverage(ld); err != nil {
		return nil, err
	}
	return p, nil
}

// outlineFormat reports the outline format of a face, or "" for faces
// without outlines.
func outlineFormat(ld *ot.Loader) string {
	switch {
	case ld.HasTable(tagGlyf):
		return FormatTrueType
	case ld.HasTable(tagCFF), ld.HasTable(tagCFF2):
		return FormatCFF
	}
	return ""
}

// coverage reads the OS/2 vendor ID and decodes the cmap into a charset.
// Code points mapping to glyph 0 (.notdef) are not members. The vendor ID
// is lower-cased and trimmed; fonts without one yield "".
func coverage(ld *ot.Loader) (vendor string, cs *Charset, err error) {
	page := tables.FPNone
	if raw, err := ld.RawTable(tagOS2); err == nil {
		if os2, _, err := tables.ParseOs2(raw); err == nil {
			page = os2.FontPage()
		}
		if len(raw) >= 62 { // achVendID is not exported by tables.Os2
			vendor = strings.ToLower(strings.Trim(string(raw[58:62]), " \x00"))
		}
	}
	raw, err := ld.RawTable(tagCmap)
	if err != nil {
		return "", nil, errFontFormat
	}
	tb, _, err := tables.ParseCmap(raw)
	if err != nil {
		return "", nil, errFontFormat
	}
	cmap, _, err := textfont.ProcessCmap(tb, page)
	if err != nil {
		return "", nil, err
	}
	cs = NewCharset()
	for it := cmap.Iter(); it.Next(); {
		if r, gid := it.Char(); gid != 0 && r >= 0 && r <= maxCode {
			cs.Add(r)
		}
	}
	return vendor, cs, nil
}

// nameEntry returns the first non-empty naming table entry out of ids.
func nameEntry(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// scanDir walks dir recursively and scans every font file in lexical order.
// Files which cannot be parsed are skipped.
func scanDir(dir string) ([]*Pattern, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot access font directory %s", dir)
	}
	if !info.IsDir() {
		return nil, core.Error(core.ERESOURCE, "not a directory: %s", dir)
	}
	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			tracer().Infof("skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() && IsFontFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot read font directory %s", dir)
	}
	sort.Strings(files)
	return scanFiles(files), nil
}

func scanFiles(files []string) []*Pattern {
	var patterns []*Pattern
	for _, file := range files {
		p, err := ScanFile(file)
		if err != nil {
			tracer().Debugf("skipping font file: %v", err)
			continue
		}
		patterns = append(patterns, p...)
	}
	return patterns
}
