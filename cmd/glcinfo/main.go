/*
Command glcinfo is an interactive inspector for GLC contexts.

It creates a context, registers font catalogs, and lets the user query
masters, create fonts and resolve characters:

	glcinfo -catalog /usr/share/fonts/truetype/dejavu
	glc > masters
	glc > font 0
	glc > resolve U+263A

Without system fonts and catalogs, the Go fonts are used.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/charmap"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"github.com/npillmayer/glc/core/glcontext"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'glc.context'
func tracer() tracing.Trace {
	return tracing.Select("glc.context")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	catalog := flag.String("catalog", "", "Font directories, separated by "+string(os.PathListSeparator))
	system := flag.Bool("system", true, "Use system fonts")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.glc.context":   *tlevel,
		"trace.glc.fonts":     *tlevel,
		"trace.glc.fontdb":    *tlevel,
		fontdb.SystemFontsKey: *system,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the GLC inspector")

	reg := glcontext.NewRegistry(conf)
	defer reg.Teardown()
	intp := &Intp{thread: reg.NewThread()}
	if err := intp.setup(*catalog); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	repl, err := readline.New("glc > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Quit with <ctrl>D or 'quit', help with 'help'")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	thread *glcontext.Thread
	repl   *readline.Instance
}

// setup creates the context and registers the catalogs in list. If no
// master is found, the Go fonts are registered.
func (intp *Intp) setup(list string) error {
	id, err := intp.thread.GenContext()
	if err != nil {
		return err
	}
	if err = intp.thread.MakeCurrent(id); err != nil {
		return err
	}
	return intp.thread.Do(func(ctx *glcontext.Context) error {
		for _, dir := range filepath.SplitList(list) {
			if err := ctx.AppendCatalog(dir); err != nil {
				pterm.Error.Println(err.Error())
			}
		}
		if ctx.MasterCount() > 0 {
			return nil
		}
		dir, err := writeGoFonts()
		if err != nil {
			return err
		}
		pterm.Info.Printfln("no fonts found, using the Go fonts in %s", dir)
		return ctx.AppendCatalog(dir)
	})
}

func writeGoFonts() (string, error) {
	dir, err := os.MkdirTemp("", "glcinfo")
	if err != nil {
		return "", core.WrapError(err, core.ERESOURCE, "cannot create font directory")
	}
	for name, data := range map[string][]byte{
		"Go-Regular.ttf": goregular.TTF,
		"Go-Bold.ttf":    gobold.TTF,
		"Go-Italic.ttf":  goitalic.TTF,
		"Go-Mono.ttf":    gomono.TTF,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return "", core.WrapError(err, core.ERESOURCE, "cannot write %s", name)
		}
	}
	return dir, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "quit" {
			break
		}
		err = intp.thread.Do(func(ctx *glcontext.Context) error {
			return execute(ctx, args[0], args[1:])
		})
		if err != nil {
			pterm.Error.Printfln("[%#04x] %s", core.Code(err), core.UserMessage(err))
			tracer().Debugf("%v", err)
		}
		intp.thread.GetError()
	}
	_ = intp.thread.ReleaseCurrent()
	pterm.Info.Println("Good bye!")
}

func execute(ctx *glcontext.Context, cmd string, args []string) error {
	switch cmd {
	case "catalog+":
		if len(args) != 1 {
			return usage("catalog+ <dir>")
		}
		return ctx.AppendCatalog(args[0])
	case "catalog-":
		i, err := intArg(args, 0, "catalog- <index>")
		if err != nil {
			return err
		}
		return ctx.RemoveCatalog(i)
	case "catalogs":
		data := pterm.TableData{{"#", "Directory"}}
		for i, dir := range ctx.Catalogs() {
			data = append(data, []string{strconv.Itoa(i), dir})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case "masters":
		return listMasters(ctx)
	case "master":
		id, err := intArg(args, 0, "master <id>")
		if err != nil {
			return err
		}
		return showMaster(ctx, id)
	case "font":
		m, err := intArg(args, 0, "font <master-id>")
		if err != nil {
			return err
		}
		id, err := ctx.NewFontFromMaster(ctx.GenFontID(), m)
		if err != nil {
			return err
		}
		pterm.Printfln("font %d created", id)
		return ctx.AppendFont(id)
	case "face":
		id, err := intArg(args, 0, "face <font> <style>")
		if err != nil || len(args) < 2 {
			return usage("face <font> <style>")
		}
		switched, err := ctx.FontFace(id, strings.Join(args[1:], " "))
		if err == nil && !switched {
			pterm.Warning.Println("no current fonts")
		}
		return err
	case "fonts":
		return listFonts(ctx)
	case "resolve":
		code, err := runeArg(args, "resolve <char>")
		if err != nil {
			return err
		}
		f, err := ctx.ResolveFont(code)
		if err != nil {
			return err
		}
		if f == nil {
			pterm.Printfln("no font maps %#U", code)
			return nil
		}
		pterm.Printfln("%#U (%s) resolves to font %d, %s %s", code,
			f.CharMap().GetCharName(code), f.ID, f.MasterKey().Family, f.FaceName())
		return nil
	case "glyph":
		id, err := intArg(args, 0, "glyph <font> <char>")
		if err != nil {
			return err
		}
		code, err := runeArg(args[1:], "glyph <font> <char>")
		if err != nil {
			return err
		}
		return showGlyph(ctx, id, code)
	case "help":
		help()
		return nil
	}
	help()
	return core.Error(core.EPARAMETER, "unknown command %q", cmd)
}

func listMasters(ctx *glcontext.Context) error {
	data := pterm.TableData{{"ID", "Family", "Vendor", "Faces", "Fixed", "Format"}}
	for id := 0; id < ctx.MasterCount(); id++ {
		info, err := ctx.MasterInfo(id)
		if err != nil {
			return err
		}
		n, _ := ctx.MasterFaceCount(id)
		fixed, _ := ctx.MasterIsFixedPitch(id)
		data = append(data, []string{strconv.Itoa(id), info.Family, info.Vendor,
			strconv.Itoa(n), strconv.FormatBool(fixed), info.Format})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showMaster(ctx *glcontext.Context, id int) error {
	info, err := ctx.MasterInfo(id)
	if err != nil {
		return err
	}
	cm, err := ctx.MasterCharMap(id)
	if err != nil {
		return err
	}
	pterm.Printfln("%s (%s), version %q", info.FullName, info.Vendor, info.Version)
	lo, _ := cm.MinMappedCode()
	hi, _ := cm.MaxMappedCode()
	pterm.Printfln("%d characters from %#U to %#U", cm.Count(), lo, hi)
	n, _ := ctx.MasterFaceCount(id)
	for i := 0; i < n; i++ {
		name, err := ctx.MasterFaceName(id, i)
		if err != nil {
			return err
		}
		pterm.Printfln("  face %d: %s", i, name)
	}
	return nil
}

func listFonts(ctx *glcontext.Context) error {
	current := make(map[int]bool)
	for _, id := range ctx.CurrentFonts() {
		current[id] = true
	}
	data := pterm.TableData{{"ID", "Family", "Face", "Master", "Chars", "Current"}}
	for _, id := range ctx.FontList() {
		info, err := ctx.FontInfo(id)
		if err != nil {
			return err
		}
		data = append(data, []string{strconv.Itoa(id), info.Family, info.Face,
			strconv.Itoa(info.Master), strconv.Itoa(info.CharCount), strconv.FormatBool(current[id])})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showGlyph(ctx *glcontext.Context, id int, code rune) error {
	f, err := ctx.Font(id)
	if err != nil {
		return err
	}
	g, err := f.GetGlyph(code)
	if err != nil {
		return err
	}
	if g == nil {
		return core.Error(core.EPARAMETER, "font %d does not map %#U", id, code)
	}
	s := ctx.Settings()
	bbox, err := f.BoundingBox(code, 1, 1, s)
	if err != nil {
		return err
	}
	adv, err := f.Advance(code, 1, 1, s)
	if err != nil {
		return err
	}
	if err := ctx.PrepareGlyph(id, code, glyph.Line); err != nil {
		return err
	}
	pterm.Printfln("%s %s", g, f.CharMap().GetCharName(code))
	pterm.Printfln("  bounding box [%.3f %.3f %.3f %.3f], advance [%.3f %.3f]",
		bbox[0], bbox[1], bbox[2], bbox[3], adv[0], adv[1])
	pterm.Printfln("  display list %d (%s)", g.DisplayList(glyph.Line), ctx.Backend().Name())
	return nil
}

func usage(u string) error {
	return core.Error(core.EPARAMETER, "usage: %s", u)
}

func intArg(args []string, i int, u string) (int, error) {
	if len(args) <= i {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, usage(u)
	}
	return n, nil
}

// runeArg reads a character given literally, as U+XXXX or 0xXXXX, or by
// its Unicode name.
func runeArg(args []string, u string) (rune, error) {
	if len(args) == 0 {
		return 0, usage(u)
	}
	arg := strings.Join(args, " ")
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	}
	upper := strings.ToUpper(arg)
	for _, prefix := range []string{"U+", "0X"} {
		if strings.HasPrefix(upper, prefix) {
			n, err := strconv.ParseInt(arg[len(prefix):], 16, 32)
			if err != nil {
				return 0, usage(u)
			}
			return rune(n), nil
		}
	}
	if r, ok := charmap.Lookup(arg); ok {
		return r, nil
	}
	return 0, core.Error(core.EPARAMETER, "unknown character %q", arg)
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	catalog+ <dir>          append a font directory
	catalog- <index>        remove a font directory
	catalogs                list font directories
	masters                 list masters
	master <id>             show faces and coverage of a master
	font <master-id>        create a font and make it current
	face <font> <style>     switch the face of a font (font 0: all current fonts)
	fonts                   list fonts
	resolve <char>          find the font for a character
	glyph <font> <char>     show glyph metrics
	quit                    leave
	`)
}
