/*
Package glcontext implements GLC contexts and the process-wide registry of
contexts.

A context holds everything a client renders text with: the font database
with its catalogs (font directories), the table of masters found in it, the
fonts created by the client or on demand, and rendering state. The central
service of a context is ResolveFont, which finds the font to render a
character code with.

Contexts are not safe for concurrent use. A context is current to at most
one Thread at a time, and only that thread should use it. Threads are
created by a Registry, which owns all contexts:

	reg := glcontext.NewRegistry(conf)
	t := reg.NewThread()
	id, _ := t.GenContext()
	t.MakeCurrent(id)
	t.Do(func(ctx *glcontext.Context) error {
	    _, err := ctx.ResolveFont('A')
	    return err
	})

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glcontext

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'glc.context'
func tracer() tracing.Trace {
	return tracing.Select("glc.context")
}
