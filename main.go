//go:build js || wasm

// Command declarui is the wasm entry point: it discovers the page's
// declarative roots and its optional global-init tag directly in the
// live document, then hands them to package bootstrap. Grounded on
// vcrobe-nojs-lab/main.go's App-setup-then-Mount shape, generalized
// from a fixed router-driven single mount to scanning the document for
// an arbitrary number of declarative roots (REDESIGN FLAGS: this
// design has no router — the URL role is fragment state sync, owned by
// package urlsync, not page navigation).
package main

import (
	"syscall/js"

	"github.com/declarui/declarui/bootstrap"
	"github.com/declarui/declarui/dialogs"
	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/urlsync"
)

// rootAttr marks an element as a declarative root; its value is the
// root's id, used to key its local namespace (spec §4.8, §4.6).
const rootAttr = "data-declar-root"

func main() {
	doc := js.Global().Get("document")

	app := bootstrap.New(bootstrap.Options{Imports: dialogs.Resolver})

	if init := doc.Call("querySelector", "global-init"); init.Truthy() {
		src := init.Get("outerHTML").String()
		if err := app.SetGlobalInit(src); err != nil {
			obs.Errorw("main: global-init failed", "error", err)
		}
		init.Get("parentNode").Call("removeChild", init)
	}

	roots := doc.Call("querySelectorAll", "["+rootAttr+"]")
	for i := 0; i < roots.Length(); i++ {
		el := roots.Index(i)
		id := el.Call("getAttribute", rootAttr).String()
		attrs := elementAttrs(el)
		childrenSrc := el.Get("innerHTML").String()

		root, err := app.MountRoot(id, attrs, childrenSrc)
		if err != nil {
			obs.Errorw("main: mount failed", "root", id, "error", err)
			continue
		}
		selector := "[" + rootAttr + "=\"" + id + "\"]"
		if err := root.MountToSelector(selector); err != nil {
			obs.Errorw("main: mount to selector failed", "root", id, "error", err)
		}
	}

	sync := urlsync.New(app.Store)
	sync.Start()

	select {}
}

func elementAttrs(el js.Value) map[string]string {
	out := map[string]string{}
	attrs := el.Get("attributes")
	for i := 0; i < attrs.Length(); i++ {
		a := attrs.Index(i)
		out[a.Get("name").String()] = a.Get("value").String()
	}
	return out
}
