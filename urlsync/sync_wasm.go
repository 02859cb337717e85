//go:build js || wasm
// +build js wasm

package urlsync

import (
	"strings"
	"syscall/js"

	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/reactive"
)

const urlNamespace = "url"

// Sync wires package urlsync's pure fragment logic to a live document
// and reactive.Store: it owns the hashchange listener (inbound) and the
// store subscription on the url namespace (outbound), per spec §4.7.
type Sync struct {
	store       *reactive.Store
	hashCB      js.Func
	microtask   js.Func
	unsubscribe func()
	lastWritten string
	hasWritten  bool
}

// New builds a Sync over store. Call Start to begin listening.
func New(store *reactive.Store) *Sync {
	return &Sync{store: store}
}

// Start performs the initial inbound parse (page load), then installs
// the hashchange listener and the outbound store subscription.
func (s *Sync) Start() {
	s.store.EnsureNamespace(urlNamespace, nil)
	s.inbound()

	s.hashCB = js.FuncOf(func(this js.Value, args []js.Value) any {
		s.inbound()
		return nil
	})
	js.Global().Get("window").Call("addEventListener", "hashchange", s.hashCB)

	s.unsubscribe = s.store.Subscribe(urlNamespace, s.scheduleOutbound)
}

// Stop releases the DOM listener and store subscription.
func (s *Sync) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	js.Global().Get("window").Call("removeEventListener", "hashchange", s.hashCB)
	s.hashCB.Release()
}

func (s *Sync) inbound() {
	hash := js.Global().Get("location").Get("hash").String()
	// A hashchange fired by our own outbound replaceState (some hosts
	// do, though real browsers don't for replaceState specifically) is
	// not a navigation the url namespace needs re-parsed from — it is
	// this Sync's own write echoing back.
	if s.hasWritten && hash == s.lastWritten {
		return
	}
	data, err := ParseFragment(hash)
	if err != nil {
		obs.Warnw("urlsync: failed to parse URL fragment", "fragment", hash, "error", err)
		return
	}
	s.store.ResetNamespace(urlNamespace, data)
}

// scheduleOutbound debounces the outbound write onto a microtask, per
// spec §5's "URL-namespace writes triggered by the outbound
// synchronizer are debounced via microtasks".
func (s *Sync) scheduleOutbound() {
	if s.microtask.Truthy() {
		return
	}
	s.microtask = js.FuncOf(func(this js.Value, args []js.Value) any {
		s.microtask = js.Func{}
		s.outbound()
		return nil
	})
	js.Global().Call("queueMicrotask", s.microtask)
}

func (s *Sync) outbound() {
	ns := s.store.EnsureNamespace(urlNamespace, nil)
	fragment := BuildFragment(ns, discoverLists())
	current := js.Global().Get("location").Get("hash").String()
	if fragment == current || (fragment == "" && current == "") {
		return
	}
	s.lastWritten = fragment
	s.hasWritten = true
	history := js.Global().Get("history")
	loc := js.Global().Get("location")
	path := loc.Get("pathname").String() + loc.Get("search").String() + fragment
	history.Call("replaceState", js.Null(), "", path)
}

// discoverLists walks the live document for every URL-annotation
// container render/url.go emitted, collecting their included/transient
// data-attribute lists (spec §4.7: "the renderer emits neutral
// container nodes ... so the synchronizer can discover them in the live
// DOM").
func discoverLists() []List {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil
	}
	nodes := doc.Call("querySelectorAll", "[data-url-included],[data-url-transient]")
	n := nodes.Get("length").Int()
	lists := make([]List, 0, n)
	for i := 0; i < n; i++ {
		el := nodes.Index(i)
		lists = append(lists, List{
			Included:  splitAttr(el, "data-url-included"),
			Transient: splitAttr(el, "data-url-transient"),
		})
	}
	return lists
}

func splitAttr(el js.Value, name string) []string {
	v := el.Call("getAttribute", name)
	if !v.Truthy() {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v.String(), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
