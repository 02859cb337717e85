//go:build js || wasm
// +build js wasm

package bootstrap

import (
	"fmt"
	"syscall/js"

	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/vdom"
)

// MountToSelector mounts the root under selector's first match and
// installs the store-driven rerender+patch loop shared by every root on
// the page (spec §6: "a mount primitive that takes a render function
// and a container and invokes it on every notification batch").
func (r *Root) MountToSelector(selector string) error {
	doc := js.Global().Get("document")
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		return fmt.Errorf("bootstrap: mount element not found for selector %q", selector)
	}
	r.mountEl = mount

	tree, err := r.renderTree()
	if err != nil {
		return err
	}
	vdom.RenderTo(mount, tree)
	r.lastTree = tree

	r.app.installRerenderHook()
	return nil
}

func (r *Root) renderTree() (*vdom.VNode, error) {
	children, err := r.Render()
	if err != nil {
		return nil, err
	}
	return vdom.NewFragment(r.id, children), nil
}

func (r *Root) rerenderAndPatch() {
	tree, err := r.renderTree()
	if err != nil {
		obs.Errorw("bootstrap: root render failed", "root", r.id, "error", err)
		return
	}
	mount, ok := r.mountEl.(js.Value)
	if !ok {
		return
	}
	vdom.Patch(mount, r.lastTree, tree)
	r.lastTree = tree
}

// installRerenderHook wires the store's dirty notification to a
// microtask-batched rerender of every mounted root, exactly once per
// App (spec §5: state mutations within one effect evaluation are
// grouped; the resulting rerender observes all of them atomically).
func (a *App) installRerenderHook() {
	a.mu.Lock()
	if a.hookInstalled {
		a.mu.Unlock()
		return
	}
	a.hookInstalled = true
	a.mu.Unlock()

	a.Store.OnDirty(func() {
		var cb js.Func
		cb = js.FuncOf(func(this js.Value, args []js.Value) any {
			defer cb.Release()
			a.Store.Flush()
			a.mu.Lock()
			roots := make([]*Root, 0, len(a.roots))
			for _, r := range a.roots {
				roots = append(roots, r)
			}
			a.mu.Unlock()
			for _, r := range roots {
				r.rerenderAndPatch()
			}
			return nil
		})
		js.Global().Call("queueMicrotask", cb)
	})
}
