//go:build dev

package bootstrap

import "github.com/declarui/declarui/vdom"

// isDevBuild records which lifecycle file this binary was compiled
// with, so New can warn when a page's Options.Dev config disagrees
// with the actual compiled policy (see options.go).
const isDevBuild = true

// renderWithPolicy runs fn directly in dev mode: panics propagate to
// aid debugging and fast failure, mirroring
// vcrobe-nojs-lab/runtime/renderer_dev.go's dev-mode lifecycle calls.
func renderWithPolicy(fn func() ([]*vdom.VNode, error), rootID string) ([]*vdom.VNode, error) {
	return fn()
}
