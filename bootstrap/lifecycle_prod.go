//go:build !dev

package bootstrap

import (
	"fmt"

	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/vdom"
)

// isDevBuild records which lifecycle file this binary was compiled
// with, so New can warn when a page's Options.Dev config disagrees
// with the actual compiled policy (see options.go).
const isDevBuild = false

// renderWithPolicy recovers a panic from fn in production mode, logs
// it, and swaps in a vdom.ErrorIndicator in place of the panicked
// subtree instead of crashing the page (SUPPLEMENTED FEATURES:
// "the render's error boundary recovers it and swaps in an
// error-indicator node"), mirroring
// vcrobe-nojs-lab/runtime/renderer_prod.go's recover-and-log lifecycle
// calls.
func renderWithPolicy(fn func() ([]*vdom.VNode, error), rootID string) (result []*vdom.VNode, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("root %q render panicked: %v", rootID, rec)
			obs.Errorw("root render panic", "root", rootID, "panic", rec)
			result = []*vdom.VNode{vdom.ErrorIndicator(rootID, msg)}
			err = nil
		}
	}()
	return fn()
}
