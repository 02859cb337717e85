// Package dialogs adapts the browser's synchronous dialog primitives
// (window.alert/confirm/prompt) into the ambient external bindings an
// authored `import` attribute can name (spec §4.2's "ambient external
// binding"). Grounded on vcrobe-nojs-lab/dialogs/dialogs.go's
// js.Global().Call wrapping, generalized from two package-level
// functions called directly by generated code into a
// compile.ImportResolver an App wires in at Options.Imports so
// expressions can call them by name, e.g. `import="confirm"` then
// `onclick="@{ @Global.confirmed = confirm('Delete?') }"`. Alert/Confirm/Prompt
// themselves live in dialogs_js.go (js/wasm) and dialogs_stub.go
// (native), the same host-contact split as vdom/console.
package dialogs

import (
	"fmt"

	"github.com/declarui/declarui/exprlang"
)

// Resolver satisfies compile.ImportResolver: it names the three dialog
// primitives as importable identifiers, so a page opts into them via
// `bootstrap.Options{Imports: dialogs.Resolver}` rather than having them
// ambiently available everywhere. Each is wrapped as an exprlang.Func,
// the only callable shape evalCall recognizes.
func Resolver(name string) (any, bool) {
	switch name {
	case "alert":
		return exprlang.Func(func(args ...any) (any, error) {
			Alert(fmt.Sprint(arg(args, 0)))
			return nil, nil
		}), true
	case "confirm":
		return exprlang.Func(func(args ...any) (any, error) {
			return Confirm(fmt.Sprint(arg(args, 0))), nil
		}), true
	case "prompt":
		return exprlang.Func(func(args ...any) (any, error) {
			return Prompt(fmt.Sprint(arg(args, 0))), nil
		}), true
	default:
		return nil, false
	}
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return ""
}
