//go:build js || wasm

package dialogs

import "syscall/js"

// Alert shows a blocking window.alert.
func Alert(msg string) {
	js.Global().Call("alert", msg)
}

// Confirm shows a blocking window.confirm and reports the user's choice.
func Confirm(msg string) bool {
	return js.Global().Call("confirm", msg).Bool()
}

// Prompt shows a blocking window.prompt and returns the entered text,
// or the empty string if the user cancelled.
func Prompt(msg string) string {
	result := js.Global().Call("prompt", msg)
	if !result.Truthy() {
		return ""
	}
	return result.String()
}
