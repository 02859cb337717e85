//go:build js || wasm

// Package console mirrors writes to the host document's console object.
// It is the in-page half of diagnostics; internal/obs is the process-level
// half used by code that has no document to write to.
package console

import (
	"syscall/js"
)

func Log(args ...interface{}) {
	console := js.Global().Get("console")
	console.Call("log", args...)
}

func Warn(args ...interface{}) {
	console := js.Global().Get("console")
	console.Call("warn", args...)
}

func Error(args ...interface{}) {
	console := js.Global().Get("console")
	console.Call("error", args...)
}
