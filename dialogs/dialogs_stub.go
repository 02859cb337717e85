//go:build !js && !wasm

package dialogs

// Alert is a no-op outside the browser.
func Alert(msg string) {}

// Confirm always reports acceptance outside the browser.
func Confirm(msg string) bool { return true }

// Prompt always returns the empty string outside the browser.
func Prompt(msg string) string { return "" }
