// Package obs provides process-level structured logging for diagnostics
// outside the in-page console: bootstrap (including the error boundary
// around a root's render), failed event handlers and form-field writes in
// package render, URL-fragment parse failures in urlsync, and the wasm
// entry point.
//
// Pure expression evaluation never imports this package — it stays on the
// hot render path and must not pay for a logger call it doesn't need.
package obs

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	log = l.Sugar()
}

// SetLogger replaces the package logger. bootstrap.New uses this to
// install Options.Logger when the caller supplies one.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debugw logs a debug-level structured message.
func Debugw(msg string, kv ...any) { get().Debugw(msg, kv...) }

// Warnw logs a warning; used for failed event handlers and form-field
// writes, unparseable URL fragments, and an Options.Dev mismatch.
func Warnw(msg string, kv ...any) { get().Warnw(msg, kv...) }

// Errorw logs an error; used by the render error boundary on recovered panics.
func Errorw(msg string, kv ...any) { get().Errorw(msg, kv...) }
