package util

import "sync/atomic"

// SafeFlag is a bool safe to use concurrently.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeBool creates a new SafeFlag.
func NewSafeBool() *SafeFlag {
	return &SafeFlag{}
}

// Value returns the current value of the flag.
func (f *SafeFlag) Value() bool {
	return f.value.Load()
}

// TryAcquire flips the flag from false to true. It reports whether this call did the flip,
// which makes the flag usable as a non-blocking in-flight guard.
func (f *SafeFlag) TryAcquire() bool {
	return f.value.CompareAndSwap(false, true)
}

// Release clears the flag.
func (f *SafeFlag) Release() {
	f.value.Store(false)
}

// Generation is a monotonically increasing counter. Work captures the current
// generation when it starts and checks Current before publishing results.
type Generation struct {
	value atomic.Uint64
}

// Next advances the generation and returns the new value.
func (g *Generation) Next() uint64 {
	return g.value.Add(1)
}

// Current returns the current generation.
func (g *Generation) Current() uint64 {
	return g.value.Load()
}

// IsCurrent reports whether gen is still the current generation.
func (g *Generation) IsCurrent(gen uint64) bool {
	return g.value.Load() == gen
}
