//go:build !debug

package assertx

// Holds is a no-op outside debug builds; see holds_debug.go.
func Holds(cond bool, format string, args ...any) {}
