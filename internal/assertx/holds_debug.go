//go:build debug

package assertx

import "fmt"

// Holds panics with the formatted message if cond is false. Only compiled
// in with -tags debug; release builds get the no-op in holds.go instead.
func Holds(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
