// Package assertx provides invariant checks that panic in debug builds
// and compile away to nothing otherwise, in the spirit of FrankyGo's
// assert.Assert helper.
package assertx
