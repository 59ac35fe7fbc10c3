//go:build drawlistdebug

package debug

// Enabled reports whether assertions panic.
const Enabled = true

// Assert panics with msg when cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic("drawlist: assertion failed: " + msg)
	}
}
