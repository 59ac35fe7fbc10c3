// Package debug holds development-time invariant checks.
//
// Assertions guard programmer errors only: mutually exclusive text flags,
// gradient axis assumptions, atlas element-size limits, buffer-pool misuse.
// They panic when the module is built with the drawlistdebug tag and compile
// to nothing otherwise, so a production binary never crashes on them.
//
//	go test -tags drawlistdebug ./...
package debug
