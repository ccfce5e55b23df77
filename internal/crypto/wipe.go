package crypto

import (
	"crypto/subtle"
	"runtime"
)

// Wipe overwrites every given buffer with zeros. Nil and empty slices are
// skipped. Best-effort: copies made by the runtime are out of reach.
//
//go:noinline
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
		runtime.KeepAlive(b)
	}
}
