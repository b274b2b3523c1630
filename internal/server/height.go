package server

import "time"

// HeightSource supplies the current block height for duel operations.
// Heights must be monotonically non-decreasing across the whole system; the
// duel engine itself never reads a clock.
type HeightSource interface {
	Now() uint64
}

// UnixHeight derives block heights from wall-clock Unix seconds, which are
// non-decreasing across process restarts. One block equals one second, so
// the default match timeout of 20 blocks is a 20-second forfeit window.
type UnixHeight struct{}

// Now returns the current height.
func (UnixHeight) Now() uint64 {
	return uint64(time.Now().Unix())
}

// HeightFunc adapts a plain function to a HeightSource.
type HeightFunc func() uint64

// Now returns the current height.
func (f HeightFunc) Now() uint64 {
	return f()
}
