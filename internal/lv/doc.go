// Package lv is a small retained-mode renderer driving a partial-screen draw buffer.
//
// The renderer owns a DrawBuffer sized to a fraction of the screen. Invalid areas are tiled
// into strips that fit the buffer, each strip is rendered into a Lease and handed to the
// display Driver. The buffer is only reused once the driver releases the lease, which is the
// completion signal of a flush.
//
// A Display and its object tree must only be touched from a single goroutine (the render
// context). Clock is the one exception: it may be advanced from a timer goroutine.
package lv
