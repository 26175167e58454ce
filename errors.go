// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package dtsp

import "errors"

var (
	// ErrNoData is returned by Decrypt when the frame is shorter than the
	// fixed protocol overhead and cannot contain a payload.
	ErrNoData = errors.New("frame shorter than minimum length")

	// ErrBadHeader is returned by Decrypt when the frame does not start with
	// the protocol header magic.
	ErrBadHeader = errors.New("header magic mismatch")

	// ErrDuplicate is returned by Decrypt when a frame with the same
	// per-frame UDID was already accepted in the current slot.
	ErrDuplicate = errors.New("frame already accepted in current slot")

	// ErrBadMAC is returned by Decrypt when the authentication tag or the
	// payload padding does not verify.
	ErrBadMAC = errors.New("message authentication failed")

	// ErrCacheFull is returned by Decrypt when the replay cache cannot grow.
	// The frame is not acknowledged and may be presented again.
	ErrCacheFull = errors.New("replay cache full")

	// ErrNilClock is returned by New when a nil clock is configured.
	ErrNilClock = errors.New("nil clock")

	// ErrInvalidCacheCapacity is returned by New when a negative replay
	// cache capacity is configured.
	ErrInvalidCacheCapacity = errors.New("cache capacity must not be negative")
)
