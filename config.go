// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package dtsp

import "time"

// Option defines a function type for configuring an Engine.
type Option func(*ConfigOptions)

// ConfigOptions holds the configurable options for an Engine.
// It is used with the Function Options pattern.
type ConfigOptions struct {
	// Clock returns the current wall-clock time in seconds. It drives the
	// key rotation schedule and the per-frame UDID derivation and is read
	// on every Encrypt and Decrypt call.
	//
	// By default it reads time.Now. Tests pin it to exercise slot
	// boundaries deterministically; both peers of a conversation must
	// observe clocks that agree within one Interval.
	Clock func() uint32

	// CacheCapacity bounds the number of per-frame UDIDs the replay cache
	// retains within a slot. Decrypt returns ErrCacheFull for frames that
	// would grow the cache beyond the bound.
	//
	// Zero (the default) means unbounded: the cache is purged on every
	// slot rotation, so it is bounded in practice by the frame rate.
	CacheCapacity int
}

// WithClock sets a custom wall-clock source for the Engine.
func WithClock(clock func() uint32) Option {
	return func(c *ConfigOptions) {
		c.Clock = clock
	}
}

// WithCacheCapacity bounds the replay cache to n entries per slot.
func WithCacheCapacity(n int) Option {
	return func(c *ConfigOptions) {
		c.CacheCapacity = n
	}
}

func defaultConfigOptions() *ConfigOptions {
	return &ConfigOptions{
		Clock: func() uint32 {
			return uint32(time.Now().Unix())
		},
	}
}
