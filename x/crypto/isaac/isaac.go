// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

// Package isaac implements Bob Jenkins' ISAAC pseudo-random number generator
// with a 256-word state, seeded deterministically from a byte string.
//
// The generator exposes two views of its state and both are part of the DTSP
// wire format:
//
//   - Word returns the raw state array in slot order as it stands after the
//     last refill. Key, IV, and MAC-seed derivations index into this view.
//   - Uint32 consumes the same array from the highest index downwards,
//     refilling when exhausted. Per-frame entropy is drawn from this view.
//
// This package is part of the experimental "x" modules and may be subject to change.
package isaac

import "encoding/binary"

// Size is the ISAAC state size in 32-bit words.
const Size = 256

const phi = 0x9e3779b9 // golden ratio

// Context holds the full generator state. The zero value is not usable;
// call Seed (or New) before drawing output. Context is a plain value: an
// assignment produces an independent snapshot of the stream.
//
// Context is not safe for concurrent use.
type Context struct {
	n       int
	a, b, c uint32
	r       [Size]uint32
	m       [Size]uint32
}

// New returns a Context seeded from the given byte string.
func New(seed []byte) *Context {
	ctx := &Context{}
	ctx.Seed(seed)
	return ctx
}

// Seed resets the Context and seeds it from the given byte string.
//
// Seed bytes are copied into the state words in little-endian order and
// zero-padded; input beyond Size*4 bytes is ignored. The state is then mixed
// with the standard golden-ratio schedule (two passes) and one refill round
// is run, so Word immediately reflects the first output batch.
func (ctx *Context) Seed(seed []byte) {
	*ctx = Context{}

	var buf [Size * 4]byte
	copy(buf[:], seed)
	for i := range ctx.r {
		ctx.r[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}

	var s [8]uint32
	for i := range s {
		s[i] = phi
	}
	for i := 0; i < 4; i++ {
		mix(&s)
	}

	for i := 0; i < Size; i += 8 {
		for j, w := range ctx.r[i : i+8] {
			s[j] += w
		}
		mix(&s)
		copy(ctx.m[i:i+8], s[:])
	}
	for i := 0; i < Size; i += 8 {
		for j, w := range ctx.m[i : i+8] {
			s[j] += w
		}
		mix(&s)
		copy(ctx.m[i:i+8], s[:])
	}

	ctx.update()
}

// Uint32 returns the next 32-bit number from the output stream. The stream
// is consumed from the end of the state array; after Size draws the state
// is refilled, which also advances the Word view.
func (ctx *Context) Uint32() uint32 {
	if ctx.n == 0 {
		ctx.update()
	}
	ctx.n--
	return ctx.r[ctx.n]
}

// Word returns the i-th word of the raw state array as produced by the last
// refill, independent of how much of the stream Uint32 has consumed.
// i must be in [0, Size).
func (ctx *Context) Word(i int) uint32 {
	return ctx.r[i]
}

// update runs one ISAAC round, refilling the output array.
func (ctx *Context) update() {
	a, b := ctx.a, ctx.b
	ctx.c++
	b += ctx.c

	m := &ctx.m
	ri := 0
	step := func(i, j int, mixed uint32) {
		x := m[i]
		a = (a ^ mixed) + m[j]
		y := m[(x>>2)&(Size-1)] + a + b
		m[i] = y
		b = m[(y>>10)&(Size-1)] + x
		ctx.r[ri] = b
		ri++
	}

	for i := 0; i < Size/2; i += 4 {
		step(i, Size/2+i, a<<13)
		step(i+1, Size/2+i+1, a>>6)
		step(i+2, Size/2+i+2, a<<2)
		step(i+3, Size/2+i+3, a>>16)
	}
	for i := Size / 2; i < Size; i += 4 {
		step(i, i-Size/2, a<<13)
		step(i+1, i-Size/2+1, a>>6)
		step(i+2, i-Size/2+2, a<<2)
		step(i+3, i-Size/2+3, a>>16)
	}

	ctx.n = Size
	ctx.a, ctx.b = a, b
}

func mix(s *[8]uint32) {
	s[0] ^= s[1] << 11
	s[3] += s[0]
	s[1] += s[2]
	s[1] ^= s[2] >> 2
	s[4] += s[1]
	s[2] += s[3]
	s[2] ^= s[3] << 8
	s[5] += s[2]
	s[3] += s[4]
	s[3] ^= s[4] >> 16
	s[6] += s[3]
	s[4] += s[5]
	s[4] ^= s[5] << 10
	s[7] += s[4]
	s[5] += s[6]
	s[5] ^= s[6] >> 4
	s[0] += s[5]
	s[6] += s[7]
	s[6] ^= s[7] << 8
	s[1] += s[6]
	s[7] += s[0]
	s[7] ^= s[0] >> 9
	s[2] += s[7]
	s[0] += s[1]
}
