// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package isaac

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDeterministic verifies that identical seeds produce identical
// streams: the entire protocol rests on both peers deriving the same
// state from (slot || seed).
func TestDeterministic(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := New([]byte("the quick brown fox"))
	b := New([]byte("the quick brown fox"))

	for i := 0; i < 4*Size; i++ {
		is.Equal(a.Uint32(), b.Uint32(), "streams diverged at draw %d", i)
	}
}

// TestSeedDivergence verifies that distinct seeds produce distinct streams
// and distinct state views.
func TestSeedDivergence(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := New([]byte("seed one"))
	b := New([]byte("seed two"))

	var sameWords, sameDraws int
	for i := 0; i < Size; i++ {
		if a.Word(i) == b.Word(i) {
			sameWords++
		}
		if a.Uint32() == b.Uint32() {
			sameDraws++
		}
	}
	is.Less(sameWords, 8)
	is.Less(sameDraws, 8)
}

// TestStreamConsumesStateFromEnd verifies the relation between the two
// state views: the stream pops the raw state array from the highest index
// downwards.
func TestStreamConsumesStateFromEnd(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	ctx := New([]byte("view relation"))

	var words [Size]uint32
	for i := range words {
		words[i] = ctx.Word(i)
	}

	for i := Size - 1; i >= 0; i-- {
		is.Equal(words[i], ctx.Uint32())
	}
}

// TestWordStableWhileConsuming verifies that drawing from the stream does
// not disturb the raw state view until a refill: key derivations read
// Word while frame entropy is drawn concurrently from a sibling context.
func TestWordStableWhileConsuming(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	ctx := New([]byte("stable words"))

	var before [Size]uint32
	for i := range before {
		before[i] = ctx.Word(i)
	}

	for i := 0; i < Size-1; i++ {
		ctx.Uint32()
	}
	for i := range before {
		is.Equal(before[i], ctx.Word(i))
	}
}

// TestRefill verifies that exhausting the stream refills the state: the
// next batch differs from the first and the Word view advances with it.
func TestRefill(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	ctx := New([]byte("refill"))

	first := make([]uint32, Size)
	for i := range first {
		first[i] = ctx.Uint32()
	}

	next := ctx.Uint32()
	is.Equal(ctx.Word(Size-1), next, "refill must renew the Word view before the draw")
	is.NotEqual(first[0], next)
}

// TestSeedZeroPadding pins the seeding discipline: seed bytes are copied
// over a zeroed state, so a seed and its zero-padded extension are
// equivalent. Wire compatibility depends on this exact behavior.
func TestSeedZeroPadding(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := New([]byte("abc"))
	b := New([]byte("abc\x00\x00"))

	for i := 0; i < Size; i++ {
		is.Equal(a.Uint32(), b.Uint32())
	}
}

// TestSeedTruncation verifies that seed input beyond the state size is
// ignored rather than wrapped.
func TestSeedTruncation(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	long := bytes.Repeat([]byte{0x5A}, 4*Size+100)
	a := New(long)
	b := New(long[:4*Size])

	for i := 0; i < Size; i++ {
		is.Equal(a.Uint32(), b.Uint32())
	}
}

// TestValueSemantics verifies that assigning a Context snapshots the
// stream: the previous-slot schedule is kept as a plain copy.
func TestValueSemantics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := New([]byte("snapshot"))
	a.Uint32()

	snapshot := *a

	for i := 0; i < 2*Size; i++ {
		is.Equal(a.Uint32(), snapshot.Uint32())
	}
}

// TestReseedResets verifies that Seed fully resets a used Context.
func TestReseedResets(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := New([]byte("reset"))
	for i := 0; i < 100; i++ {
		a.Uint32()
	}
	a.Seed([]byte("reset"))

	b := New([]byte("reset"))
	for i := 0; i < 2*Size; i++ {
		is.Equal(b.Uint32(), a.Uint32())
	}
}

// BenchmarkUint32 benchmarks stream draws, amortizing the refill.
func BenchmarkUint32(b *testing.B) {
	b.ReportAllocs()

	ctx := New([]byte("benchmark"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ctx.Uint32()
	}
}

// BenchmarkSeed benchmarks full reseeding, the per-slot rotation cost.
func BenchmarkSeed(b *testing.B) {
	b.ReportAllocs()

	seed := []byte("\x00\x00\x00\x01benchmark seed")
	var ctx Context

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.Seed(seed)
	}
}
