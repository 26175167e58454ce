// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

// Package dtsp implements the Data Transfer Security Protocol (DTSP): a
// connectionless symmetric-key message envelope with built-in replay
// protection.
//
// Peers sharing a static seed and a device identifier exchange
// self-contained frames. Key material rotates every Interval seconds,
// derived from an ISAAC stream seeded with the slot start time and the
// seed; a one-slot grace window tolerates clock skew between peers. Each
// frame carries a fresh 16-byte UDID used as the replay-cache key, an
// AES-256-CBC payload with PKCS#7 padding, and an MD5 tag binding the
// UDID, slot-local MAC seed material, and a CRC32 of the framed bytes.
//
// The frame layout, in order: a 4-byte big-endian header magic, a 1-byte
// sync value (seconds into the current slot), the 16-byte per-frame UDID,
// the ciphertext, and the 16-byte tag.
//
// The MD5-with-secret-material tag is not an HMAC and the CRC32 adds no
// cryptographic strength; the construction is preserved exactly for wire
// compatibility. The protocol's resistance rests on the unpredictability
// of the ISAAC-derived key material and the secrecy of the seed.
package dtsp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/subtle"
	"encoding/binary"
	"hash/crc32"

	"github.com/lokhman/dtsp-go/x/crypto/isaac"
)

const (
	// Interval is the slot length in seconds. The current and the previous
	// slot's key schedules are live at any time, so a frame opens when the
	// receiver's clock reads from the sender's time up to, but not
	// including, one Interval later.
	Interval = 15

	// Overhead is the fixed frame overhead in bytes: header, sync value,
	// per-frame UDID, one mandatory padding block, and the tag.
	Overhead = headerLen + syncLen + udidLen + aes.BlockSize + macLen
)

// header is the frame magic, transmitted big-endian.
const header = 0xFAF0F0E4

const (
	headerLen = 4
	syncLen   = 1
	udidLen   = 16
	macLen    = 16

	// payloadOffset is where the ciphertext starts within a frame.
	payloadOffset = headerLen + syncLen + udidLen
)

// EncryptedLen returns the frame length produced by Encrypt for a
// plaintext of n bytes: Overhead plus n rounded down to a whole block
// (PKCS#7 always adds at least one byte).
func EncryptedLen(n int) int {
	return n - n%aes.BlockSize + Overhead
}

// Engine is a DTSP endpoint. It owns the rotation state, the UDID entropy
// stream, and the slot-local replay cache, and is mutated by every Encrypt
// and Decrypt call.
//
// An Engine is not safe for concurrent use; callers must serialize access.
type Engine struct {
	seed     []byte
	udidBase [udidLen]byte

	udidCtx isaac.Context

	slot       uint32
	keyCtx     isaac.Context
	prevKeyCtx isaac.Context
	key        [32]byte
	prevKey    [32]byte

	cache replayCache
	clock func() uint32
}

// New returns an Engine for the given shared seed and device identifier.
//
// The UDID base is fixed at construction as MD5(udid || seed) and seeds the
// per-frame entropy stream. Two engines interoperate when they were
// constructed from identical seed and udid values and the receiver's clock
// reads from the sender's time up to, but not including, one Interval
// later. The seed slice is copied; udid is read only during construction.
func New(seed, udid []byte, opts ...Option) (*Engine, error) {
	cfg := defaultConfigOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.CacheCapacity < 0 {
		return nil, ErrInvalidCacheCapacity
	}

	e := &Engine{
		seed:  append([]byte(nil), seed...),
		clock: cfg.Clock,
		cache: replayCache{capacity: cfg.CacheCapacity},
	}

	h := md5.New()
	h.Write(udid)
	h.Write(e.seed)
	h.Sum(e.udidBase[:0])

	e.udidCtx.Seed(e.udidBase[:])

	return e, nil
}

// Encrypt seals plaintext into a DTSP frame of EncryptedLen(len(plaintext))
// bytes. It never fails.
func (e *Engine) Encrypt(plaintext []byte) []byte {
	frame := make([]byte, EncryptedLen(len(plaintext)))

	binary.BigEndian.PutUint32(frame, header)

	sync := e.rotate()
	frame[headerLen] = sync

	udid := e.frameUDID()
	copy(frame[headerLen+syncLen:payloadOffset], udid[:])

	ct := frame[payloadOffset : len(frame)-macLen]
	e.seal(&e.keyCtx, &e.key, sync, ct, plaintext)

	mac := deriveTag(&e.keyCtx, udid, sync, crc32.ChecksumIEEE(frame[:len(frame)-macLen]))
	copy(frame[len(frame)-macLen:], mac[:])

	return frame
}

// Decrypt verifies a DTSP frame and returns its plaintext.
//
// Frames are rejected with ErrNoData (too short), ErrBadHeader (magic
// mismatch), ErrDuplicate (UDID already accepted this slot), ErrBadMAC
// (tag or padding failure, including frames older than the grace window),
// or ErrCacheFull (replay cache at capacity; the frame is not acknowledged
// and the cache is untouched).
func (e *Engine) Decrypt(frame []byte) ([]byte, error) {
	if len(frame) < Overhead {
		return nil, ErrNoData
	}
	if binary.BigEndian.Uint32(frame) != header {
		return nil, ErrBadHeader
	}

	sync := frame[headerLen]
	var udid [udidLen]byte
	copy(udid[:], frame[headerLen+syncLen:payloadOffset])

	// The cache is slot-local, so the replay check precedes the rotation
	// step: rotation would purge the very entries it consults.
	if e.cache.contains(udid) {
		return nil, ErrDuplicate
	}

	// The state array carries IV and MAC-seed material for Interval sync
	// values only; no genuine frame exceeds it.
	if sync >= Interval {
		return nil, ErrBadMAC
	}

	// A frame carrying a sync value ahead of ours was sealed in the
	// previous slot, observed after this side rolled over.
	keyCtx, key := &e.keyCtx, &e.key
	if sync > e.rotate() {
		keyCtx, key = &e.prevKeyCtx, &e.prevKey
	}

	mac := deriveTag(keyCtx, udid, sync, crc32.ChecksumIEEE(frame[:len(frame)-macLen]))
	if subtle.ConstantTimeCompare(frame[len(frame)-macLen:], mac[:]) != 1 {
		return nil, ErrBadMAC
	}

	ct := frame[payloadOffset : len(frame)-macLen]
	if len(ct)%aes.BlockSize != 0 {
		return nil, ErrBadMAC
	}

	if err := e.cache.insert(udid); err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ct))
	iv := deriveIV(keyCtx, sync)
	block, _ := aes.NewCipher(key[:])
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(plaintext, ct)

	plaintext, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		return nil, ErrBadMAC
	}
	return plaintext, nil
}

// Close releases the replay cache and wipes the key material. The Engine
// must not be used afterwards.
func (e *Engine) Close() {
	e.cache.clear()
	e.key = [32]byte{}
	e.prevKey = [32]byte{}
}

// rotate advances the key schedule to the slot containing the current
// wall-clock time and returns the sync value (seconds into that slot).
//
// When the slot changes, the previous schedule is shifted down (or
// re-derived, if more than one slot elapsed), the current schedule is
// seeded from the big-endian slot time concatenated with the seed, and the
// replay cache is purged. When the slot is unchanged this is a no-op.
func (e *Engine) rotate() byte {
	t := e.clock()
	sync := byte(t % Interval)
	slot := t - uint32(sync)
	if slot == e.slot {
		return sync
	}

	buf := make([]byte, 4+len(e.seed))
	copy(buf[4:], e.seed)

	if prev := slot - Interval; prev == e.slot {
		e.prevKeyCtx = e.keyCtx
		e.prevKey = e.key
	} else {
		binary.BigEndian.PutUint32(buf, prev)
		e.prevKeyCtx.Seed(buf)
		deriveKey(&e.prevKeyCtx, &e.prevKey)
	}

	e.slot = slot

	binary.BigEndian.PutUint32(buf, slot)
	e.keyCtx.Seed(buf)
	deriveKey(&e.keyCtx, &e.key)

	e.cache.clear()

	return sync
}

// frameUDID derives a fresh per-frame UDID from the UDID base, the next
// word of the UDID entropy stream, and the current wall-clock time.
//
// The two 32-bit words are hashed little-endian; this is a protocol
// constant (the reference implementation folds them in host byte order).
func (e *Engine) frameUDID() [udidLen]byte {
	var buf [udidLen + 8]byte
	copy(buf[:udidLen], e.udidBase[:])
	binary.LittleEndian.PutUint32(buf[udidLen:], e.udidCtx.Uint32())
	binary.LittleEndian.PutUint32(buf[udidLen+4:], e.clock())
	return md5.Sum(buf[:])
}

// seal writes the AES-256-CBC ciphertext of plaintext, PKCS#7 padded, into
// ct using the schedule's key and the slot IV for sync.
func (e *Engine) seal(keyCtx *isaac.Context, key *[32]byte, sync byte, ct, plaintext []byte) {
	iv := deriveIV(keyCtx, sync)
	block, _ := aes.NewCipher(key[:])
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ct, pkcs7Pad(plaintext, aes.BlockSize))
}

// deriveKey serializes the first 8 state words of a freshly seeded slot
// context as the big-endian 32-byte AES key.
func deriveKey(ctx *isaac.Context, key *[32]byte) {
	for i := 0; i < 8; i++ {
		binary.BigEndian.PutUint32(key[4*i:], ctx.Word(i))
	}
}

// deriveIV serializes state words [32+sync, 32+sync+3] as the big-endian
// CBC initialisation vector for the given sync value.
func deriveIV(ctx *isaac.Context, sync byte) [aes.BlockSize]byte {
	var iv [aes.BlockSize]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint32(iv[4*i:], ctx.Word(32+int(sync)+i))
	}
	return iv
}

// deriveTag computes the frame MAC: MD5 over the per-frame UDID, the
// 28-byte MAC seed at state words [128+sync, 128+sync+6], and the
// big-endian CRC32 of the framed bytes.
func deriveTag(ctx *isaac.Context, udid [udidLen]byte, sync byte, crc uint32) [macLen]byte {
	var buf [udidLen + 28 + 4]byte
	copy(buf[:udidLen], udid[:])
	for i := 0; i < 7; i++ {
		binary.BigEndian.PutUint32(buf[udidLen+4*i:], ctx.Word(128+int(sync)+i))
	}
	binary.BigEndian.PutUint32(buf[udidLen+28:], crc)
	return md5.Sum(buf[:])
}
