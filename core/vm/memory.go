package vm

import "github.com/octanevm/octane/core/word"

// memoryWordSize is the unit memory grows by; expansion is word-aligned.
const memoryWordSize = 32

// Memory is byte-addressable and auto-growing: any access beyond the
// current length extends the backing store with zero bytes, rounded up to
// a whole number of 32-byte words, rather than panicking.
type Memory struct {
	store []byte
}

// NewMemory returns a new empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current length of memory in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Data returns the full backing slice. Callers must not retain it past the
// next mutating call.
func (m *Memory) Data() []byte { return m.store }

// grow extends the store so that it is at least size bytes long, rounding
// up to a whole number of words.
func (m *Memory) grow(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	words := (size + memoryWordSize - 1) / memoryWordSize
	newLen := words * memoryWordSize
	grown := make([]byte, newLen)
	copy(grown, m.store)
	m.store = grown
}

// Write copies value into memory starting at offset, growing memory as
// needed.
func (m *Memory) Write(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	m.grow(offset + uint64(len(value)))
	copy(m.store[offset:], value)
}

// Write8 writes a single byte at offset, growing memory as needed.
func (m *Memory) Write8(offset uint64, b byte) {
	m.grow(offset + 1)
	m.store[offset] = b
}

// Write32 writes val as a 32-byte big-endian word at offset, growing memory
// as needed.
func (m *Memory) Write32(offset uint64, val *word.Word) {
	m.grow(offset + 32)
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Read returns a copy of the size bytes starting at offset, growing memory
// as needed so the read never goes out of bounds.
func (m *Memory) Read(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.grow(offset + size)
	out := make([]byte, size)
	copy(out, m.store[offset:offset+size])
	return out
}

// Read32 returns the 32-byte word starting at offset, growing memory as
// needed.
func (m *Memory) Read32(offset uint64) *word.Word {
	return word.FromBytes(m.Read(offset, 32))
}

// Copy copies size bytes from srcOffset to dstOffset within memory,
// growing memory as needed and handling overlap correctly (Go's builtin
// copy already copies in the safe direction for overlapping slices).
func (m *Memory) Copy(dstOffset, srcOffset, size uint64) {
	if size == 0 {
		return
	}
	end := dstOffset + size
	if srcOffset+size > end {
		end = srcOffset + size
	}
	m.grow(end)
	copy(m.store[dstOffset:dstOffset+size], m.store[srcOffset:srcOffset+size])
}
