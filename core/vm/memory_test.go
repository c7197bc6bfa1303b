package vm

import (
	"bytes"
	"testing"

	"github.com/octanevm/octane/core/word"
)

func TestMemory_WriteRead(t *testing.T) {
	m := NewMemory()
	m.Write(0, []byte{1, 2, 3})
	got := m.Read(0, 3)
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("Read(0,3) = %v, want [1 2 3]", got)
	}
}

func TestMemory_ReadGrowsAndZeroFills(t *testing.T) {
	m := NewMemory()
	got := m.Read(10, 4)
	if !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Fatalf("Read of unvisited offset = %v, want zeros", got)
	}
	if m.Len() == 0 {
		t.Fatalf("Len() = 0 after growing read")
	}
}

// Mstore8 at offset 5 followed by Mload(0) should place the byte at the
// 6th byte of the loaded word (big-endian).
func TestMemory_Write8ThenRead32(t *testing.T) {
	m := NewMemory()
	m.Write8(5, 0xAB)
	w := m.Read32(0)
	b := w.Bytes32()
	if b[5] != 0xAB {
		t.Fatalf("byte at offset 5 = 0x%x, want 0xab", b[5])
	}
	for i, v := range b {
		if i != 5 && v != 0 {
			t.Fatalf("byte at offset %d = 0x%x, want 0", i, v)
		}
	}
}

func TestMemory_Write32(t *testing.T) {
	m := NewMemory()
	m.Write32(0, word.FromUint64(0x1234))
	w := m.Read32(0)
	if w.Uint64() != 0x1234 {
		t.Fatalf("Read32(0) = 0x%x, want 0x1234", w.Uint64())
	}
}

func TestMemory_CopyOverlap(t *testing.T) {
	m := NewMemory()
	m.Write(0, []byte{1, 2, 3, 4, 5})
	m.Copy(1, 0, 4) // shift right by one
	got := m.Read(0, 5)
	if !bytes.Equal(got, []byte{1, 1, 2, 3, 4}) {
		t.Fatalf("Copy overlap = %v, want [1 1 2 3 4]", got)
	}
}

func TestMemory_ReadZeroLength(t *testing.T) {
	m := NewMemory()
	if got := m.Read(0, 0); got != nil {
		t.Fatalf("Read(0,0) = %v, want nil", got)
	}
}
