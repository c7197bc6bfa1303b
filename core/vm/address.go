package vm

import (
	"math/bits"

	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/crypto"
)

// CreateAddress computes the address of a contract created with CREATE, per
// the Yellow Paper: addr = keccak256(rlp([sender, nonce]))[12:].
func CreateAddress(caller types.Address, nonce uint64) types.Address {
	payload := rlpList(rlpString(caller[:]), rlpUint(nonce))
	hash := crypto.Keccak256(payload)
	return types.BytesToAddress(hash[12:])
}

// Create2Address computes the address of a contract created with CREATE2:
// keccak256(0xff ++ caller ++ salt ++ keccak256(initCode))[12:].
func Create2Address(caller types.Address, salt [32]byte, initCodeHash []byte) types.Address {
	data := make([]byte, 0, 85)
	data = append(data, 0xff)
	data = append(data, caller[:]...)
	data = append(data, salt[:]...)
	data = append(data, initCodeHash...)
	hash := crypto.Keccak256(data)
	return types.BytesToAddress(hash[12:])
}

// rlpHeader returns the length-prefix header for an RLP string or list
// payload of n bytes: a single byte for n < 56, or a byte giving the
// length-of-length followed by the big-endian length itself for longer
// payloads. shortBase/longBase pick between the string prefixes (0x80,
// 0xb7) and the list prefixes (0xc0, 0xf7).
func rlpHeader(n int, shortBase, longBase byte) []byte {
	if n < 56 {
		return []byte{shortBase + byte(n)}
	}
	lenBytes := bigEndianMinimal(uint64(n))
	return append([]byte{longBase + byte(len(lenBytes))}, lenBytes...)
}

// rlpString encodes b as an RLP byte string: a lone byte under 0x80 encodes
// to itself, everything else gets a length-prefix header.
func rlpString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpHeader(len(b), 0x80, 0xb7), b...)
}

// rlpUint encodes v as an RLP byte string over its minimal big-endian
// representation (zero encodes as the empty string).
func rlpUint(v uint64) []byte {
	return rlpString(bigEndianMinimal(v))
}

// rlpList concatenates items under a single RLP list header.
func rlpList(items ...[]byte) []byte {
	var payload []byte
	for _, item := range items {
		payload = append(payload, item...)
	}
	return append(rlpHeader(len(payload), 0xc0, 0xf7), payload...)
}

// bigEndianMinimal returns v's big-endian encoding with no leading zero
// bytes; zero itself encodes as the empty slice.
func bigEndianMinimal(v uint64) []byte {
	if v == 0 {
		return nil
	}
	out := make([]byte, (bits.Len64(v)+7)/8)
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
