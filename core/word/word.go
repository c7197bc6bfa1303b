// Package word implements the 256-bit machine word used throughout the
// interpreter: wrap-around unsigned arithmetic with two's-complement
// reinterpretation for the signed operations (SDIV, SMOD, SLT, SGT, SAR,
// SIGNEXTEND). It is a thin layer over github.com/holiman/uint256, the
// fixed-width 256-bit integer type used by production EVM implementations
// for exactly this purpose — in-place arithmetic with no per-operation heap
// allocation, unlike math/big.Int.
package word

import (
	"github.com/holiman/uint256"

	"github.com/octanevm/octane/core/types"
)

// Word is a 256-bit machine word. Bit 0 is the least-significant bit; bit
// 255 is the sign bit under the two's-complement reinterpretation used by
// the signed operations.
type Word = uint256.Int

// Zero returns the zero word.
func Zero() *Word { return new(Word) }

// FromUint64 returns the word with value n.
func FromUint64(n uint64) *Word { return new(Word).SetUint64(n) }

// FromBig returns a copy of x.
func FromBig(x *uint256.Int) *Word { return new(Word).Set(x) }

// FromBytes interprets b as a big-endian integer, using only the low 32
// bytes if b is longer.
func FromBytes(b []byte) *Word { return new(Word).SetBytes(b) }

// ToHash renders w as a 32-byte big-endian types.Hash.
func ToHash(w *Word) types.Hash {
	b := w.Bytes32()
	return types.Hash(b)
}

// FromHash interprets h as a big-endian Word.
func FromHash(h types.Hash) *Word {
	return new(Word).SetBytes32(h[:])
}

// ToAddress renders the low 20 bytes of w as a types.Address.
func ToAddress(w *Word) types.Address {
	b := w.Bytes32()
	return types.BytesToAddress(b[12:])
}

// FromAddress left-pads a into a 32-byte Word.
func FromAddress(a types.Address) *Word {
	return new(Word).SetBytes(a[:])
}

// Add returns (x+y) mod 2^256.
func Add(x, y *Word) *Word { return new(Word).Add(x, y) }

// Sub returns (x-y) mod 2^256.
func Sub(x, y *Word) *Word { return new(Word).Sub(x, y) }

// Mul returns (x*y) mod 2^256.
func Mul(x, y *Word) *Word { return new(Word).Mul(x, y) }

// Div returns the unsigned quotient x/y, or zero if y is zero.
func Div(x, y *Word) *Word { return new(Word).Div(x, y) }

// Mod returns the unsigned remainder x%y, or zero if y is zero.
func Mod(x, y *Word) *Word { return new(Word).Mod(x, y) }

// SDiv returns the two's-complement signed quotient x/y. Division by zero
// yields zero; the most-negative value divided by -1 yields itself (the
// mathematical result overflows back to the same bit pattern mod 2^256).
func SDiv(x, y *Word) *Word { return new(Word).SDiv(x, y) }

// SMod returns the two's-complement signed remainder x%y, or zero if y is
// zero.
func SMod(x, y *Word) *Word { return new(Word).SMod(x, y) }

// AddMod returns (x+y) mod m, or zero if m is zero.
func AddMod(x, y, m *Word) *Word { return new(Word).AddMod(x, y, m) }

// MulMod returns (x*y) mod m, or zero if m is zero.
func MulMod(x, y, m *Word) *Word { return new(Word).MulMod(x, y, m) }

// Exp returns base**exponent mod 2^256. uint256's Exp is a fixed-width
// operation by construction, so it cannot saturate like an arbitrary-
// precision exponentiation would.
func Exp(base, exponent *Word) *Word { return new(Word).Exp(base, exponent) }

// SignExtend implements SIGNEXTEND(k, x): when k<31, bit (8k+7) of x is
// replicated upward through bit 255; when k>=31, x is returned unchanged.
func SignExtend(k, x *Word) *Word { return new(Word).ExtendSign(x, k) }

// Byte returns the i-th byte of x counting from the most-significant end,
// or zero when i >= 32.
func Byte(i, x *Word) *Word {
	z := new(Word).Set(x)
	return z.Byte(i)
}

// Not returns the bitwise complement of x.
func Not(x *Word) *Word { return new(Word).Not(x) }

// And, Or, Xor are the bitwise operations.
func And(x, y *Word) *Word { return new(Word).And(x, y) }
func Or(x, y *Word) *Word  { return new(Word).Or(x, y) }
func Xor(x, y *Word) *Word { return new(Word).Xor(x, y) }

// Lt, Gt, Eq are unsigned comparisons.
func Lt(x, y *Word) bool { return x.Lt(y) }
func Gt(x, y *Word) bool { return x.Gt(y) }
func Eq(x, y *Word) bool { return x.Eq(y) }

// Slt, Sgt are two's-complement signed comparisons.
func Slt(x, y *Word) bool { return x.Slt(y) }
func Sgt(x, y *Word) bool { return x.Sgt(y) }

// IsZero reports whether x is the zero word.
func IsZero(x *Word) bool { return x.IsZero() }

// Shl returns x shifted left by n bits, or zero when n >= 256.
func Shl(n, x *Word) *Word {
	if !n.IsUint64() || n.Uint64() >= 256 {
		return Zero()
	}
	return new(Word).Lsh(x, uint(n.Uint64()))
}

// Shr returns x logically shifted right by n bits, or zero when n >= 256.
func Shr(n, x *Word) *Word {
	if !n.IsUint64() || n.Uint64() >= 256 {
		return Zero()
	}
	return new(Word).Rsh(x, uint(n.Uint64()))
}

// Sar returns x arithmetically shifted right by n bits (sign-replicating).
// When n > 255 the result saturates to all-ones (x negative) or zero
// (x non-negative); at n == 255 the ordinary shift already produces the
// same saturated value, since only the sign bit of x survives.
func Sar(n, x *Word) *Word {
	if !n.IsUint64() || n.Uint64() > 255 {
		if x.Sign() >= 0 {
			return Zero()
		}
		allOnes := new(Word)
		allOnes.Not(allOnes)
		return allOnes
	}
	return new(Word).SRsh(x, uint(n.Uint64()))
}
