package word

import (
	"testing"

	"github.com/octanevm/octane/core/types"
)

// ---------------------------------------------------------------------------
// wrap-around arithmetic
// ---------------------------------------------------------------------------

func TestAdd_Wraps(t *testing.T) {
	max := Sub(Zero(), FromUint64(1)) // 2^256 - 1
	got := Add(max, FromUint64(1))
	if !IsZero(got) {
		t.Fatalf("Add(2^256-1, 1) = %s, want 0", got)
	}
}

func TestMul(t *testing.T) {
	got := Mul(FromUint64(6), FromUint64(7))
	if got.Uint64() != 42 {
		t.Fatalf("Mul(6,7) = %d, want 42", got.Uint64())
	}
}

func TestDiv_ByZero(t *testing.T) {
	got := Div(FromUint64(10), Zero())
	if !IsZero(got) {
		t.Fatalf("Div(10,0) = %s, want 0", got)
	}
}

func TestMod_ByZero(t *testing.T) {
	got := Mod(FromUint64(10), Zero())
	if !IsZero(got) {
		t.Fatalf("Mod(10,0) = %s, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// signed operations
// ---------------------------------------------------------------------------

func TestSDiv_MostNegativeByMinusOne(t *testing.T) {
	mostNeg := Shl(FromUint64(255), FromUint64(1)) // 2^255
	minusOne := Not(Zero())
	got := SDiv(mostNeg, minusOne)
	if !Eq(got, mostNeg) {
		t.Fatalf("SDiv(minInt256, -1) = %s, want %s", got, mostNeg)
	}
}

func TestSDiv_ByZero(t *testing.T) {
	got := SDiv(FromUint64(10), Zero())
	if !IsZero(got) {
		t.Fatalf("SDiv(10,0) = %s, want 0", got)
	}
}

func TestSignExtend(t *testing.T) {
	// byte 0 = 0xff (negative in an 8-bit view) sign-extends to all-ones.
	x := FromUint64(0xff)
	got := SignExtend(Zero(), x)
	want := Not(Zero())
	if !Eq(got, want) {
		t.Fatalf("SignExtend(0, 0xff) = %s, want all-ones", got)
	}
}

func TestSignExtend_KAbove30(t *testing.T) {
	x := FromUint64(0xff)
	got := SignExtend(FromUint64(31), x)
	if !Eq(got, x) {
		t.Fatalf("SignExtend(31, x) = %s, want x unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// BYTE / SAR / EXP
// ---------------------------------------------------------------------------

func TestByte(t *testing.T) {
	x := FromUint64(0x0102030405060708)
	got := Byte(FromUint64(31), x) // least-significant byte
	if got.Uint64() != 0x08 {
		t.Fatalf("Byte(31, x) = %d, want 0x08", got.Uint64())
	}
}

func TestByte_OutOfRange(t *testing.T) {
	got := Byte(FromUint64(32), FromUint64(0xff))
	if !IsZero(got) {
		t.Fatalf("Byte(32, x) = %s, want 0", got)
	}
}

func TestByte_DoesNotMutateSource(t *testing.T) {
	x := FromUint64(0x0102030405060708)
	orig := new(Word).Set(x)
	Byte(FromUint64(31), x)
	if !Eq(x, orig) {
		t.Fatalf("Byte mutated its source operand: got %s, want %s", x, orig)
	}
}

func TestSar_ShiftBeyondWidth_Negative(t *testing.T) {
	negOne := Not(Zero())
	got := Sar(FromUint64(300), negOne)
	if !Eq(got, negOne) {
		t.Fatalf("Sar(300, -1) = %s, want all-ones", got)
	}
}

func TestSar_ShiftBeyondWidth_Positive(t *testing.T) {
	got := Sar(FromUint64(300), FromUint64(5))
	if !IsZero(got) {
		t.Fatalf("Sar(300, 5) = %s, want 0", got)
	}
}

func TestExp(t *testing.T) {
	got := Exp(FromUint64(2), FromUint64(10))
	if got.Uint64() != 1024 {
		t.Fatalf("Exp(2,10) = %d, want 1024", got.Uint64())
	}
}

// ---------------------------------------------------------------------------
// conversions
// ---------------------------------------------------------------------------

func TestToAddress_FromAddress_RoundTrip(t *testing.T) {
	a := types.HexToAddress("0x00000000000000000000000000000000001234")
	got := ToAddress(FromAddress(a))
	if got != a {
		t.Fatalf("round trip = %s, want %s", got, a)
	}
}

func TestToHash_FromHash_RoundTrip(t *testing.T) {
	var h types.Hash
	for i := range h {
		h[i] = 0x11
	}
	w := FromHash(h)
	if ToHash(w) != h {
		t.Fatalf("round trip = %s, want %s", ToHash(w), h)
	}
}
