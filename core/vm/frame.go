package vm

import (
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/word"
)

// Frame is the per-invocation execution context: a root call, CALL-family
// sub-call, or CREATE-family sub-create. Everything named in the Invariant
// below is set once at construction and never mutated afterward.
//
// Invariant: code, callData, caller, origin, contract, value, and depth are
// immutable for the frame's lifetime.
type Frame struct {
	Stack  *Stack
	Memory *Memory

	PC   uint64
	Code []byte

	CallData   []byte
	ReturnData []byte

	Value *word.Word

	Caller   types.Address
	Origin   types.Address
	Contract types.Address

	Depth int

	// ReadOnly marks a frame entered via STATICCALL. Threaded through for
	// documentation; no handler consults it (state immutability is not
	// enforced by this interpreter).
	ReadOnly bool

	jumpdests map[uint64]bool
}

// NewFrame constructs a root or sub-call frame. value may be nil, treated
// as zero.
func NewFrame(caller, origin, contract types.Address, code, callData []byte, value *word.Word, depth int) *Frame {
	if value == nil {
		value = word.Zero()
	}
	return &Frame{
		Stack:    NewStack(),
		Memory:   NewMemory(),
		Code:     code,
		CallData: callData,
		Value:    value,
		Caller:   caller,
		Origin:   origin,
		Contract: contract,
		Depth:    depth,
	}
}

// GetOp returns the opcode at position n, or STOP past the end of code
// (falling off the end is normal termination, not an invalid-opcode fault).
func (f *Frame) GetOp(n uint64) OpCode {
	if n < uint64(len(f.Code)) {
		return OpCode(f.Code[n])
	}
	return STOP
}

// ValidJumpdest reports whether dest is a valid JUMPDEST position: within
// code bounds, the byte there is JUMPDEST, and it is not inside a PUSH
// immediate (jump-destination analysis, computed once and cached).
func (f *Frame) ValidJumpdest(dest *word.Word) bool {
	if !dest.IsUint64() {
		return false
	}
	d := dest.Uint64()
	if d >= uint64(len(f.Code)) {
		return false
	}
	if OpCode(f.Code[d]) != JUMPDEST {
		return false
	}
	return f.isCode(d)
}

func (f *Frame) isCode(pos uint64) bool {
	if f.jumpdests == nil {
		f.jumpdests = make(map[uint64]bool)
		f.analyzeJumpdests()
	}
	return f.jumpdests[pos]
}

// analyzeJumpdests scans the frame's code once, recording every JUMPDEST
// byte offset while skipping over PUSH immediate-data bytes so they are
// never mistaken for a valid jump target.
func (f *Frame) analyzeJumpdests() {
	for i := uint64(0); i < uint64(len(f.Code)); i++ {
		op := OpCode(f.Code[i])
		if op == JUMPDEST {
			f.jumpdests[i] = true
		}
		if op.IsPush() {
			i += uint64(op.PushSize())
		}
	}
}
