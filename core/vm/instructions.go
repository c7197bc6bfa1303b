package vm

import (
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/word"
	"github.com/octanevm/octane/crypto"
)

// pop2 pops two operands, x first (the shallower, top-of-stack operand)
// then y.
func pop2(s *Stack) (x, y *word.Word, err error) {
	x, err = s.Pop()
	if err != nil {
		return nil, nil, err
	}
	y, err = s.Pop()
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func pop3(s *Stack) (a, b, c *word.Word, err error) {
	a, err = s.Pop()
	if err != nil {
		return nil, nil, nil, err
	}
	b, err = s.Pop()
	if err != nil {
		return nil, nil, nil, err
	}
	c, err = s.Pop()
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

// ---------------------------------------------------------------------------
// Arithmetic / logic
// ---------------------------------------------------------------------------

func opAdd(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Add(x, y))
}

func opMul(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Mul(x, y))
}

func opSub(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Sub(x, y))
}

func opDiv(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Div(x, y))
}

func opSdiv(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.SDiv(x, y))
}

func opMod(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Mod(x, y))
}

func opSmod(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.SMod(x, y))
}

func opAddmod(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, m, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.AddMod(x, y, m))
}

func opMulmod(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, m, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.MulMod(x, y, m))
}

func opExp(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	base, exponent, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Exp(base, exponent))
}

func opSignExtend(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	k, x, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.SignExtend(k, x))
}

func opLt(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.Lt(x, y)))
}

func opGt(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.Gt(x, y)))
}

func opSlt(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.Slt(x, y)))
}

func opSgt(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.Sgt(x, y)))
}

func opEq(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.Eq(x, y)))
}

func opIszero(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(boolWord(word.IsZero(x)))
}

func opAnd(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.And(x, y))
}

func opOr(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Or(x, y))
}

func opXor(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, y, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Xor(x, y))
}

func opNot(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	x, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Not(x))
}

func opByte(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	i, x, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Byte(i, x))
}

func opShl(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	n, x, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Shl(n, x))
}

func opShr(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	n, x, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Shr(n, x))
}

func opSar(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	n, x, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.Sar(n, x))
}

func boolWord(b bool) *word.Word {
	if b {
		return word.FromUint64(1)
	}
	return word.Zero()
}

// ---------------------------------------------------------------------------
// KECCAK256
// ---------------------------------------------------------------------------

func opKeccak256(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, size, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	if word.IsZero(size) {
		return nil, f.Stack.Push(word.Zero())
	}
	data := f.Memory.Read(off.Uint64(), size.Uint64())
	return nil, f.Stack.Push(word.FromBytes(crypto.Keccak256(data)))
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

func opAddress(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromAddress(f.Contract))
}

func opBalance(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	a, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	addr := word.ToAddress(a)
	return nil, f.Stack.Push(evm.StateDB.GetBalance(addr))
}

func opOrigin(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromAddress(f.Origin))
}

func opCaller(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromAddress(f.Caller))
}

func opCallValue(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(f.Value))
}

func opCallDataLoad(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.FromBytes(readPadded(f.CallData, off, 32)))
}

func opCallDataSize(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromUint64(uint64(len(f.CallData))))
}

func opCallDataCopy(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dst, src, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Write(dst.Uint64(), readPadded(f.CallData, src, size.Uint64()))
	return nil, nil
}

func opCodeSize(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromUint64(uint64(len(f.Code))))
}

func opCodeCopy(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dst, src, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Write(dst.Uint64(), readPadded(f.Code, src, size.Uint64()))
	return nil, nil
}

func opGasPrice(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.GasPrice))
}

func opExtCodeSize(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	a, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(word.FromUint64(uint64(evm.StateDB.GetCodeSize(word.ToAddress(a)))))
}

func opExtCodeCopy(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	a, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	dst, src, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	code := evm.StateDB.GetCode(word.ToAddress(a))
	f.Memory.Write(dst.Uint64(), readPadded(code, src, size.Uint64()))
	return nil, nil
}

func opReturnDataSize(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromUint64(uint64(len(f.ReturnData))))
}

func opReturnDataCopy(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dst, src, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Write(dst.Uint64(), readPadded(f.ReturnData, src, size.Uint64()))
	return nil, nil
}

func opExtCodeHash(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	a, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	addr := word.ToAddress(a)
	if !evm.StateDB.Exists(addr) {
		return nil, f.Stack.Push(word.Zero())
	}
	h := evm.StateDB.GetCodeHash(addr)
	return nil, f.Stack.Push(word.FromHash(h))
}

// readPadded returns size bytes starting at off within src, zero-padded
// when the requested span runs past the end of src.
func readPadded(src []byte, offWord *word.Word, size uint64) []byte {
	out := make([]byte, size)
	if size == 0 || !offWord.IsUint64() {
		return out
	}
	off := offWord.Uint64()
	if off >= uint64(len(src)) {
		return out
	}
	n := uint64(len(src)) - off
	if n > size {
		n = size
	}
	copy(out, src[off:off+n])
	return out
}

// ---------------------------------------------------------------------------
// Block context
// ---------------------------------------------------------------------------

func opBlockHash(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	n, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	h := evm.Context.GetHash(n.Uint64())
	return nil, f.Stack.Push(word.FromHash(h))
}

func opCoinbase(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockCoinbase))
}

func opTimestamp(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockTimestamp))
}

func opNumber(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockNumber))
}

func opPrevRandao(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockDifficulty))
}

func opGasLimit(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockGasLimit))
}

func opChainID(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.ChainID))
}

func opSelfBalance(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(evm.StateDB.GetBalance(f.Contract))
}

func opBaseFee(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BaseFee))
}

func opBlobHash(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlobHash))
}

func opBlobBaseFee(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(new(word.Word).Set(evm.Context.BlockHashFee))
}

// ---------------------------------------------------------------------------
// Stack / memory / storage / flow
// ---------------------------------------------------------------------------

func opPop(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, err := f.Stack.Pop()
	return nil, err
}

func opMload(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, f.Stack.Push(f.Memory.Read32(off.Uint64()))
}

func opMstore(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, val, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Write32(off.Uint64(), val)
	return nil, nil
}

func opMstore8(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, val, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Write8(off.Uint64(), byte(val.Uint64()))
	return nil, nil
}

func opSload(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	k, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	v := evm.StateDB.GetState(f.Contract, word.ToHash(k))
	return nil, f.Stack.Push(word.FromHash(v))
}

func opSstore(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	k, v, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	evm.StateDB.SetState(f.Contract, word.ToHash(k), word.ToHash(v))
	return nil, nil
}

func opJump(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dest, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	if !f.ValidJumpdest(dest) {
		return nil, ErrInvalidJumpDestination
	}
	f.PC = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dest, cond, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	if word.IsZero(cond) {
		f.PC++
		return nil, nil
	}
	if !f.ValidJumpdest(dest) {
		return nil, ErrInvalidJumpDestination
	}
	f.PC = dest.Uint64()
	return nil, nil
}

func opPc(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromUint64(*pc))
}

func opMsize(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.FromUint64(uint64(f.Memory.Len())))
}

func opGas(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	// Gas accounting is out of scope for this interpreter core: GAS always
	// pushes zero.
	return nil, f.Stack.Push(word.Zero())
}

func opJumpdest(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, nil
}

func opTload(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	k, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	v := evm.StateDB.GetTransientState(f.Contract, word.ToHash(k))
	return nil, f.Stack.Push(word.FromHash(v))
}

func opTstore(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	k, v, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	evm.StateDB.SetTransientState(f.Contract, word.ToHash(k), word.ToHash(v))
	return nil, nil
}

func opMcopy(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	dst, src, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	f.Memory.Copy(dst.Uint64(), src.Uint64(), size.Uint64())
	return nil, nil
}

// ---------------------------------------------------------------------------
// PUSH / DUP / SWAP
// ---------------------------------------------------------------------------

func opPush0(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, f.Stack.Push(word.Zero())
}

func makePush(size int) executionFunc {
	return func(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
		start := *pc + 1
		end := start + uint64(size)
		var b []byte
		if start < uint64(len(f.Code)) {
			e := end
			if e > uint64(len(f.Code)) {
				e = uint64(len(f.Code))
			}
			b = f.Code[start:e]
		}
		padded := make([]byte, size)
		copy(padded[size-len(b):], b)
		return nil, f.Stack.Push(word.FromBytes(padded))
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
		return nil, f.Stack.Dup(n)
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
		return nil, f.Stack.Swap(n)
	}
}

// ---------------------------------------------------------------------------
// Logs
// ---------------------------------------------------------------------------

func makeLog(n int) executionFunc {
	return func(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
		off, size, err := pop2(f.Stack)
		if err != nil {
			return nil, err
		}
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t, err := f.Stack.Pop()
			if err != nil {
				return nil, err
			}
			topics[i] = word.ToHash(t)
		}
		data := f.Memory.Read(off.Uint64(), size.Uint64())
		evm.StateDB.AddLog(&types.Log{
			Address: f.Contract,
			Topics:  topics,
			Data:    data,
		})
		return nil, nil
	}
}

// ---------------------------------------------------------------------------
// Halting opcodes
// ---------------------------------------------------------------------------

func opStop(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, size, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	data := f.Memory.Read(off.Uint64(), size.Uint64())
	f.ReturnData = data
	return data, nil
}

func opRevert(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	off, size, err := pop2(f.Stack)
	if err != nil {
		return nil, err
	}
	data := f.Memory.Read(off.Uint64(), size.Uint64())
	f.ReturnData = data
	return data, ErrExecutionReverted
}

func opInvalid(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	return nil, ErrExecutionReverted
}

func opSelfDestruct(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, err := f.Stack.Pop()
	if err != nil {
		return nil, err
	}
	// No self-destruct bookkeeping (beneficiary transfer, account removal)
	// is performed: the StateDB interface has no operation for it, so this
	// handler only pops the beneficiary and halts the frame.
	return nil, nil
}
