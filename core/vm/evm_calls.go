package vm

import (
	"errors"

	"github.com/octanevm/octane/core/word"
)

// runChild executes child through the interpreter under the StateDB's
// prepare/commit protocol: prepare before entry, commit only on success.
// On any non-Revert error the child's returnData is discarded (the Revert
// case preserves it, per the sub-call failure semantics); the caller observes
// this purely through child.ReturnData after runChild returns.
func (evm *EVM) runChild(child *Frame) (ok bool) {
	evm.StateDB.Prepare()
	_, err := evm.Run(child)
	if err == nil {
		evm.StateDB.Commit()
		return true
	}
	if !errors.Is(err, ErrExecutionReverted) {
		child.ReturnData = nil
	}
	return false
}

// spliceReturn copies child.ReturnData into the parent's memory at retOff,
// zero-padded or truncated to retSize, and records it as the parent's own
// returnData.
func spliceReturn(parent *Frame, child *Frame, retOff, retSize uint64) {
	parent.ReturnData = child.ReturnData
	if retSize == 0 {
		return
	}
	data := make([]byte, retSize)
	copy(data, child.ReturnData)
	parent.Memory.Write(retOff, data)
}

func opCall(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, to, value, argsOff, argsSize, retOff, retSize, err := pop7(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	toAddr := word.ToAddress(to)
	argsBytes := f.Memory.Read(argsOff.Uint64(), argsSize.Uint64())

	// Child caller is bound to the parent's *origin*, not the parent's own
	// contract address -- preserved as specified (diverges from standard
	// EVM semantics, which would bind it to f.Contract).
	child := NewFrame(f.Origin, f.Origin, toAddr, evm.StateDB.GetCode(toAddr), argsBytes, value, f.Depth+1)

	if !word.IsZero(value) {
		// Transfer is specified from the parent's caller, not the parent's
		// own contract -- preserved as specified alongside the CALL-caller
		// divergence above.
		if err := evm.StateDB.Transfer(f.Caller, toAddr, value); err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				return nil, f.Stack.Push(word.Zero())
			}
			return nil, err
		}
	}

	ok := evm.runChild(child)
	spliceReturn(f, child, retOff.Uint64(), retSize.Uint64())
	return nil, f.Stack.Push(boolWord(ok))
}

func opCallCode(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, to, argsOff, argsSize, retOff, retSize, err := pop6(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	toAddr := word.ToAddress(to)
	argsBytes := f.Memory.Read(argsOff.Uint64(), argsSize.Uint64())

	// CALLCODE takes no value operand in this instruction set (6 pops, not
	// 7): child.contract = parent.contract, child.caller = to, and the
	// child inherits the parent's value since none is supplied.
	child := NewFrame(toAddr, f.Origin, f.Contract, evm.StateDB.GetCode(toAddr), argsBytes, f.Value, f.Depth+1)

	ok := evm.runChild(child)
	spliceReturn(f, child, retOff.Uint64(), retSize.Uint64())
	return nil, f.Stack.Push(boolWord(ok))
}

func opDelegateCall(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, to, argsOff, argsSize, retOff, retSize, err := pop6(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	toAddr := word.ToAddress(to)
	argsBytes := f.Memory.Read(argsOff.Uint64(), argsSize.Uint64())

	// DELEGATECALL inherits the parent's own contract, caller, and value;
	// only the code comes from `to`. No value transfer occurs.
	child := NewFrame(f.Caller, f.Origin, f.Contract, evm.StateDB.GetCode(toAddr), argsBytes, f.Value, f.Depth+1)

	ok := evm.runChild(child)
	spliceReturn(f, child, retOff.Uint64(), retSize.Uint64())
	return nil, f.Stack.Push(boolWord(ok))
}

func opStaticCall(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	_, to, argsOff, argsSize, retOff, retSize, err := pop6(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	toAddr := word.ToAddress(to)
	argsBytes := f.Memory.Read(argsOff.Uint64(), argsSize.Uint64())

	child := NewFrame(f.Origin, f.Origin, toAddr, evm.StateDB.GetCode(toAddr), argsBytes, word.Zero(), f.Depth+1)
	child.ReadOnly = true

	ok := evm.runChild(child)
	spliceReturn(f, child, retOff.Uint64(), retSize.Uint64())
	return nil, f.Stack.Push(boolWord(ok))
}

func pop6(s *Stack) (a, b, c, d, e, g *word.Word, err error) {
	vals, err := s.PopN(6)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, err
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], nil
}

func pop7(s *Stack) (a, b, c, d, e, g, h *word.Word, err error) {
	vals, err := s.PopN(7)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, nil, err
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], nil
}
