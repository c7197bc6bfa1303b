package vm

import (
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/word"
	"github.com/octanevm/octane/crypto"
)

// createChild executes initCode as a contract-creation frame and, on
// success, installs the frame's returnData as the new contract's code.
// Returns the address to push: the derived address on success, zero on any
// failure (insufficient balance or a non-Stop terminal error in the init
// code).
func (evm *EVM) createChild(f *Frame, addr types.Address, value *word.Word, initCode []byte) *word.Word {
	if !word.IsZero(value) {
		if err := evm.StateDB.Transfer(f.Contract, addr, value); err != nil {
			return word.Zero()
		}
	}

	child := NewFrame(f.Caller, f.Origin, addr, initCode, nil, value, f.Depth+1)
	ok := evm.runChild(child)
	if !ok {
		return word.Zero()
	}
	evm.StateDB.SetCode(addr, child.ReturnData)
	return word.FromAddress(addr)
}

func opCreate(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	value, off, size, err := pop3(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	initCode := f.Memory.Read(off.Uint64(), size.Uint64())
	addr := CreateAddress(f.Caller, evm.StateDB.GetNonce(f.Caller))

	return nil, f.Stack.Push(evm.createChild(f, addr, value, initCode))
}

func opCreate2(pc *uint64, evm *EVM, f *Frame) ([]byte, error) {
	value, off, size, salt, err := pop4(f.Stack)
	if err != nil {
		return nil, err
	}
	if f.Depth+1 > evm.MaxCallDepth {
		return nil, f.Stack.Push(word.Zero())
	}

	initCode := f.Memory.Read(off.Uint64(), size.Uint64())
	initCodeHash := crypto.Keccak256(initCode)
	addr := Create2Address(f.Caller, salt.Bytes32(), initCodeHash)

	return nil, f.Stack.Push(evm.createChild(f, addr, value, initCode))
}

func pop4(s *Stack) (a, b, c, d *word.Word, err error) {
	vals, err := s.PopN(4)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
