package vm_test

import (
	"errors"
	"testing"

	"github.com/octanevm/octane/core/state"
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/vm"
	"github.com/octanevm/octane/core/word"
)

func newEVM() (*vm.EVM, *state.MemoryStateDB) {
	sdb := state.NewMemoryStateDB()
	return vm.NewEVM(vm.NewBlockContext(), sdb), sdb
}

// PUSH1 0x06 PUSH1 0x07 ADD PUSH1 0x00 MSTORE PUSH1 0x20 PUSH1 0x00 RETURN
func TestRun_PushAddReturn(t *testing.T) {
	evm, sdb := newEVM()
	code := []byte{
		byte(vm.PUSH1), 0x06,
		byte(vm.PUSH1), 0x07,
		byte(vm.ADD),
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20,
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)

	sdb.Prepare()
	ret, err := evm.Run(frame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := word.FromBytes(ret)
	if got.Uint64() != 0x0D {
		t.Fatalf("return word = 0x%x, want 0x0d", got.Uint64())
	}
}

func TestRun_JumpToValidDest(t *testing.T) {
	evm, _ := newEVM()
	// PUSH1 0x04 JUMP STOP JUMPDEST PUSH1 0x01 PUSH1 0x00 MSTORE8 PUSH1 0x01
	// PUSH1 0x00 RETURN
	code := []byte{
		byte(vm.PUSH1), 0x04,
		byte(vm.JUMP),
		byte(vm.STOP),
		byte(vm.JUMPDEST),
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	ret, err := evm.Run(frame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ret) != 1 || ret[0] != 0x01 {
		t.Fatalf("return data = %v, want [0x01]", ret)
	}
}

func TestRun_JumpToNonJumpdest_Fails(t *testing.T) {
	evm, _ := newEVM()
	code := []byte{
		byte(vm.PUSH1), 0x03,
		byte(vm.JUMP),
		byte(vm.STOP), // offset 3, not a JUMPDEST
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	_, err := evm.Run(frame)
	if !errors.Is(err, vm.ErrInvalidJumpDestination) {
		t.Fatalf("Run() err = %v, want ErrInvalidJumpDestination", err)
	}
}

func TestRun_JumpIntoPushImmediate_Fails(t *testing.T) {
	evm, _ := newEVM()
	// PUSH2's immediate byte happens to equal JUMPDEST's opcode value; a
	// jump into it must still fail since it is data, not an instruction.
	code := []byte{
		byte(vm.PUSH1), 0x04,
		byte(vm.JUMP),
		byte(vm.PUSH2), byte(vm.JUMPDEST), 0x00,
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	_, err := evm.Run(frame)
	if !errors.Is(err, vm.ErrInvalidJumpDestination) {
		t.Fatalf("Run() err = %v, want ErrInvalidJumpDestination", err)
	}
}

func TestRun_Revert_PreservesReturnData(t *testing.T) {
	evm, _ := newEVM()
	code := []byte{
		byte(vm.PUSH1), 0xAA,
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x00,
		byte(vm.REVERT),
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	ret, err := evm.Run(frame)
	if !errors.Is(err, vm.ErrExecutionReverted) {
		t.Fatalf("Run() err = %v, want ErrExecutionReverted", err)
	}
	if len(ret) != 1 || ret[0] != 0xAA {
		t.Fatalf("revert return data = %v, want [0xaa]", ret)
	}
}

func TestRun_StackUnderflow(t *testing.T) {
	evm, _ := newEVM()
	code := []byte{byte(vm.ADD)}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	_, err := evm.Run(frame)
	if !errors.Is(err, vm.ErrStackUnderflow) {
		t.Fatalf("Run() err = %v, want ErrStackUnderflow", err)
	}
}

func TestRun_InvalidOpcode(t *testing.T) {
	evm, _ := newEVM()
	code := []byte{0x0c} // unassigned byte
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, nil, nil, 0)
	_, err := evm.Run(frame)
	if !errors.Is(err, vm.ErrInvalidOpcode) {
		t.Fatalf("Run() err = %v, want ErrInvalidOpcode", err)
	}
}

// CALL from a root frame into a target address whose code echoes its
// call data back via RETURN, exercising child-frame construction and
// return-data splicing.
func TestRun_Call_SplicesChildReturnData(t *testing.T) {
	evm, sdb := newEVM()
	target := types.HexToAddress("0x0000000000000000000000000000000000cafe")

	// CALLDATASIZE PUSH1 0x00 PUSH1 0x00 CALLDATACOPY
	// CALLDATASIZE PUSH1 0x00 RETURN
	targetCode := []byte{
		byte(vm.CALLDATASIZE),
		byte(vm.PUSH1), 0x00,
		byte(vm.PUSH1), 0x00,
		byte(vm.CALLDATACOPY),
		byte(vm.CALLDATASIZE),
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	sdb.Prepare()
	sdb.SetCode(target, targetCode)
	sdb.Commit()

	// Place 4 bytes of call data in memory, CALL target with argsSize=4,
	// retSize=4, then return what came back.
	callerCode := []byte{
		byte(vm.PUSH4), 0xDE, 0xAD, 0xBE, 0xEF,
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x04, // retSize
		byte(vm.PUSH1), 0x1C, // retOff (so the 4 bytes land at the low end of a word)
		byte(vm.PUSH1), 0x04, // argsSize
		byte(vm.PUSH1), 0x1C, // argsOff
		byte(vm.PUSH1), 0x00, // value
		byte(vm.PUSH20),
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xca, 0xfe, // to
		byte(vm.PUSH2), 0x00, 0x00, // gas (ignored)
		byte(vm.CALL),
		byte(vm.POP), // drop the success flag
		byte(vm.PUSH1), 0x04,
		byte(vm.PUSH1), 0x1C,
		byte(vm.RETURN),
	}
	frame := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, callerCode, nil, nil, 0)

	sdb.Prepare()
	ret, err := evm.Run(frame)
	sdb.Commit()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if len(ret) != 4 || ret[0] != want[0] || ret[1] != want[1] || ret[2] != want[2] || ret[3] != want[3] {
		t.Fatalf("return data = %v, want %v", ret, want)
	}
}
