// Package vm implements the interpreter core: the operand stack, byte
// memory, opcode table, instruction handlers, and the fetch/decode/dispatch
// loop driving nested CALL/CREATE frames over a journaled StateDB.
package vm

import (
	"errors"

	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/word"
	"github.com/octanevm/octane/log"
)

// defaultMaxCallDepth bounds sub-call recursion; go-ethereum and erigon
// both use 1024, matching the stack's own depth limit.
const defaultMaxCallDepth = 1024

// GetHashFunc resolves a historical block number to its hash. Block-hash
// history is out of scope for this interpreter core: the default always
// returns the zero hash.
type GetHashFunc func(uint64) types.Hash

// BlockContext carries the block/transaction-level fields the environment
// opcodes read. Every field is a Word, per the embedding API.
type BlockContext struct {
	ChainID         *word.Word
	BlockNumber     *word.Word
	BlockTimestamp  *word.Word
	BlockCoinbase   *word.Word
	BlockDifficulty *word.Word
	BlockGasLimit   *word.Word
	BlockBaseFee    *word.Word
	BlockHashFee    *word.Word
	GasPrice        *word.Word
	BaseFee         *word.Word
	BlobHash        *word.Word
	GetHash         GetHashFunc
}

// NewBlockContext returns a BlockContext with every Word field zeroed and
// GetHash stubbed to the zero hash.
func NewBlockContext() BlockContext {
	return BlockContext{
		ChainID:         word.Zero(),
		BlockNumber:     word.Zero(),
		BlockTimestamp:  word.Zero(),
		BlockCoinbase:   word.Zero(),
		BlockDifficulty: word.Zero(),
		BlockGasLimit:   word.Zero(),
		BlockBaseFee:    word.Zero(),
		BlockHashFee:    word.Zero(),
		GasPrice:        word.Zero(),
		BaseFee:         word.Zero(),
		BlobHash:        word.Zero(),
		GetHash:         func(uint64) types.Hash { return types.Hash{} },
	}
}

// StateDB is the world-state capability interface the interpreter needs:
// accounts, persistent storage, transient storage, and logs, all governed
// by a prepare/commit dirty-overlay protocol. Declared in this package
// (rather than imported from core/state) so core/state's concrete
// implementation can depend on vm without a cycle back.
type StateDB interface {
	CreateObject(addr types.Address)
	CreateContract(caller types.Address, code []byte) types.Address
	SetCode(addr types.Address, code []byte)

	Transfer(from, to types.Address, v *word.Word) error
	AddBalance(addr types.Address, v *word.Word)
	SubBalance(addr types.Address, v *word.Word) error
	GetBalance(addr types.Address) *word.Word

	GetNonce(addr types.Address) uint64
	SetNonce(addr types.Address, nonce uint64)

	GetCode(addr types.Address) []byte
	GetCodeHash(addr types.Address) types.Hash
	GetCodeSize(addr types.Address) int

	Exists(addr types.Address) bool

	GetState(addr types.Address, key types.Hash) types.Hash
	SetState(addr types.Address, key, value types.Hash)

	GetTransientState(addr types.Address, key types.Hash) types.Hash
	SetTransientState(addr types.Address, key, value types.Hash)

	AddLog(l *types.Log)

	Prepare()
	Commit()
}

// EVM is the interpreter's execution environment: the block context, the
// attached StateDB, the flat opcode table, and the bookkeeping needed to
// orchestrate nested sub-calls.
type EVM struct {
	Context      BlockContext
	StateDB      StateDB
	Tracer       Tracer
	MaxCallDepth int

	jumpTable JumpTable
	logger    *log.Logger
}

// NewEVM constructs an EVM over the given block context and state. A nil
// Tracer disables trace output.
func NewEVM(ctx BlockContext, statedb StateDB) *EVM {
	return &EVM{
		Context:      ctx,
		StateDB:      statedb,
		MaxCallDepth: defaultMaxCallDepth,
		jumpTable:    NewJumpTable(),
		logger:       log.Default().Module("vm"),
	}
}

// Run drives the fetch/decode/dispatch loop over frame until it halts:
// normal termination (STOP, RETURN, or running off the end of the code,
// returned with a nil error), REVERT
// (propagated with frame.ReturnData preserved), or any other terminal
// error (propagated, return data discarded by the caller).
func (evm *EVM) Run(frame *Frame) ([]byte, error) {
	if evm.StateDB == nil {
		return nil, ErrNoStateDB
	}
	for {
		pc := frame.PC
		op := frame.GetOp(pc)
		entry := evm.jumpTable[op]
		if entry == nil || entry.execute == nil {
			return nil, evm.terminal(frame, ErrInvalidOpcode)
		}

		if frame.Stack.Len() < entry.minStack {
			return nil, evm.terminal(frame, ErrStackUnderflow)
		}
		if frame.Stack.Len() > entry.maxStack {
			return nil, evm.terminal(frame, ErrStackOverflow)
		}

		if evm.Tracer != nil {
			evm.Tracer.OnOpcode(frame.Depth, pc, op, immediateOf(op, frame.Code, pc))
		}

		ret, err := entry.execute(&frame.PC, evm, frame)
		if err != nil {
			return ret, evm.terminal(frame, err)
		}

		if entry.halts {
			return ret, nil
		}
		if entry.jumps {
			continue
		}

		frame.PC += uint64(OpCodeSize(op))
		if frame.PC >= uint64(len(frame.Code)) {
			return frame.ReturnData, nil
		}
	}
}

// terminal logs any propagated error other than a revert at Warn level
// before returning it, so such a trace ends with a one-line explanation of
// why execution halted. Purely diagnostic: it never changes err itself.
func (evm *EVM) terminal(frame *Frame, err error) error {
	if !errors.Is(err, ErrExecutionReverted) {
		evm.logger.Warn("frame terminated", "depth", frame.Depth, "pc", frame.PC, "err", err)
	}
	return err
}

// immediateOf returns the PUSHk immediate bytes for the opcode at pc, or
// nil for opcodes with no immediate.
func immediateOf(op OpCode, code []byte, pc uint64) []byte {
	n := op.PushSize()
	if n == 0 {
		return nil
	}
	start := pc + 1
	if start >= uint64(len(code)) {
		return nil
	}
	end := start + uint64(n)
	if end > uint64(len(code)) {
		end = uint64(len(code))
	}
	return code[start:end]
}
