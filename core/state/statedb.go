// Package state implements the StateDB contract: accounts, persistent
// storage, transient storage, and a log buffer, governed by a two-layer
// (committed + dirty overlay) prepare/commit protocol. This is deliberately
// simpler than a snapshot/changelog-stack revert model: it admits exactly
// one uncommitted overlay, giving per-sub-call atomicity without the cost
// of arbitrary rollback depth.
package state

import (
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/word"
)

// StateDB restates, for this package's own callers, the capability
// interface MemoryStateDB implements. core/vm declares the authoritative
// copy it dispatches against; the two are kept structurally identical so a
// *MemoryStateDB satisfies either without adaptation.
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
