package state

import (
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/vm"
	"github.com/octanevm/octane/core/word"
	"github.com/octanevm/octane/crypto"
	"github.com/octanevm/octane/log"
)

// account is a single StateObject: balance, nonce, code, and code hash.
type account struct {
	balance  *word.Word
	nonce    uint64
	code     []byte
	codeHash types.Hash
}

func newAccount() *account {
	return &account{balance: word.Zero(), codeHash: emptyCodeHash}
}

func (a *account) clone() *account {
	return &account{
		balance:  new(word.Word).Set(a.balance),
		nonce:    a.nonce,
		code:     a.code,
		codeHash: a.codeHash,
	}
}

// emptyCodeHash is Keccak256 of the empty byte string, the codeHash of every
// account that has never had code installed.
var emptyCodeHash = types.BytesToHash(crypto.Keccak256(nil))

// storageKey addresses a single persistent or transient storage slot.
type storageKey struct {
	addr types.Address
	key  types.Hash
}

// MemoryStateDB is the in-memory, non-persistent StateDB implementation:
// committed accounts and storage, plus a single dirty overlay written by the
// sub-call currently in flight. Deliberately simpler than a
// snapshot/changelog revert stack: exactly one level of uncommitted writes
// is ever live, since prepare/commit brackets every sub-call one at a time.
//
// Satisfies vm.StateDB structurally; this package also declares its own
// StateDB interface in statedb.go for documentation.
type MemoryStateDB struct {
	objects map[types.Address]*account
	storage map[storageKey]types.Hash

	dirtyObjects map[types.Address]*account
	dirtyStorage map[storageKey]types.Hash

	transientStorage map[storageKey]types.Hash

	logs []*types.Log

	logger *log.Logger
}

// NewMemoryStateDB returns an empty state database.
func NewMemoryStateDB() *MemoryStateDB {
	return &MemoryStateDB{
		objects:          make(map[types.Address]*account),
		storage:          make(map[storageKey]types.Hash),
		dirtyObjects:     make(map[types.Address]*account),
		dirtyStorage:     make(map[storageKey]types.Hash),
		transientStorage: make(map[storageKey]types.Hash),
		logger:           log.Default().Module("state"),
	}
}

var _ vm.StateDB = (*MemoryStateDB)(nil)

// getObject returns the account at addr, checking the dirty overlay first,
// or nil if no object exists in either layer.
func (s *MemoryStateDB) getObject(addr types.Address) *account {
	if a, ok := s.dirtyObjects[addr]; ok {
		return a
	}
	if a, ok := s.objects[addr]; ok {
		return a
	}
	return nil
}

// dirty returns the dirty-overlay account at addr, lazily cloning it from
// the committed layer (or creating a fresh zero object) on first write.
func (s *MemoryStateDB) dirty(addr types.Address) *account {
	if a, ok := s.dirtyObjects[addr]; ok {
		return a
	}
	var a *account
	if committed, ok := s.objects[addr]; ok {
		a = committed.clone()
	} else {
		a = newAccount()
	}
	s.dirtyObjects[addr] = a
	return a
}

// CreateObject inserts a fresh zero-balance, zero-nonce object at addr into
// the dirty overlay.
func (s *MemoryStateDB) CreateObject(addr types.Address) {
	s.dirtyObjects[addr] = newAccount()
}

// CreateContract derives addr from (caller, caller's current nonce),
// installs code, and returns addr. It does not itself bump the caller's
// nonce -- that bookkeeping belongs to whatever drives contract creation.
func (s *MemoryStateDB) CreateContract(caller types.Address, code []byte) types.Address {
	addr := vm.CreateAddress(caller, s.GetNonce(caller))
	s.SetCode(addr, code)
	return addr
}

// SetCode installs code at addr and recomputes its code hash.
func (s *MemoryStateDB) SetCode(addr types.Address, code []byte) {
	a := s.dirty(addr)
	a.code = code
	a.codeHash = crypto.Keccak256Hash(code)
}

// Transfer atomically debits from by v and credits to by v. A transfer of
// zero never fails, even against a nonexistent account.
func (s *MemoryStateDB) Transfer(from, to types.Address, v *word.Word) error {
	if word.IsZero(v) {
		return nil
	}
	if err := s.SubBalance(from, v); err != nil {
		return err
	}
	s.AddBalance(to, v)
	return nil
}

// AddBalance credits addr by v, auto-creating the account if absent.
func (s *MemoryStateDB) AddBalance(addr types.Address, v *word.Word) {
	a := s.dirty(addr)
	a.balance = word.Add(a.balance, v)
}

// SubBalance debits addr by v, failing with ErrInsufficientBalance if the
// account lacks the funds.
func (s *MemoryStateDB) SubBalance(addr types.Address, v *word.Word) error {
	bal := s.GetBalance(addr)
	if word.Lt(bal, v) {
		return vm.ErrInsufficientBalance
	}
	a := s.dirty(addr)
	a.balance = word.Sub(a.balance, v)
	return nil
}

// GetBalance returns addr's balance, zero if the account does not exist.
func (s *MemoryStateDB) GetBalance(addr types.Address) *word.Word {
	if a := s.getObject(addr); a != nil {
		return new(word.Word).Set(a.balance)
	}
	return word.Zero()
}

// GetNonce returns addr's nonce, zero if the account does not exist.
func (s *MemoryStateDB) GetNonce(addr types.Address) uint64 {
	if a := s.getObject(addr); a != nil {
		return a.nonce
	}
	return 0
}

// SetNonce sets addr's nonce.
func (s *MemoryStateDB) SetNonce(addr types.Address, nonce uint64) {
	s.dirty(addr).nonce = nonce
}

// GetCode returns addr's code, nil if the account does not exist or carries
// none.
func (s *MemoryStateDB) GetCode(addr types.Address) []byte {
	if a := s.getObject(addr); a != nil {
		return a.code
	}
	return nil
}

// GetCodeHash returns addr's code hash, the empty-code hash if the account
// does not exist or carries no code.
func (s *MemoryStateDB) GetCodeHash(addr types.Address) types.Hash {
	if a := s.getObject(addr); a != nil {
		return a.codeHash
	}
	return emptyCodeHash
}

// GetCodeSize returns len(GetCode(addr)).
func (s *MemoryStateDB) GetCodeSize(addr types.Address) int {
	return len(s.GetCode(addr))
}

// Exists reports whether an object exists at addr, in either layer.
func (s *MemoryStateDB) Exists(addr types.Address) bool {
	return s.getObject(addr) != nil
}

// GetState returns persistent storage slot (addr,key), checking the dirty
// overlay before the committed map, zero if neither holds it.
func (s *MemoryStateDB) GetState(addr types.Address, key types.Hash) types.Hash {
	k := storageKey{addr, key}
	if v, ok := s.dirtyStorage[k]; ok {
		return v
	}
	if v, ok := s.storage[k]; ok {
		return v
	}
	return types.Hash{}
}

// SetState writes persistent storage slot (addr,key) into the dirty
// overlay.
func (s *MemoryStateDB) SetState(addr types.Address, key, value types.Hash) {
	s.dirtyStorage[storageKey{addr, key}] = value
}

// GetTransientState returns transient storage slot (addr,key). Transient
// storage bypasses the committed/dirty split entirely: writes are live
// immediately and are only ever cleared by Prepare, never folded by Commit.
func (s *MemoryStateDB) GetTransientState(addr types.Address, key types.Hash) types.Hash {
	return s.transientStorage[storageKey{addr, key}]
}

// SetTransientState writes transient storage slot (addr,key).
func (s *MemoryStateDB) SetTransientState(addr types.Address, key, value types.Hash) {
	s.transientStorage[storageKey{addr, key}] = value
}

// AddLog appends l. Logs are not part of the dirty/commit protocol: they
// accumulate for the life of the StateDB regardless of whether the
// sub-call that produced them ultimately committed.
func (s *MemoryStateDB) AddLog(l *types.Log) {
	s.logs = append(s.logs, l)
}

// Logs returns the accumulated log buffer.
func (s *MemoryStateDB) Logs() []*types.Log {
	return s.logs
}

// Prepare clears the dirty account overlay, dirty storage overlay, and all
// transient storage, readying the database for the next frame.
func (s *MemoryStateDB) Prepare() {
	s.dirtyObjects = make(map[types.Address]*account)
	s.dirtyStorage = make(map[storageKey]types.Hash)
	s.transientStorage = make(map[storageKey]types.Hash)
}

// Commit folds the dirty account and storage overlays into the committed
// maps, then clears the overlays.
func (s *MemoryStateDB) Commit() {
	for addr, a := range s.dirtyObjects {
		s.objects[addr] = a
	}
	for k, v := range s.dirtyStorage {
		s.storage[k] = v
	}
	s.dirtyObjects = make(map[types.Address]*account)
	s.dirtyStorage = make(map[storageKey]types.Hash)
}
