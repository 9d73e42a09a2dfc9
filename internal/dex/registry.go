package dex

import (
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Registry indexes pools by address and by reserve mint.
type Registry struct {
	mu     sync.RWMutex
	pools  map[solana.PublicKey]*BalansolAmm
	byMint map[solana.PublicKey][]*BalansolAmm
}

func NewRegistry() *Registry {
	return &Registry{
		pools:  make(map[solana.PublicKey]*BalansolAmm),
		byMint: make(map[solana.PublicKey][]*BalansolAmm),
	}
}

// Add registers amm. Registering the same address twice is a no-op.
func (r *Registry) Add(amm *BalansolAmm) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[amm.Address()]; ok {
		return false
	}
	r.pools[amm.Address()] = amm
	for _, mint := range amm.ReserveTokenMints() {
		r.byMint[mint] = append(r.byMint[mint], amm)
	}
	return true
}

func (r *Registry) Get(address solana.PublicKey) (*BalansolAmm, bool) {
	r.mu.RLock()
	amm, ok := r.pools[address]
	r.mu.RUnlock()
	return amm, ok
}

// ByMint returns the pools holding mint.
func (r *Registry) ByMint(mint solana.PublicKey) []*BalansolAmm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*BalansolAmm(nil), r.byMint[mint]...)
}

// Pools returns every registered pool ordered by address.
func (r *Registry) Pools() []*BalansolAmm {
	r.mu.RLock()
	out := make([]*BalansolAmm, 0, len(r.pools))
	for _, amm := range r.pools {
		out = append(out, amm)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address().String() < out[j].Address().String()
	})
	return out
}

// AccountsForUpdate collects the accounts every registered pool watches.
func (r *Registry) AccountsForUpdate() []solana.PublicKey {
	var keys []solana.PublicKey
	seen := make(map[solana.PublicKey]struct{})
	for _, amm := range r.Pools() {
		for _, key := range amm.AccountsForUpdate() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
