// Package credentials owns the pool of search API key pairs and their
// quota state for the duration of one run.
package credentials

import (
	"sync"
	"time"

	"scrapster-engine/internal/config"
)

type Credential struct {
	APIKey   string
	EngineID string
}

type entry struct {
	cred      Credential
	exhausted bool
	lastUsed  time.Time
}

// Pool hands out credentials round-robin and remembers which ones have
// hit their quota. Exhaustion is permanent for the run; there is no
// time-based reset.
type Pool struct {
	mu      sync.Mutex
	entries []entry
	next    int
}

func NewPool(pairs []config.CredentialPair) *Pool {
	p := &Pool{}
	for _, c := range pairs {
		p.entries = append(p.entries, entry{cred: Credential{APIKey: c.APIKey, EngineID: c.EngineID}})
	}
	return p
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Next returns the next non-exhausted credential in configured order.
// The first call returns the first configured credential.
func (p *Pool) Next() (Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < len(p.entries); i++ {
		idx := (p.next + i) % len(p.entries)
		if p.entries[idx].exhausted {
			continue
		}
		p.entries[idx].lastUsed = time.Now()
		p.next = (idx + 1) % len(p.entries)
		return p.entries[idx].cred, true
	}
	return Credential{}, false
}

// MarkExhausted flags a credential as out of quota. Idempotent.
func (p *Pool) MarkExhausted(c Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.entries {
		if p.entries[i].cred.APIKey == c.APIKey && p.entries[i].cred.EngineID == c.EngineID {
			p.entries[i].exhausted = true
		}
	}
}

func (p *Pool) HasAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range p.entries {
		if !e.exhausted {
			return true
		}
	}
	return false
}

// Exhausted reports how many credentials have been marked out of quota.
func (p *Pool) Exhausted() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.entries {
		if e.exhausted {
			n++
		}
	}
	return n
}
