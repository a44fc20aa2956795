package staging

import (
	"sync"
)

// Token identifies one asynchronous unit of work (a command-buffer submission). Tokens
// are opaque to the tracker; they only need to be comparable and notified complete
// exactly once.
//
type Token interface{}

// Releaser releases one entry reference. *Pool satisfies it.
//
type Releaser interface {
	Release(e Entry)
}

// TokenTracker records, per work token, the set of entries the token's submission
// references. Registration is idempotent per (token, entry): a submission may bind the
// same entry from several sites but holds only one reference on it. Clear runs from
// the completion thread, so the tracker carries the same lock discipline as the pool.
//
type TokenTracker struct {
	lock   *sync.Mutex
	tokens map[Token]map[Entry]Releaser
}

func NewTokenTracker() *TokenTracker {
	return &TokenTracker{
		lock:   new(sync.Mutex),
		tokens: make(map[Token]map[Entry]Releaser),
	}
}

// Track registers e under token. The first registration of a (token, entry) pair
// returns true; the caller uses that to add exactly one reference for the token.
//
func (self *TokenTracker) Track(token Token, e Entry, r Releaser) bool {
	self.lock.Lock()
	defer self.lock.Unlock()

	entries, found := self.tokens[token]
	if !found {
		entries = make(map[Entry]Releaser)
		self.tokens[token] = entries
	}
	if _, found := entries[e]; found {
		return false
	}
	entries[e] = r
	return true
}

// Clear runs every release action registered under token exactly once and forgets the
// token. A token with no registrations is normal (a submission that touched no staged
// buffers) and clears as a no-op. The release actions run outside the tracker lock;
// they take the pool lock themselves.
//
func (self *TokenTracker) Clear(token Token) {
	self.lock.Lock()
	entries := self.tokens[token]
	delete(self.tokens, token)
	self.lock.Unlock()

	for e, r := range entries {
		r.Release(e)
	}
}

// Pending reports the number of tokens with outstanding registrations.
//
func (self *TokenTracker) Pending() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.tokens)
}
