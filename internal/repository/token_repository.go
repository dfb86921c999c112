package repository

import (
	"sync"
	"time"
)

// DeviceToken is one registered push target.
type DeviceToken struct {
	Token     string
	Platform  string // "android" or "ios"
	CreatedAt time.Time
}

// TokenRepository keeps device tokens for scan alerts. In-memory: tokens
// re-register on app start, so losing them on restart is acceptable.
type TokenRepository struct {
	tokens map[string]*DeviceToken
	mu     sync.RWMutex
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{tokens: make(map[string]*DeviceToken)}
}

// Register adds or refreshes a device token.
func (r *TokenRepository) Register(token, platform string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &DeviceToken{Token: token, Platform: platform, CreatedAt: time.Now()}
}

// Unregister removes a device token.
func (r *TokenRepository) Unregister(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}

// All returns every registered token.
func (r *TokenRepository) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := make([]string, 0, len(r.tokens))
	for t := range r.tokens {
		tokens = append(tokens, t)
	}
	return tokens
}

// Count returns the number of registered tokens.
func (r *TokenRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
