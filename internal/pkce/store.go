package pkce

import (
	"sync"
	"time"
)

// ChallengeTTL is how long a pending challenge stays redeemable. SoundCloud
// authorization codes are short-lived, so anything older is a dead flow.
const ChallengeTTL = 15 * time.Minute

// Challenge is a pending PKCE record keyed by its state token.
type Challenge struct {
	State     string
	Verifier  string
	Challenge string
	CreatedAt time.Time
}

// Store holds pending challenges in process memory. Records are one-shot:
// Consume removes the record it returns, so a state can never be redeemed
// twice. The store is reset on process restart, which invalidates in-flight
// authorization attempts; callers simply restart the flow.
type Store struct {
	mu         sync.Mutex
	challenges map[string]Challenge
	now        func() time.Time
}

// NewStore creates an empty challenge store.
func NewStore() *Store {
	return &Store{
		challenges: make(map[string]Challenge),
		now:        time.Now,
	}
}

// Put registers a new pending challenge under state. States are random and
// collision is not checked; the caller guarantees uniqueness via generation.
func (s *Store) Put(state, verifier, challenge string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[state] = Challenge{
		State:     state,
		Verifier:  verifier,
		Challenge: challenge,
		CreatedAt: s.now(),
	}
}

// Consume atomically retrieves and removes the challenge for state.
// Returns false when the state is absent, already consumed, or older than
// ChallengeTTL. Expiry is enforced here as well as in EvictExpired so a
// stale record can't be redeemed between eviction sweeps.
func (s *Store) Consume(state string) (Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[state]
	if !ok {
		return Challenge{}, false
	}
	delete(s.challenges, state)

	if s.now().Sub(c.CreatedAt) >= ChallengeTTL {
		return Challenge{}, false
	}
	return c, true
}

// EvictExpired removes every challenge older than ChallengeTTL relative to now.
// Safe to call concurrently with Put and Consume.
func (s *Store) EvictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for state, c := range s.challenges {
		if now.Sub(c.CreatedAt) >= ChallengeTTL {
			delete(s.challenges, state)
		}
	}
}

// Len reports the number of pending challenges. Used by tests and logging.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}
