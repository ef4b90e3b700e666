package pkce

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStoreConsumeOneShot(t *testing.T) {
	s := NewStore()
	s.Put("state-1", "verifier-1", "challenge-1")

	c, ok := s.Consume("state-1")
	if !ok {
		t.Fatal("first Consume() = not found, want found")
	}
	if c.Verifier != "verifier-1" || c.Challenge != "challenge-1" {
		t.Errorf("Consume() = %+v, want verifier-1/challenge-1", c)
	}

	if _, ok := s.Consume("state-1"); ok {
		t.Error("second Consume() with same state = found, want not found")
	}
}

func TestStoreConsumeUnknownState(t *testing.T) {
	s := NewStore()
	if _, ok := s.Consume("never-registered"); ok {
		t.Error("Consume() of unknown state = found, want not found")
	}
}

func TestStoreExpiryBoundary(t *testing.T) {
	tests := []struct {
		name      string
		age       time.Duration
		wantFound bool
	}{
		{name: "just under TTL", age: ChallengeTTL - time.Second, wantFound: true},
		{name: "just over TTL", age: ChallengeTTL + time.Second, wantFound: false},
		{name: "exactly at TTL", age: ChallengeTTL, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
			s := NewStore()
			s.now = func() time.Time { return base }
			s.Put("state", "verifier", "challenge")

			s.now = func() time.Time { return base.Add(tt.age) }
			_, found := s.Consume("state")
			if found != tt.wantFound {
				t.Errorf("Consume() after %v: found = %v, want %v", tt.age, found, tt.wantFound)
			}
		})
	}
}

func TestStoreEvictExpired(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return base }
	s.Put("old", "v1", "c1")

	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	s.Put("fresh", "v2", "c2")

	s.EvictExpired(base.Add(16 * time.Minute))

	if s.Len() != 1 {
		t.Fatalf("Len() after eviction = %d, want 1", s.Len())
	}
	if _, ok := s.Consume("fresh"); !ok {
		t.Error("fresh record was evicted")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		state := fmt.Sprintf("state-%d", i)
		go func() {
			defer wg.Done()
			s.Put(state, "v", "c")
		}()
		go func() {
			defer wg.Done()
			s.Consume(state)
		}()
		go func() {
			defer wg.Done()
			s.EvictExpired(time.Now())
		}()
	}
	wg.Wait()
}
