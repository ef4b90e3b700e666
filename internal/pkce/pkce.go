// Package pkce implements the PKCE (RFC 7636) challenge material used to bind
// SoundCloud authorization codes to this backend, plus the ephemeral store that
// holds pending challenges between the authorize redirect and the token exchange.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// verifierBytes is the amount of randomness behind each code verifier.
// 32 bytes encodes to a 43-character base64url string, the RFC 7636 minimum.
const verifierBytes = 32

// NewVerifier generates a cryptographically random code verifier,
// base64url-encoded without padding.
func NewVerifier() (string, error) {
	b := make([]byte, verifierBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)), no padding. Deterministic for a given
// verifier, which is what lets SoundCloud match the pair at exchange time.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NewState returns an opaque random state token. It is only a lookup key for
// the pending challenge; a v4 UUID (16 random bytes) is unguessable enough.
func NewState() string {
	return uuid.NewString()
}
