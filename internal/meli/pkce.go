// Package meli implements the Mercado Livre account connection flow:
// OAuth 2.0 authorization code with PKCE (RFC 7636), transient
// authorization state, and marketplace credential storage.
package meli

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// verifierCharset is the 66-symbol unreserved set allowed by RFC 7636.
const verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const (
	// MinVerifierLength and MaxVerifierLength are the RFC 7636 bounds.
	MinVerifierLength = 43
	MaxVerifierLength = 128

	// VerifierLength is the length used when initiating a connection.
	VerifierLength = 128
)

// GenerateCodeVerifier generates a cryptographically random PKCE code
// verifier of exactly the requested length. Each character is drawn
// independently and uniformly from the unreserved set; rejection sampling
// keeps the distribution free of modulo bias.
func GenerateCodeVerifier(length int) (string, error) {
	if length < MinVerifierLength || length > MaxVerifierLength {
		return "", fmt.Errorf("verifier length %d outside RFC 7636 range [%d, %d]", length, MinVerifierLength, MaxVerifierLength)
	}

	// Largest multiple of len(verifierCharset) that fits in a byte.
	const limit = byte(256 / len(verifierCharset) * len(verifierCharset))

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, verifierCharset[int(b)%len(verifierCharset)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// DeriveCodeChallenge computes the S256 code challenge for a verifier:
// SHA-256 over the verifier bytes, base64url encoded without padding.
func DeriveCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// GenerateState generates an unguessable state token correlating the
// provider redirect back to the initiating attempt.
func GenerateState() string {
	return uuid.NewString()
}
