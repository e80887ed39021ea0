package hawk

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"strings"
)

// Algorithm identifies the keyed-hash algorithm a set of Credentials uses.
// It is a closed two-variant enumeration: any input that doesn't map to
// one of SHA1 or SHA256 is an unknown algorithm.
type Algorithm int

const (
	// unknownAlgorithm is the zero value so a Credentials left without an
	// explicit Algorithm fails ParseAlgorithm-style validation rather than
	// silently picking SHA1.
	unknownAlgorithm Algorithm = iota
	SHA1
	SHA256
)

// String returns the canonical lowercase name for a, or "" for an unknown
// algorithm.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return ""
	}
}

// ParseAlgorithm normalizes an algorithm name to an Algorithm. Matching is
// case-insensitive and ignores surrounding whitespace; the accepted names
// are "sha1", "sha-1", "sha256" and "sha-256". It returns false for any
// other name.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sha1", "sha-1":
		return SHA1, true
	case "sha256", "sha-256":
		return SHA256, true
	default:
		return unknownAlgorithm, false
	}
}

// newHash returns a fresh unkeyed hash.Hash for a.
func (a Algorithm) newHash() (hash.Hash, bool) {
	switch a {
	case SHA1:
		return sha1.New(), true
	case SHA256:
		return sha256.New(), true
	default:
		return nil, false
	}
}

// newHMAC returns a fresh HMAC keyed with key, using a's underlying hash.
func (a Algorithm) newHMAC(key []byte) (hash.Hash, bool) {
	switch a {
	case SHA1:
		return hmac.New(sha1.New, key), true
	case SHA256:
		return hmac.New(sha256.New, key), true
	default:
		return nil, false
	}
}
