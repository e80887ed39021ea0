package hawk

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// hmacSum computes HMAC(key, data) under algorithm a and returns the raw
// digest bytes. The caller base64-encodes it per the wire format in use.
func hmacSum(a Algorithm, key, data []byte) ([]byte, bool) {
	h, ok := a.newHMAC(key)
	if !ok {
		return nil, false
	}
	h.Write(data)
	return h.Sum(nil), true
}

// hashSum computes an unkeyed digest of data under algorithm a.
func hashSum(a Algorithm, data []byte) ([]byte, bool) {
	h, ok := a.newHash()
	if !ok {
		return nil, false
	}
	h.Write(data)
	return h.Sum(nil), true
}

// b64 encodes with the standard padded alphabet, the encoding every MAC
// and hash in this package uses on the wire.
func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// constantTimeEqual compares two base64-ish ASCII strings in constant
// time. Every comparison of a secret-derived value (MAC or hash) in this
// package MUST go through this function rather than ==; an early-exit
// compare leaks timing information an attacker can use to forge a MAC
// byte by byte.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		// Still run a constant-time compare against a dummy of the same
		// length as `a` so callers can't distinguish "wrong length" from
		// "right length, wrong content" by timing.
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

const nonceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newNonce generates a random n-character alphanumeric nonce using a
// CSPRNG, so an attacker who observes many nonces gains no ability to
// predict the next one: replay protection depends on nonces being
// unguessable, not merely unique.
func newNonce(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a supported platform does not fail; if it
		// somehow does, degrade to an all-zero-index nonce rather than
		// panic, since callers can always supply their own nonce.
		buf = make([]byte, n)
	}
	for i, b := range buf {
		out[i] = nonceAlphabet[int(b)%len(nonceAlphabet)]
	}
	return string(out)
}
