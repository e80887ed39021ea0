package hawk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlgorithmString(t *testing.T) {
	t.Run("sha1", func(t *testing.T) {
		assert.Equal(t, "sha1", SHA1.String())
	})
	t.Run("sha256", func(t *testing.T) {
		assert.Equal(t, "sha256", SHA256.String())
	})
	t.Run("unknown", func(t *testing.T) {
		assert.Equal(t, "", unknownAlgorithm.String())
	})
}

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		in   string
		want Algorithm
		ok   bool
	}{
		{"sha1", SHA1, true},
		{"SHA1", SHA1, true},
		{"sha-1", SHA1, true},
		{"sha256", SHA256, true},
		{"SHA-256", SHA256, true},
		{"  sha256  ", SHA256, true},
		{"md5", unknownAlgorithm, false},
		{"", unknownAlgorithm, false},
	}
	for _, c := range cases {
		got, ok := ParseAlgorithm(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestAlgorithmHashConstructors(t *testing.T) {
	t.Run("sha1-hash", func(t *testing.T) {
		h, ok := SHA1.newHash()
		assert.True(t, ok)
		assert.NotNil(t, h)
	})
	t.Run("sha256-hmac", func(t *testing.T) {
		h, ok := SHA256.newHMAC([]byte("key"))
		assert.True(t, ok)
		assert.NotNil(t, h)
	})
	t.Run("unknown-hash", func(t *testing.T) {
		_, ok := unknownAlgorithm.newHash()
		assert.False(t, ok)
	})
	t.Run("unknown-hmac", func(t *testing.T) {
		_, ok := unknownAlgorithm.newHMAC([]byte("key"))
		assert.False(t, ok)
	})
}
