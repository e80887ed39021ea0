package hawk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeExt(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		assert.Equal(t, "plain-ext", escapeExt("plain-ext"))
	})
	t.Run("backslash", func(t *testing.T) {
		assert.Equal(t, `a\\b`, escapeExt(`a\b`))
	})
	t.Run("newline", func(t *testing.T) {
		assert.Equal(t, `a\nb`, escapeExt("a\nb"))
	})
}

func TestNormalizedStringDeterminism(t *testing.T) {
	a := Artifacts{
		TS:       1353832234,
		Nonce:    "j4h3g2",
		Method:   "get",
		Resource: "/resource/1?b=1&a=2",
		Host:     "Example.COM",
		Port:     "8000",
		Hash:     "",
		Ext:      "some-app-ext-data",
	}
	first := normalizedString(kindHeader, a)
	second := normalizedString(kindHeader, a)
	assert.Equal(t, first, second)

	lines := strings.Split(string(first), "\n")
	require.GreaterOrEqual(t, len(lines), 9)
	assert.Equal(t, "hawk.1.header", lines[0])
	assert.Equal(t, "1353832234", lines[1])
	assert.Equal(t, "j4h3g2", lines[2])
	assert.Equal(t, "GET", lines[3])
	assert.Equal(t, "/resource/1?b=1&a=2", lines[4])
	assert.Equal(t, "example.com", lines[5])
	assert.Equal(t, "8000", lines[6])
}

func TestNormalizedStringOmitsAppDlgWhenAppEmpty(t *testing.T) {
	a := Artifacts{Method: "GET", Resource: "/"}
	s := string(normalizedString(kindHeader, a))
	assert.Equal(t, 9, strings.Count(s, "\n"))
}

func TestNormalizedStringIncludesAppDlgWhenAppSet(t *testing.T) {
	a := Artifacts{Method: "GET", Resource: "/", App: "app-id", Dlg: "dlg-id"}
	s := string(normalizedString(kindHeader, a))
	assert.Equal(t, 11, strings.Count(s, "\n"))
	assert.Contains(t, s, "app-id\ndlg-id\n")
}

func TestComputeMACMatchesHMAC(t *testing.T) {
	a := Artifacts{TS: 1, Nonce: "n", Method: "GET", Resource: "/", Host: "h", Port: "80"}
	mac1, ok := computeMAC(kindHeader, a, SHA256, []byte("secret"))
	require.True(t, ok)
	mac2, ok := computeMAC(kindHeader, a, SHA256, []byte("secret"))
	require.True(t, ok)
	assert.Equal(t, mac1, mac2)

	mac3, ok := computeMAC(kindHeader, a, SHA256, []byte("different"))
	require.True(t, ok)
	assert.NotEqual(t, mac1, mac3)
}

func TestComputeMACUnknownAlgorithm(t *testing.T) {
	a := Artifacts{Method: "GET", Resource: "/"}
	_, ok := computeMAC(kindHeader, a, unknownAlgorithm, []byte("secret"))
	assert.False(t, ok)
}
