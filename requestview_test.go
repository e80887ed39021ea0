package hawk

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHost(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		host, port, err := ParseHost("example.com")
		require.Nil(t, err)
		assert.Equal(t, "example.com", host)
		assert.Equal(t, "", port)
	})
	t.Run("with-port", func(t *testing.T) {
		host, port, err := ParseHost("example.com:8080")
		require.Nil(t, err)
		assert.Equal(t, "example.com", host)
		assert.Equal(t, "8080", port)
	})
	t.Run("bracketed-ipv6", func(t *testing.T) {
		host, port, err := ParseHost("[::1]:8080")
		require.Nil(t, err)
		assert.Equal(t, "[::1]", host)
		assert.Equal(t, "8080", port)
	})
	t.Run("unclosed-bracket", func(t *testing.T) {
		_, _, err := ParseHost("[::1")
		require.NotNil(t, err)
		assert.Equal(t, KindInvalidHostHeader, err.Kind)
	})
	t.Run("empty-port", func(t *testing.T) {
		_, _, err := ParseHost("example.com:")
		require.NotNil(t, err)
	})
	t.Run("non-numeric-port", func(t *testing.T) {
		_, _, err := ParseHost("example.com:abc")
		require.NotNil(t, err)
	})
	t.Run("port-out-of-range", func(t *testing.T) {
		_, _, err := ParseHost("example.com:99999")
		require.NotNil(t, err)
	})
	t.Run("too-long", func(t *testing.T) {
		_, _, err := ParseHost(strings.Repeat("a", maxHeaderLength+1))
		require.NotNil(t, err)
		assert.Equal(t, 500, err.Status)
	})
	t.Run("invalid-byte", func(t *testing.T) {
		_, _, err := ParseHost("exa mple.com")
		require.NotNil(t, err)
		assert.Equal(t, KindInvalidHostHeader, err.Kind)
	})
}

func TestNewRequestView(t *testing.T) {
	t.Run("from-host-header", func(t *testing.T) {
		h := http.Header{}
		h.Set("Host", "example.com:8080")
		h.Set("Authorization", "Hawk ...")
		h.Set("Content-Type", "application/json")
		view, err := NewRequestView(RequestDescription{
			Method:   "GET",
			Path:     "/a",
			RawQuery: "b=1",
			Header:   h,
		}, RequestOptions{})
		require.Nil(t, err)
		assert.Equal(t, "example.com", view.Host)
		assert.Equal(t, "8080", view.Port)
		assert.Equal(t, "/a?b=1", view.URL)
		assert.Equal(t, "Hawk ...", view.Authorization)
		assert.Equal(t, "application/json", view.ContentType)
	})
	t.Run("falls-back-to-transport", func(t *testing.T) {
		view, err := NewRequestView(RequestDescription{
			Method:        "GET",
			Path:          "",
			TransportHost: "10.0.0.1",
			TransportPort: "80",
		}, RequestOptions{})
		require.Nil(t, err)
		assert.Equal(t, "10.0.0.1", view.Host)
		assert.Equal(t, "80", view.Port)
		assert.Equal(t, "/", view.URL)
	})
	t.Run("explicit-overrides-win", func(t *testing.T) {
		h := http.Header{}
		h.Set("Host", "example.com:8080")
		view, err := NewRequestView(RequestDescription{Method: "GET", Path: "/", Header: h},
			RequestOptions{Host: "override.com", Port: "443"})
		require.Nil(t, err)
		assert.Equal(t, "override.com", view.Host)
		assert.Equal(t, "443", view.Port)
	})
	t.Run("no-host-anywhere-is-500", func(t *testing.T) {
		_, err := NewRequestView(RequestDescription{Method: "GET", Path: "/"}, RequestOptions{})
		require.NotNil(t, err)
		assert.Equal(t, KindInvalidHostHeader, err.Kind)
		assert.Equal(t, 500, err.Status)
	})
	t.Run("custom-host-header-name", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Forwarded-Host", "proxied.example.com")
		view, err := NewRequestView(RequestDescription{Method: "GET", Path: "/", Header: h},
			RequestOptions{HostHeaderName: "X-Forwarded-Host"})
		require.Nil(t, err)
		assert.Equal(t, "proxied.example.com", view.Host)
	})
}

func TestTruncateContentType(t *testing.T) {
	assert.Equal(t, "text/plain", truncateContentType("text/plain; charset=utf-8"))
	assert.Equal(t, "text/plain", truncateContentType("text/plain"))
	assert.Equal(t, "", truncateContentType(""))
}
