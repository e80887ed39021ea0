package hawk

import (
	"net/http"
	"strconv"
	"strings"
)

// RequestOptions carries the overrides NewRequestView accepts: a
// non-default Host header name to look up, and explicit host/port values
// that take precedence over anything parsed from the request.
type RequestOptions struct {
	HostHeaderName string
	Host           string
	Port           string
}

// RequestDescription is the neutral request shape this package consumes.
// It deliberately has no dependency on *http.Request so a host can adapt
// any transport (net/http, an RPC gateway, a test fixture) into it;
// Header is the stdlib http.Header map since header storage itself is not
// a framework concern, just a multi-valued, case-insensitive string map.
type RequestDescription struct {
	Method        string
	Path          string
	RawQuery      string
	Header        http.Header
	TransportHost string
	TransportPort string
}

// RequestView is the normalized view of a request the rest of this package
// operates on.
type RequestView struct {
	Method        string
	URL           string
	Host          string
	Port          string
	Authorization string
	ContentType   string
}

// isHostByte reports whether c may appear in an unbracketed host literal.
// Hyphen is accepted alongside letters/digits/dot, since RFC 1123
// hostnames routinely contain one and rejecting them would make this
// parser interoperate with almost nothing.
func isHostByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '-':
		return true
	}
	return false
}

// ParseHost parses a raw `Host` header value into host and port. It
// accepts bare hostnames, IPv4 literals, bracketed IPv6 literals
// (`[::1]:8080`), and an optional `:port` suffix.
func ParseHost(value string) (host, port string, err *Error) {
	if len(value) > maxHeaderLength {
		return "", "", errInvalidHostHeaderStatus(500)
	}

	n := len(value)
	i := 0
	var hostBuf strings.Builder

	if i < n && value[i] == '[' {
		hostBuf.WriteByte(value[i])
		i++
		closed := false
		for i < n {
			c := value[i]
			hostBuf.WriteByte(c)
			i++
			if c == ']' {
				closed = true
				break
			}
		}
		if !closed {
			return "", "", errInvalidHostHeader()
		}
	} else {
		for i < n && value[i] != ':' {
			if !isHostByte(value[i]) {
				return "", "", errInvalidHostHeader()
			}
			hostBuf.WriteByte(value[i])
			i++
		}
	}

	host = hostBuf.String()
	if host == "" {
		return "", "", errInvalidHostHeader()
	}

	if i == n {
		return host, "", nil
	}
	if value[i] != ':' {
		return "", "", errInvalidHostHeader()
	}
	i++

	portStr := value[i:]
	if portStr == "" {
		return "", "", errInvalidHostHeader()
	}
	for j := 0; j < len(portStr); j++ {
		if portStr[j] < '0' || portStr[j] > '9' {
			return "", "", errInvalidHostHeader()
		}
	}
	p, convErr := strconv.Atoi(portStr)
	if convErr != nil || p < 0 || p > 65535 {
		return "", "", errInvalidHostHeader()
	}

	return host, portStr, nil
}

// NewRequestView builds a RequestView from a neutral request description,
// applying the Host-header parsing and host/port override rules.
func NewRequestView(req RequestDescription, opts RequestOptions) (*RequestView, *Error) {
	headerName := opts.HostHeaderName
	if headerName == "" {
		headerName = "Host"
	}

	var host, port string
	headerValue := ""
	if req.Header != nil {
		headerValue = req.Header.Get(headerName)
	}
	if headerValue != "" {
		h, p, err := ParseHost(headerValue)
		if err != nil {
			return nil, err
		}
		host, port = h, p
	} else {
		host, port = req.TransportHost, req.TransportPort
	}

	if opts.Host != "" {
		host = opts.Host
	}
	if opts.Port != "" {
		port = opts.Port
	}

	if host == "" {
		// Nothing to fall back to: no Host header, no transport hint, no
		// override.
		return nil, errInvalidHostHeaderStatus(500)
	}

	url := req.Path
	if url == "" {
		url = "/"
	}
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	authorization, contentType := "", ""
	if req.Header != nil {
		authorization = req.Header.Get("Authorization")
		contentType = req.Header.Get("Content-Type")
	}

	return &RequestView{
		Method:        req.Method,
		URL:           url,
		Host:          host,
		Port:          port,
		Authorization: authorization,
		ContentType:   contentType,
	}, nil
}

// truncateContentType trims a Content-Type header value at its first `;`,
// matching what a client reads off a response before validating a
// payload hash against it.
func truncateContentType(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx != -1 {
		return contentType[:idx]
	}
	return contentType
}
