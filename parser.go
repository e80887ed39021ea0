package hawk

import "strings"

const maxHeaderLength = 4096

// knownAttributeKeys is the closed attribute set the grammar recognizes.
// Any other key is an unknown attribute.
var knownAttributeKeys = map[string]bool{
	"app":   true,
	"dlg":   true,
	"error": true,
	"ext":   true,
	"hash":  true,
	"id":    true,
	"mac":   true,
	"nonce": true,
	"ts":    true,
	"tsm":   true,
}

// allowedValueByte reports whether c may appear inside an attribute
// value: [!#$%&'()*+,-./:;<=>?@[]^_`{|}~A-Za-z0-9 ].
func allowedValueByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == ' ':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
		':', ';', '<', '=', '>', '?', '@', '[', ']', '^', '_', '`', '{', '|', '}', '~':
		return true
	}
	return false
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// parseHawkAttributes parses a `Hawk k="v", k="v", ...` style header value
// (Authorization, WWW-Authenticate, or Server-Authorization), returning
// the flat attribute map or the precisely classified *Error.
func parseHawkAttributes(raw string) (map[string]string, *Error) {
	if len(raw) == 0 {
		return nil, errUnauthorized()
	}
	if len(raw) > maxHeaderLength {
		return nil, errHeaderLengthTooLong()
	}

	spaceIdx := strings.IndexByte(raw, ' ')
	if spaceIdx == -1 {
		// No space at all: the whole string is (at best) a bare scheme
		// token with no attribute list to follow.
		return nil, errInvalidHeaderSyntax()
	}

	scheme := raw[:spaceIdx]
	if scheme == "" || !isToken(scheme) {
		return nil, errInvalidHeaderSyntax()
	}
	if !strings.EqualFold(scheme, "Hawk") {
		return nil, errUnauthorized()
	}

	rest := raw[spaceIdx+1:]
	if rest == "" {
		return nil, errInvalidHeaderSyntax()
	}

	attrs := make(map[string]string)
	pos := 0
	n := len(rest)

	for pos < n {
		for pos < n && rest[pos] == ' ' {
			pos++
		}
		if pos == n {
			break
		}

		keyStart := pos
		for pos < n && rest[pos] != '=' {
			pos++
		}
		if pos == n {
			return nil, errBadHeaderFormat("bad header format")
		}
		key := rest[keyStart:pos]
		pos++ // consume '='

		if pos == n || rest[pos] != '"' {
			return nil, errBadHeaderFormat("bad header format")
		}
		pos++ // consume opening quote

		valStart := pos
		for pos < n && rest[pos] != '"' {
			if !allowedValueByte(rest[pos]) {
				return nil, errBadAttributeValue(rest[pos])
			}
			pos++
		}
		if pos == n {
			return nil, errBadHeaderFormat("bad header format")
		}
		if pos == valStart {
			// Opening quote immediately followed by closing quote: the
			// empty value is rejected, reported via the quote itself
			// since there is no real offending character to cite.
			return nil, errBadAttributeValue('"')
		}
		value := rest[valStart:pos]
		pos++ // consume closing quote

		if !knownAttributeKeys[key] {
			return nil, errUnknownAttribute(key)
		}
		if _, exists := attrs[key]; exists {
			return nil, errDuplicateAttribute(key)
		}
		attrs[key] = value

		for pos < n && rest[pos] == ' ' {
			pos++
		}
		if pos == n {
			break
		}
		if rest[pos] != ',' {
			return nil, errBadHeaderFormat("bad header format")
		}
		pos++
	}

	return attrs, nil
}

// requireAuthorizationAttributes asserts the presence of the four
// attributes an Authorization header must carry.
func requireAuthorizationAttributes(attrs map[string]string) *Error {
	for _, k := range []string{"id", "ts", "nonce", "mac"} {
		if attrs[k] == "" {
			return errMissingAttributes()
		}
	}
	return nil
}
