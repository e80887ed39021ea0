package hawk

import (
	"strconv"
	"strings"
)

// kind values for normalizedString's <type> line.
const (
	kindHeader   = "header"
	kindResponse = "response"
	kindBewit    = "bewit"
	kindMessage  = "message"
	kindPayload  = "payload"
	kindTS       = "ts"
)

// escapeExt replaces every backslash with two backslashes and every
// newline with the literal two-character sequence `\n`, so an ext value
// containing either can still occupy exactly one line of the
// canonicalized string.
func escapeExt(ext string) string {
	if !strings.ContainsAny(ext, "\\\n") {
		return ext
	}
	var b strings.Builder
	b.Grow(len(ext) + 8)
	for _, r := range ext {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizedString builds the exact byte string fed into every MAC
// computation. kind is one of the kind* constants above.
func normalizedString(kind string, a Artifacts) []byte {
	var b strings.Builder

	b.WriteString("hawk.1.")
	b.WriteString(kind)
	b.WriteByte('\n')

	b.WriteString(strconv.FormatInt(a.TS, 10))
	b.WriteByte('\n')

	b.WriteString(a.Nonce)
	b.WriteByte('\n')

	b.WriteString(strings.ToUpper(a.Method))
	b.WriteByte('\n')

	resource := a.Resource
	if resource == "" {
		resource = "/"
	}
	b.WriteString(resource)
	b.WriteByte('\n')

	b.WriteString(strings.ToLower(a.Host))
	b.WriteByte('\n')

	b.WriteString(a.Port)
	b.WriteByte('\n')

	b.WriteString(a.Hash)
	b.WriteByte('\n')

	b.WriteString(escapeExt(a.Ext))
	b.WriteByte('\n')

	if a.App != "" {
		b.WriteString(a.App)
		b.WriteByte('\n')
		b.WriteString(a.Dlg)
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// payloadHashInput builds the unkeyed-hash input for a payload:
// "hawk.1.payload\n" || content-type || "\n" || payload || "\n".
func payloadHashInput(contentType string, payload []byte) []byte {
	var b strings.Builder
	b.WriteString("hawk.1.payload\n")
	b.WriteString(contentType)
	b.WriteByte('\n')
	b.Write(payload)
	b.WriteByte('\n')
	return []byte(b.String())
}

// timestampMACInput builds the HMAC input for the timestamp-MAC used in
// stale-timestamp challenges and WWW-Authenticate tsm validation:
// "hawk.1.ts\n<ts>\n".
func timestampMACInput(ts int64) []byte {
	return []byte("hawk.1.ts\n" + strconv.FormatInt(ts, 10) + "\n")
}

// computeMAC computes the base64-encoded MAC for kind over a under
// credentials key/algorithm.
func computeMAC(kind string, a Artifacts, alg Algorithm, key []byte) (string, bool) {
	sum, ok := hmacSum(alg, key, normalizedString(kind, a))
	if !ok {
		return "", false
	}
	return b64(sum), true
}

// computeTimestampMAC computes the base64-encoded timestamp-MAC for ts
// under the given algorithm/key.
func computeTimestampMAC(ts int64, alg Algorithm, key []byte) (string, bool) {
	sum, ok := hmacSum(alg, key, timestampMACInput(ts))
	if !ok {
		return "", false
	}
	return b64(sum), true
}

// computePayloadHash computes the base64-encoded payload hash under the
// given algorithm.
func computePayloadHash(alg Algorithm, contentType string, payload []byte) (string, bool) {
	sum, ok := hashSum(alg, payloadHashInput(contentType, payload))
	if !ok {
		return "", false
	}
	return b64(sum), true
}
