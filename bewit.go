package hawk

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// Bewit is the decoded four-field URL-embedded credential. It carries no
// nonce of its own, and Server.AuthenticateBewit runs no nonce check, so a
// bewit is accepted on every use until it expires.
type Bewit struct {
	ID  string
	Exp int64
	MAC string
	Ext string
}

// encodeBewit serializes b as URL-safe, unpadded base64 of
// "id\exp\mac\ext".
func encodeBewit(b Bewit) string {
	raw := b.ID + `\` + strconv.FormatInt(b.Exp, 10) + `\` + b.MAC + `\` + b.Ext
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeBewit parses a bewit token back into its four fields, classifying
// every failure mode a bewit-authenticated request can hit.
func decodeBewit(token string) (Bewit, *Error) {
	if token == "" {
		return Bewit{}, errEmptyBewit()
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Bewit{}, errInvalidBewitEncoding()
	}

	parts := strings.Split(string(raw), `\`)
	if len(parts) != 4 {
		return Bewit{}, errInvalidBewitStructure()
	}
	id, expStr, mac, ext := parts[0], parts[1], parts[2], parts[3]
	if id == "" || expStr == "" || mac == "" {
		return Bewit{}, errMissingBewitAttributes()
	}

	exp, convErr := strconv.ParseInt(expStr, 10, 64)
	if convErr != nil {
		return Bewit{}, errInvalidBewitStructure()
	}

	return Bewit{ID: id, Exp: exp, MAC: mac, Ext: ext}, nil
}

// extractBewit scans a request URL for a `bewit=` query parameter
// preceded by `?` or `&`, returning the bewit value and the URL with the
// bewit parameter (and its preceding separator) stripped. When the
// separator is `?`, everything from that `?` on is dropped, including any
// parameters after the bewit.
func extractBewit(rawURL string) (bewitValue string, strippedURL string, found bool) {
	idx := -1
	const marker = "bewit="
	for i := 1; i+len(marker) <= len(rawURL); i++ {
		if (rawURL[i-1] == '?' || rawURL[i-1] == '&') && rawURL[i:i+len(marker)] == marker {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", rawURL, false
	}

	valueStart := idx + len(marker)
	valueEnd := valueStart
	for valueEnd < len(rawURL) && rawURL[valueEnd] != '?' && rawURL[valueEnd] != '&' {
		valueEnd++
	}
	bewitValue = rawURL[valueStart:valueEnd]

	sepIdx := idx - 1
	var rebuilt string
	if rawURL[sepIdx] == '?' {
		// bewit was the first query parameter: the reconstructed URL is
		// retained up to, but not including, that '?'.
		rebuilt = rawURL[:sepIdx]
	} else {
		// '&': drop just the "&bewit=...` span, keeping the '?' (or prior
		// '&...') before it and whatever separator/params follow.
		rebuilt = rawURL[:sepIdx] + rawURL[valueEnd:]
	}

	return bewitValue, rebuilt, true
}
