package hawk

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HeaderOptions carries the optional fields Client.Header accepts. TS and
// Nonce are normally left zero/empty so Header generates them; tests
// supply fixed values to get deterministic vectors.
type HeaderOptions struct {
	TS          int64
	Nonce       string
	Hash        string
	Payload     []byte
	ContentType string
	Ext         string
	App         string
	Dlg         string
}

// BewitOptions carries the optional fields Client.GetBewit accepts.
type BewitOptions struct {
	Ext string
	TS  int64 // override for "now", seconds; tests only
}

// MessageOptions carries the optional fields Client.Message accepts.
type MessageOptions struct {
	TS    int64
	Nonce string
}

// MessageAuth is the authenticator Client.Message produces for an
// out-of-band message.
type MessageAuth struct {
	ID    string
	TS    int64
	Nonce string
	Hash  string
	MAC   string
}

// ResponseOptions carries the optional fields Client.Authenticate accepts
// when validating a server's response.
type ResponseOptions struct {
	Payload     []byte
	ContentType string // overrides the response's own Content-Type header
}

// Client builds Authorization headers and validates server responses
// under a single set of Credentials. A Client value is safe for
// concurrent use once constructed; it holds no mutable state beyond its
// Credentials and Clock.
type Client struct {
	Credentials Credentials
	Clock       Clock
}

// NewClient constructs a Client using the system clock.
func NewClient(creds Credentials) *Client {
	return &Client{Credentials: creds, Clock: SystemClock}
}

func (c *Client) clock() Clock {
	if c.Clock == nil {
		return SystemClock
	}
	return c.Clock
}

// resolveURI splits an absolute URI into host, port, and resource
// (path, plus "?query" when present), applying the default port for the
// URI's scheme when none is given.
func resolveURI(uri string) (host, port, resource string, err *Error) {
	u, parseErr := url.Parse(uri)
	if parseErr != nil || u.Host == "" {
		return "", "", "", errBadHeaderFormat("invalid uri")
	}

	host = u.Hostname()
	port = u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	resource = u.EscapedPath()
	if resource == "" {
		resource = "/"
	}
	if u.RawQuery != "" {
		resource += "?" + u.RawQuery
	}
	return host, port, resource, nil
}

// buildAuthorizationHeader assembles the fixed-order Authorization value
// from a: `Hawk id="…", ts="…", nonce="…"[, hash="…"][, ext="…"],
// mac="…"[, app="…"][, dlg="…"]`.
func buildAuthorizationHeader(a Artifacts) string {
	var b strings.Builder
	b.WriteString(`Hawk id="`)
	b.WriteString(a.ID)
	b.WriteString(`", ts="`)
	b.WriteString(strconv.FormatInt(a.TS, 10))
	b.WriteString(`", nonce="`)
	b.WriteString(a.Nonce)
	b.WriteByte('"')
	if a.Hash != "" {
		b.WriteString(`, hash="`)
		b.WriteString(a.Hash)
		b.WriteByte('"')
	}
	if a.Ext != "" {
		b.WriteString(`, ext="`)
		b.WriteString(escapeExt(a.Ext))
		b.WriteByte('"')
	}
	b.WriteString(`, mac="`)
	b.WriteString(a.MAC)
	b.WriteByte('"')
	if a.App != "" {
		b.WriteString(`, app="`)
		b.WriteString(a.App)
		b.WriteByte('"')
	}
	if a.Dlg != "" {
		b.WriteString(`, dlg="`)
		b.WriteString(a.Dlg)
		b.WriteByte('"')
	}
	return b.String()
}

// Header builds an Authorization header value for method against uri,
// returning both the header string and the Artifacts used to build it —
// callers need the latter to later validate the server's response.
func (c *Client) Header(method, uri string, opts HeaderOptions) (string, Artifacts, *Error) {
	if err := c.Credentials.validate(); err != nil {
		return "", Artifacts{}, err
	}
	host, port, resource, err := resolveURI(uri)
	if err != nil {
		return "", Artifacts{}, err
	}

	ts := opts.TS
	if ts == 0 {
		ts = nowSec(c.clock())
	}
	nonce := opts.Nonce
	if nonce == "" {
		nonce = newNonce(6)
	}

	hash := opts.Hash
	if hash == "" && opts.Payload != nil {
		h, ok := computePayloadHash(c.Credentials.Algorithm, opts.ContentType, opts.Payload)
		if !ok {
			return "", Artifacts{}, errUnknownAlgorithm()
		}
		hash = h
	}

	a := Artifacts{
		TS:       ts,
		Nonce:    nonce,
		Method:   method,
		Resource: resource,
		Host:     host,
		Port:     port,
		Hash:     hash,
		Ext:      opts.Ext,
		App:      opts.App,
		Dlg:      opts.Dlg,
		ID:       c.Credentials.ID,
	}

	mac, ok := computeMAC(kindHeader, a, c.Credentials.Algorithm, c.Credentials.Key)
	if !ok {
		return "", Artifacts{}, errUnknownAlgorithm()
	}
	a.MAC = mac

	return buildAuthorizationHeader(a), a, nil
}

// GetBewit issues a bewit token authorizing a GET request to uri until
// now()+ttlSec.
func (c *Client) GetBewit(uri string, ttlSec int64, opts BewitOptions) (string, Artifacts, *Error) {
	if err := c.Credentials.validate(); err != nil {
		return "", Artifacts{}, err
	}
	host, port, resource, err := resolveURI(uri)
	if err != nil {
		return "", Artifacts{}, err
	}

	now := opts.TS
	if now == 0 {
		now = nowSec(c.clock())
	}
	exp := now + ttlSec

	a := Artifacts{
		TS:       exp,
		Nonce:    "",
		Method:   "GET",
		Resource: resource,
		Host:     host,
		Port:     port,
		Ext:      opts.Ext,
		ID:       c.Credentials.ID,
	}
	mac, ok := computeMAC(kindBewit, a, c.Credentials.Algorithm, c.Credentials.Key)
	if !ok {
		return "", Artifacts{}, errUnknownAlgorithm()
	}
	a.MAC = mac

	token := encodeBewit(Bewit{ID: c.Credentials.ID, Exp: exp, MAC: mac, Ext: opts.Ext})
	return token, a, nil
}

// Message signs an out-of-band message addressed to host:port.
func (c *Client) Message(host, port string, message []byte, opts MessageOptions) (MessageAuth, *Error) {
	if err := c.Credentials.validate(); err != nil {
		return MessageAuth{}, err
	}

	ts := opts.TS
	if ts == 0 {
		ts = nowSec(c.clock())
	}
	nonce := opts.Nonce
	if nonce == "" {
		nonce = newNonce(6)
	}

	hash, ok := computePayloadHash(c.Credentials.Algorithm, "", message)
	if !ok {
		return MessageAuth{}, errUnknownAlgorithm()
	}

	a := Artifacts{TS: ts, Nonce: nonce, Host: host, Port: port, Hash: hash, ID: c.Credentials.ID}
	mac, ok := computeMAC(kindMessage, a, c.Credentials.Algorithm, c.Credentials.Key)
	if !ok {
		return MessageAuth{}, errUnknownAlgorithm()
	}

	return MessageAuth{ID: c.Credentials.ID, TS: ts, Nonce: nonce, Hash: hash, MAC: mac}, nil
}

// Authenticate validates a server's WWW-Authenticate / Server-Authorization
// response headers against the Artifacts used to build the original
// request. On success it returns the union of parsed attributes from
// both headers.
func (c *Client) Authenticate(responseHeader http.Header, prior Artifacts, opts ResponseOptions) (map[string]string, *Error) {
	if err := c.Credentials.validate(); err != nil {
		return nil, err
	}

	wwwAuth := responseHeader.Get("WWW-Authenticate")
	serverAuth := responseHeader.Get("Server-Authorization")
	contentType := opts.ContentType
	if contentType == "" {
		contentType = responseHeader.Get("Content-Type")
	}
	contentType = truncateContentType(contentType)

	result := make(map[string]string)

	if wwwAuth != "" {
		attrs, perr := parseHawkAttributes(wwwAuth)
		if perr != nil {
			return nil, errInvalidWWWAuthenticateHeader()
		}
		for k, v := range attrs {
			result[k] = v
		}
		if ts, hasTS := attrs["ts"]; hasTS {
			if tsm, hasTSM := attrs["tsm"]; hasTSM {
				tsInt, convErr := strconv.ParseInt(ts, 10, 64)
				if convErr != nil {
					return nil, errInvalidWWWAuthenticateHeader()
				}
				expected, ok := computeTimestampMAC(tsInt, c.Credentials.Algorithm, c.Credentials.Key)
				if !ok || !constantTimeEqual(expected, tsm) {
					return nil, errInvalidServerTimestampHash()
				}
			}
		}
	}

	if serverAuth != "" {
		attrs, perr := parseHawkAttributes(serverAuth)
		if perr != nil {
			return nil, errInvalidServerAuthorizationHeader()
		}
		for k, v := range attrs {
			result[k] = v
		}

		respArtifacts := prior
		respArtifacts.Ext = attrs["ext"]
		respArtifacts.Hash = attrs["hash"]
		expectedMAC, ok := computeMAC(kindResponse, respArtifacts, c.Credentials.Algorithm, c.Credentials.Key)
		if !ok || !constantTimeEqual(expectedMAC, attrs["mac"]) {
			return nil, errBadResponseMAC()
		}

		if len(opts.Payload) > 0 {
			hash := attrs["hash"]
			if hash == "" {
				return nil, errMissingResponseHashAttribute()
			}
			got, ok := computePayloadHash(c.Credentials.Algorithm, contentType, opts.Payload)
			if !ok || !constantTimeEqual(got, hash) {
				return nil, errBadResponsePayloadMAC()
			}
		}
	}

	return result, nil
}
