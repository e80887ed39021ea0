package hawk

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CredentialResolver looks up Credentials by ID. The core forwards
// ResolverOptions opaquely; it never inspects them.
type CredentialResolver interface {
	Resolve(ctx context.Context, id string, resolverOptions any) (*Credentials, error)
}

// NonceChecker records a (key, nonce) pair and returns true if the pair
// is fresh, false if it has been seen before within the relevant time
// window. key is the credential ID the nonce is scoped to. Any non-nil
// error is treated as a replay indication, same as a false return.
type NonceChecker interface {
	CheckNonce(ctx context.Context, key, nonce string, ts int64) (bool, error)
}

// VerifyOptions carries the optional collaborators and knobs
// Server.Authenticate accepts.
type VerifyOptions struct {
	Payload           []byte
	NonceChecker      NonceChecker
	TimestampSkewSec  int64 // 0 means the default of 60 seconds
	LocaltimeOffsetMS int64
	ResolverOptions   any
}

// AuthenticateResult is the successful outcome of any Server verification:
// the resolved Credentials and the Artifacts the MAC was computed over.
type AuthenticateResult struct {
	Credentials Credentials
	Artifacts   Artifacts
}

// Server validates incoming Authorization headers, bewits, and messages,
// and builds Server-Authorization replies. A Server value is safe for
// concurrent use once constructed.
type Server struct {
	Resolver CredentialResolver
	Clock    Clock
}

// NewServer constructs a Server using the system clock.
func NewServer(resolver CredentialResolver) *Server {
	return &Server{Resolver: resolver, Clock: SystemClock}
}

func (s *Server) clock() Clock {
	if s.Clock == nil {
		return SystemClock
	}
	return s.Clock
}

// resolveCredentials looks up and classifies a resolver result: a nil
// result or resolver error is unknown-credentials (401); a result
// missing ID/Key is invalid-credentials (500); an unrecognized Algorithm
// is unknown-algorithm (500).
func (s *Server) resolveCredentials(ctx context.Context, id string, resolverOptions any) (*Credentials, *Error) {
	if s.Resolver == nil {
		return nil, errUnknownCredentials()
	}
	creds, err := s.Resolver.Resolve(ctx, id, resolverOptions)
	if err != nil || creds == nil {
		return nil, errUnknownCredentials()
	}
	if creds.ID == "" || len(creds.Key) == 0 {
		return nil, errInvalidCredentials()
	}
	if creds.Algorithm.String() == "" {
		return nil, errUnknownAlgorithm()
	}
	return creds, nil
}

// checkTimestampSkew enforces the symmetric skew window around "now". On
// failure it returns a 401 carrying the stale-timestamp challenge with
// the server's own ts/tsm so the client can resynchronize.
func checkTimestampSkew(ts int64, creds *Credentials, skewSec, offsetMS int64, clock Clock) *Error {
	if skewSec == 0 {
		skewSec = 60
	}
	nowMS := clock.NowMS() + offsetMS
	diff := ts*1000 - nowMS
	if diff < 0 {
		diff = -diff
	}
	if diff <= skewSec*1000 {
		return nil
	}

	serverNowSec := nowMS / 1000
	tsm, ok := computeTimestampMAC(serverNowSec, creds.Algorithm, creds.Key)
	if !ok {
		tsm = ""
	}
	challenge := fmt.Sprintf(`Hawk ts="%d", tsm="%s", error="Stale timestamp"`, serverNowSec, tsm)
	return errStaleTimestamp(challenge)
}

// Authenticate validates an Authorization header against req, running
// the full pipeline: request-view/host parsing, header parsing,
// attribute-presence check, credential resolution, MAC comparison,
// optional payload-hash check, optional nonce check, and timestamp-skew
// check — short-circuiting on the first failure.
func (s *Server) Authenticate(ctx context.Context, req RequestDescription, reqOpts RequestOptions, opts VerifyOptions) (*AuthenticateResult, *Error) {
	view, err := NewRequestView(req, reqOpts)
	if err != nil {
		return nil, err
	}
	return s.AuthenticateView(ctx, view, opts)
}

// AuthenticateView runs the same pipeline as Authenticate against an
// already-constructed RequestView, for callers that built one themselves
// (e.g. to reuse it across AuthenticateBewit / logging).
func (s *Server) AuthenticateView(ctx context.Context, view *RequestView, opts VerifyOptions) (*AuthenticateResult, *Error) {
	attrs, perr := parseHawkAttributes(view.Authorization)
	if perr != nil {
		return nil, perr
	}
	if err := requireAuthorizationAttributes(attrs); err != nil {
		return nil, err
	}

	creds, err := s.resolveCredentials(ctx, attrs["id"], opts.ResolverOptions)
	if err != nil {
		return nil, err
	}

	ts, convErr := strconv.ParseInt(attrs["ts"], 10, 64)
	if convErr != nil {
		return nil, errBadHeaderFormat("malformed timestamp")
	}

	a := Artifacts{
		TS:       ts,
		Nonce:    attrs["nonce"],
		Method:   view.Method,
		Resource: view.URL,
		Host:     view.Host,
		Port:     view.Port,
		Hash:     attrs["hash"],
		Ext:      attrs["ext"],
		App:      attrs["app"],
		Dlg:      attrs["dlg"],
		ID:       attrs["id"],
	}

	expectedMAC, ok := computeMAC(kindHeader, a, creds.Algorithm, creds.Key)
	if !ok {
		return nil, errUnknownAlgorithm()
	}
	if !constantTimeEqual(expectedMAC, attrs["mac"]) {
		return nil, errBadMAC()
	}
	a.MAC = attrs["mac"]

	if opts.Payload != nil {
		if a.Hash == "" {
			return nil, errMissingRequiredPayloadHash()
		}
		// Note the empty content-type: the server-side payload hash is
		// recomputed over (algorithm, payload, ""), not the request's
		// actual Content-Type.
		if verr := verifyPayloadHashAgainst(creds.Algorithm, "", opts.Payload, a.Hash); verr != nil {
			return nil, verr
		}
	}

	if opts.NonceChecker != nil {
		seenOK, nerr := opts.NonceChecker.CheckNonce(ctx, creds.ID, a.Nonce, a.TS)
		if nerr != nil || !seenOK {
			return nil, errInvalidNonce()
		}
	}

	if serr := checkTimestampSkew(ts, creds, opts.TimestampSkewSec, opts.LocaltimeOffsetMS, s.clock()); serr != nil {
		return nil, serr
	}

	return &AuthenticateResult{Credentials: *creds, Artifacts: a}, nil
}

// AuthenticateBewit validates a bewit-bearing GET/HEAD request. host/port
// are taken from the same Host-header resolution the rest of the package
// uses.
func (s *Server) AuthenticateBewit(ctx context.Context, req RequestDescription, reqOpts RequestOptions) (*AuthenticateResult, *Error) {
	combined := req.Path
	if combined == "" {
		combined = "/"
	}
	if req.RawQuery != "" {
		combined += "?" + req.RawQuery
	}
	if len(combined) > maxHeaderLength {
		return nil, errResourcePathTooLong()
	}

	method := strings.ToUpper(req.Method)
	if method != "GET" && method != "HEAD" {
		return nil, errInvalidMethod()
	}

	if req.Header != nil && req.Header.Get("Authorization") != "" {
		return nil, errMultipleAuthentications()
	}

	bewitValue, strippedURL, found := extractBewit(combined)
	if !found || bewitValue == "" {
		return nil, errEmptyBewit()
	}

	bewit, berr := decodeBewit(bewitValue)
	if berr != nil {
		return nil, berr
	}

	view, verr := NewRequestView(RequestDescription{
		Method:        method,
		Path:          req.Path,
		Header:        req.Header,
		TransportHost: req.TransportHost,
		TransportPort: req.TransportPort,
	}, reqOpts)
	if verr != nil {
		return nil, verr
	}

	if bewit.Exp*1000 <= s.clock().NowMS() {
		return nil, errAccessExpired()
	}

	creds, err := s.resolveCredentials(ctx, bewit.ID, nil)
	if err != nil {
		return nil, err
	}

	a := Artifacts{
		TS:       bewit.Exp,
		Nonce:    "",
		Method:   "GET",
		Resource: strippedURL,
		Host:     view.Host,
		Port:     view.Port,
		Ext:      bewit.Ext,
		ID:       bewit.ID,
	}
	expectedMAC, ok := computeMAC(kindBewit, a, creds.Algorithm, creds.Key)
	if !ok {
		return nil, errUnknownAlgorithm()
	}
	if !constantTimeEqual(expectedMAC, bewit.MAC) {
		return nil, errBadMAC()
	}
	a.MAC = bewit.MAC

	return &AuthenticateResult{Credentials: *creds, Artifacts: a}, nil
}

// MessageAuthorization is the authenticator a message sender attaches
// out-of-band (mirrors Client.Message's MessageAuth).
type MessageAuthorization struct {
	ID    string
	TS    int64
	Nonce string
	Hash  string
	MAC   string
}

// MessageVerifyOptions carries the optional collaborators
// Server.AuthenticateMessage accepts.
type MessageVerifyOptions struct {
	NonceChecker      NonceChecker
	TimestampSkewSec  int64
	LocaltimeOffsetMS int64
	ResolverOptions   any
}

// AuthenticateMessage validates an out-of-band message authenticator.
// The hash comparison always uses the authenticator's own Hash field as
// received, never a caller-supplied substitute.
func (s *Server) AuthenticateMessage(ctx context.Context, host, port string, message []byte, auth MessageAuthorization, opts MessageVerifyOptions) (*AuthenticateResult, *Error) {
	if auth.ID == "" || auth.TS == 0 || auth.Nonce == "" || auth.Hash == "" || auth.MAC == "" {
		return nil, errInvalidAuthorization()
	}

	creds, err := s.resolveCredentials(ctx, auth.ID, opts.ResolverOptions)
	if err != nil {
		return nil, err
	}

	a := Artifacts{TS: auth.TS, Nonce: auth.Nonce, Host: host, Port: port, Hash: auth.Hash, ID: auth.ID}
	expectedMAC, ok := computeMAC(kindMessage, a, creds.Algorithm, creds.Key)
	if !ok {
		return nil, errUnknownAlgorithm()
	}
	if !constantTimeEqual(expectedMAC, auth.MAC) {
		return nil, errBadMAC()
	}
	a.MAC = auth.MAC

	if verr := verifyPayloadHashAgainst(creds.Algorithm, "", message, a.Hash); verr != nil {
		return nil, errBadMessageHash()
	}

	if opts.NonceChecker != nil {
		seenOK, nerr := opts.NonceChecker.CheckNonce(ctx, creds.ID, a.Nonce, a.TS)
		if nerr != nil || !seenOK {
			return nil, errInvalidNonce()
		}
	}

	if serr := checkTimestampSkew(auth.TS, creds, opts.TimestampSkewSec, opts.LocaltimeOffsetMS, s.clock()); serr != nil {
		return nil, serr
	}

	return &AuthenticateResult{Credentials: *creds, Artifacts: a}, nil
}

// AuthenticatePayload verifies a payload against a result obtained from an
// earlier Authenticate call that didn't have the payload available yet.
func (s *Server) AuthenticatePayload(payload []byte, result *AuthenticateResult, contentType string) *Error {
	return verifyPayloadHashAgainst(result.Credentials.Algorithm, contentType, payload, result.Artifacts.Hash)
}

// AuthenticatePayloadHash compares an already-computed hash to the
// artifacts' hash, constant-time, with no recomputation.
func (s *Server) AuthenticatePayloadHash(computedHash string, artifacts Artifacts) *Error {
	return verifyPayloadHashEqual(artifacts.Hash, computedHash)
}

// ServerHeaderOptions carries the optional fields Server.Header accepts.
type ServerHeaderOptions struct {
	Ext         string
	Hash        string
	Payload     []byte
	ContentType string
}

// Header builds the Server-Authorization header value for a previously
// authenticated request: `Hawk mac="…"[, hash="…"][, ext="…"]`.
func (s *Server) Header(result *AuthenticateResult, opts ServerHeaderOptions) (string, *Error) {
	a := result.Artifacts
	a.Ext = opts.Ext
	a.Hash = opts.Hash
	if a.Hash == "" && opts.Payload != nil {
		h, ok := computePayloadHash(result.Credentials.Algorithm, opts.ContentType, opts.Payload)
		if !ok {
			return "", errUnknownAlgorithm()
		}
		a.Hash = h
	}

	mac, ok := computeMAC(kindResponse, a, result.Credentials.Algorithm, result.Credentials.Key)
	if !ok {
		return "", errUnknownAlgorithm()
	}

	var b strings.Builder
	b.WriteString(`Hawk mac="`)
	b.WriteString(mac)
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
	return b.String(), nil
}
