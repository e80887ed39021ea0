// Package hawk implements the Hawk HTTP Holder-Of-Key authentication
// scheme: a client signs a request with a shared credential, a server
// verifies the signature without ever putting the credential on the
// wire.
//
// A client signs an outgoing request and attaches the resulting header:
//
//	creds := hawk.Credentials{ID: "dh37fgj492je", Key: []byte("secret"), Algorithm: hawk.SHA256}
//	c := hawk.NewClient(creds)
//	header, artifacts, err := c.Header("POST", "https://example.com/resource?a=1", hawk.HeaderOptions{
//	    Payload:     []byte(`{"hello":"world"}`),
//	    ContentType: "application/json",
//	})
//	req.Header.Set("Authorization", header)
//
// A server resolves the credential by ID and verifies the header against
// the incoming request:
//
//	resolver := myCredentialResolver{}
//	s := hawk.NewServer(resolver)
//	result, err := s.Authenticate(ctx, hawk.RequestDescription{
//	    Method: req.Method,
//	    Path:   req.URL.Path,
//	    RawQuery: req.URL.RawQuery,
//	    Header: req.Header,
//	}, hawk.RequestOptions{}, hawk.VerifyOptions{
//	    Payload:      body,
//	    NonceChecker: nonceChecker,
//	})
//
// On success, result.Credentials carries whatever the resolver attached
// and result.Artifacts carries the fields the MAC was computed over, for
// building a Server-Authorization reply with Server.Header.
package hawk
