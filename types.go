package hawk

// Credentials is the pre-shared symmetric key record looked up by ID.
// App carries whatever opaque value the host's CredentialResolver wants
// attached to a successful verification; the core never reads or writes
// it.
type Credentials struct {
	ID        string
	Key       []byte
	Algorithm Algorithm
	App       any
}

func (c *Credentials) validate() *Error {
	if c == nil || c.ID == "" || len(c.Key) == 0 {
		return errInvalidCredentials()
	}
	if c.Algorithm.String() == "" {
		return errUnknownAlgorithm()
	}
	return nil
}

// Artifacts is the full set of fields that can feed a MAC computation.
// Which fields are populated depends on the message kind (header,
// response, bewit, message); fields left unset are treated as empty
// strings by the canonicalizer.
type Artifacts struct {
	TS       int64
	Nonce    string
	Method   string
	Resource string
	Host     string
	Port     string
	Hash     string
	Ext      string
	App      string
	Dlg      string
	ID       string
	MAC      string
}
