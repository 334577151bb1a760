package ports

// TokenIssuer signs and verifies stateless session tokens. Verification is
// pure computation from the token plus the server secret; there is no
// revocation store, so tokens stay valid until natural expiry.
type TokenIssuer interface {
	Issue(accountID uint64) (string, error)
	// Verify returns the account ID encoded in the token, or
	// domain.ErrInvalidToken when the signature is wrong, the token is
	// malformed, or it has expired.
	Verify(token string) (uint64, error)
}
