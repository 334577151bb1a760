package ports

// PasswordHasher abstracts the one-way credential hashing algorithm, keeping
// the service layer independent of bcrypt specifics.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext matches the digest. A malformed
	// digest yields false, never an error or panic.
	Verify(password, digest string) bool
}
