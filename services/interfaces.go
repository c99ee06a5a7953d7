package services

// PasswordHasher abstracts the password hashing primitive consumed by the
// auth service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) error
}
