package ledger

import "golang.org/x/crypto/bcrypt"

// PasswordHasher turns passwords into opaque digests and checks them.
// The engine stores and compares digests only.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) bool
}

// bcryptHasher implements PasswordHasher with bcrypt at the default cost.
type bcryptHasher struct{}

// NewBcryptHasher creates a bcrypt-backed password hasher.
func NewBcryptHasher() PasswordHasher {
	return bcryptHasher{}
}

func (bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (bcryptHasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
