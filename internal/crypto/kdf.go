package crypto

import (
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/supersphincs/supersphincs-go/internal/memzero"
)

// kdfIterations is KDFIterations outside of tests.
var kdfIterations = KDFIterations

// DeriveKey stretches password into an AES-256 key using PBKDF2 with
// HMAC-SHA-512 as the PRF. The salt must be KDFSaltSize bytes.
func DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != KDFSaltSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), KDFSaltSize)
	}

	pw := []byte(password)
	defer memzero.Zero(pw)

	return pbkdf2.Key(pw, salt, kdfIterations, AESKeySize, sha512.New), nil
}
