package primitive

import (
	"crypto"
	"crypto/sha512"
	"errors"
	"fmt"
)

// DigestSize is the SHA-512 output size in bytes.
const DigestSize = sha512.Size

// ErrDigestUnavailable is returned when a digest implementation cannot be used.
var ErrDigestUnavailable = errors.New("digest unavailable")

// Digester computes SHA-512.
type Digester interface {
	Name() string
	Sum(data []byte) ([]byte, error)
}

// RegistryDigester resolves SHA-512 through the crypto.Hash registry, so a
// replacement implementation registered with crypto.RegisterHash is used.
type RegistryDigester struct{}

func (RegistryDigester) Name() string { return "crypto.SHA512" }

func (RegistryDigester) Sum(data []byte) ([]byte, error) {
	if !crypto.SHA512.Available() {
		return nil, fmt.Errorf("%w: crypto.SHA512 is not linked", ErrDigestUnavailable)
	}
	h := crypto.SHA512.New()
	h.Write(data)
	return h.Sum(nil), nil
}

// DirectDigester calls crypto/sha512 directly. It cannot fail.
type DirectDigester struct{}

func (DirectDigester) Name() string { return "crypto/sha512" }

func (DirectDigester) Sum(data []byte) ([]byte, error) {
	sum := sha512.Sum512(data)
	return sum[:], nil
}

// SelectDigester returns the registry digester when it is usable and the
// direct one otherwise.
func SelectDigester() Digester {
	if crypto.SHA512.Available() {
		return RegistryDigester{}
	}
	return DirectDigester{}
}
