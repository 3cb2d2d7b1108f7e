// Package primitive adapts the two underlying signature algorithms to the
// fixed-width byte interface the hybrid scheme composes.
//
// Every key and signature crosses this boundary as a byte slice of exactly
// the advertised size. Verification never panics: malformed keys and
// signatures of the wrong length simply fail to verify.
package primitive

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedParameters is returned for an unknown RSA size or
	// SLH-DSA parameter set.
	ErrUnsupportedParameters = errors.New("unsupported parameters")

	// ErrInvalidPrivateKey is returned when private key bytes cannot be decoded.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrKeyGeneration is returned when a key pair cannot be generated.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrSigning is returned when the underlying algorithm fails to sign.
	ErrSigning = errors.New("signing failed")
)

// Signer is a detached-signature algorithm with fixed-size keys and
// signatures.
type Signer interface {
	// Name identifies the algorithm and its parameters, e.g. "RSA-2048".
	Name() string

	PublicKeySize() int
	PrivateKeySize() int
	SignatureSize() int

	// GenerateKey returns freshly generated encoded public and private keys.
	GenerateKey() (publicKey, privateKey []byte, err error)

	// SignDetached signs msg with the encoded private key.
	SignDetached(msg, privateKey []byte) ([]byte, error)

	// VerifyDetached reports whether sig is a valid signature of msg under
	// the encoded public key.
	VerifyDetached(sig, msg, publicKey []byte) bool
}

// checkLen validates an encoded buffer length.
func checkLen(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s is %d bytes, want %d", ErrInvalidPrivateKey, what, got, want)
	}
	return nil
}
