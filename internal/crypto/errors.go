package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when the authentication tag does not
	// verify, which covers both a wrong password and a modified envelope.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrCiphertextTooShort is returned when an envelope is shorter than
	// IV + salt + tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidSaltSize is returned when the KDF salt size is invalid.
	ErrInvalidSaltSize = errors.New("invalid salt size")

	// ErrRandomSource is returned when the random source cannot supply an IV
	// or salt.
	ErrRandomSource = errors.New("random source failure")
)
