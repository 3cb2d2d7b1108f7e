package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/supersphincs/supersphincs-go/internal/memzero"
)

// randReader is the random source used for IVs and salts.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

func random() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// Encrypt seals plaintext under a key derived from password.
//
// A fresh IV and salt are drawn for every call. The returned envelope is the
// flat concatenation:
//
//	IV (12 bytes) || salt (32 bytes) || ciphertext || tag (16 bytes)
//
// The plaintext is left untouched; the caller owns it.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	var scrub memzero.Scrubber
	defer scrub.Wipe()

	iv := scrub.Track(make([]byte, AESNonceSize))
	if _, err := io.ReadFull(random(), iv); err != nil {
		return nil, fmt.Errorf("%w: iv: %v", ErrRandomSource, err)
	}

	salt := scrub.Track(make([]byte, KDFSaltSize))
	if _, err := io.ReadFull(random(), salt); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrRandomSource, err)
	}

	key, err := DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	scrub.Track(key)

	sealed, err := encryptAESGCM(key, iv, plaintext)
	if err != nil {
		return nil, err
	}
	scrub.Track(sealed)

	envelope := make([]byte, 0, EnvelopeOverhead+len(plaintext))
	envelope = append(envelope, iv...)
	envelope = append(envelope, salt...)
	envelope = append(envelope, sealed...)

	return envelope, nil
}

// Decrypt opens an envelope produced by Encrypt. Envelopes shorter than
// EnvelopeOverhead fail with ErrCiphertextTooShort; a wrong password or any
// modification fails with ErrDecryptionFailed. No partial plaintext is
// returned on failure.
func Decrypt(envelope []byte, password string) ([]byte, error) {
	if len(envelope) < EnvelopeOverhead {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrCiphertextTooShort, len(envelope), EnvelopeOverhead)
	}

	var scrub memzero.Scrubber
	defer scrub.Wipe()

	iv := scrub.Track(append([]byte(nil), envelope[:AESNonceSize]...))
	salt := scrub.Track(append([]byte(nil), envelope[AESNonceSize:AESNonceSize+KDFSaltSize]...))
	sealed := envelope[AESNonceSize+KDFSaltSize:]

	key, err := DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	scrub.Track(key)

	return decryptAESGCM(key, iv, sealed)
}

// PlaintextSize returns the plaintext length carried by an envelope of the
// given length, or -1 if the length cannot hold an envelope.
func PlaintextSize(envelopeLen int) int {
	if envelopeLen < EnvelopeOverhead {
		return -1
	}
	return envelopeLen - EnvelopeOverhead
}
