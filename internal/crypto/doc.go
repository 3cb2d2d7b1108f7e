// Package crypto provides the password envelope used to protect exported
// private keys at rest, together with the encoding helpers shared by the
// rest of the module.
//
// # Algorithm Suite
//
//   - PBKDF2 with HMAC-SHA-512 (RFC 8018): stretches a password into a
//     256-bit key. The iteration count ([KDFIterations], one million) and
//     the 32-byte salt size are fixed constants.
//
//   - AES-256-GCM: authenticated encryption of the key material. The
//     16-byte tag makes a wrong password indistinguishable from tampering;
//     both fail with [ErrDecryptionFailed].
//
// # Envelope Layout
//
// [Encrypt] returns a flat byte string with no length prefixes:
//
//	IV (12) || salt (32) || ciphertext || tag (16)
//
// The ciphertext length is recovered by subtraction. A fresh IV and salt are
// drawn from crypto/rand for every call and never reused.
//
// # Memory Hygiene
//
// The IV, salt, derived key and intermediate ciphertext are zeroed with
// [memzero] before each function returns, including on error paths.
//
// # Base64 Encoding
//
// [ToBase64] writes standard base64 with padding. [DecodeBase64] accepts
// standard or URL-safe input, padded or not.
package crypto
