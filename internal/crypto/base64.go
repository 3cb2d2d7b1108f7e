package crypto

import (
	"encoding/base64"
	"encoding/hex"
)

// ToBase64 encodes bytes to standard base64 with padding.
// All exported key material and signatures use this encoding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes standard base64 (with padding) to bytes.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// DecodeBase64 decodes base64 with or without padding, in either the
// standard or the URL-safe alphabet. Use it for input that may have been
// produced by other tools.
func DecodeBase64(s string) ([]byte, error) {
	// Try standard base64 with padding first
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	// Try standard base64 without padding
	data, err = base64.RawStdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	// Try URL-safe with padding
	data, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	// Try URL-safe without padding
	return base64.RawURLEncoding.DecodeString(s)
}

// ToHex encodes bytes as lowercase hex.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}
