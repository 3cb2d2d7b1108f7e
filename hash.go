package supersphincs

import (
	"time"

	"github.com/supersphincs/supersphincs-go/internal/crypto"
	"github.com/supersphincs/supersphincs-go/internal/memzero"
	"github.com/supersphincs/supersphincs-go/internal/metrics"
)

// Digest is a SHA-512 message digest in binary and lowercase hex form.
type Digest struct {
	Binary []byte
	Hex    string
}

// Hash returns the SHA-512 digest of message. Each call computes the digest
// afresh.
func (s *Scheme) Hash(message []byte) (_ *Digest, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpHash, start, err, errorType(err)) }()

	sum, err := s.digest(message)
	if err != nil {
		return nil, err
	}
	return &Digest{Binary: sum, Hex: crypto.ToHex(sum)}, nil
}

// HashBinary is Hash without the hex form.
func (s *Scheme) HashBinary(message []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpHash, start, err, errorType(err)) }()

	return s.digest(message)
}

// HashString hashes the UTF-8 bytes of message. The byte copy made from the
// string is zeroed before returning.
func (s *Scheme) HashString(message string) (*Digest, error) {
	b := []byte(message)
	defer memzero.Zero(b)

	return s.Hash(b)
}

// digest computes SHA-512 with the selected backend, falling back to the
// direct implementation when the selected one fails.
func (s *Scheme) digest(message []byte) ([]byte, error) {
	sum, err := s.digester.Sum(message)
	if err == nil {
		return sum, nil
	}

	s.logger.Debug("digest backend failed, using fallback",
		"backend", s.digester.Name(),
		"fallback", s.fallback.Name(),
		"error", err,
	)

	sum, ferr := s.fallback.Sum(message)
	if ferr != nil {
		return nil, &PrimitiveError{Primitive: "SHA-512", Op: "hash", Err: ferr}
	}
	return sum, nil
}
