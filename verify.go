package supersphincs

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/supersphincs/supersphincs-go/internal/crypto"
	"github.com/supersphincs/supersphincs-go/internal/memzero"
	"github.com/supersphincs/supersphincs-go/internal/metrics"
)

// VerifyDetached reports whether signature is a valid hybrid signature of
// message under publicKey. Both the RSA and the SLH-DSA signature are always
// checked, concurrently, and both must be valid.
//
// A false result with a nil error means the signature is invalid. Errors are
// reserved for malformed input (wrong signature or key length) and
// cancellation.
func (s *Scheme) VerifyDetached(ctx context.Context, signature, message, publicKey []byte) (_ bool, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpVerify, start, err, errorType(err)) }()

	return s.verifyDetached(ctx, signature, message, publicKey)
}

// VerifyDetachedBase64 is VerifyDetached for a base64 encoded signature.
func (s *Scheme) VerifyDetachedBase64(ctx context.Context, signature string, message, publicKey []byte) (bool, error) {
	sig, err := crypto.DecodeBase64(signature)
	if err != nil {
		return false, &ValidationError{Field: "signature", Message: "invalid base64 encoding"}
	}
	defer memzero.Zero(sig)

	return s.VerifyDetached(ctx, sig, message, publicKey)
}

// Open verifies a signed message produced by Sign and returns a copy of the
// message it carries. A signature that does not verify fails with an
// AuthenticationError and no message is returned.
func (s *Scheme) Open(ctx context.Context, signed, publicKey []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpOpen, start, err, errorType(err)) }()

	return s.open(ctx, signed, publicKey)
}

// OpenBase64 is Open for a base64 encoded signed message. The decoded
// buffer is zeroed before returning.
func (s *Scheme) OpenBase64(ctx context.Context, signed string, publicKey []byte) ([]byte, error) {
	raw, err := crypto.DecodeBase64(signed)
	if err != nil {
		return nil, &ValidationError{Field: "signedMessage", Message: "invalid base64 encoding"}
	}
	defer memzero.Zero(raw)

	return s.Open(ctx, raw, publicKey)
}

// OpenString is OpenBase64 returning the message as a string.
func (s *Scheme) OpenString(ctx context.Context, signed string, publicKey []byte) (string, error) {
	message, err := s.OpenBase64(ctx, signed, publicKey)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(message)

	return string(message), nil
}

func (s *Scheme) open(ctx context.Context, signed, publicKey []byte) ([]byte, error) {
	if len(signed) < s.layout.SignatureBytes {
		return nil, &ValidationError{
			Field:   "signedMessage",
			Message: "shorter than the signature region",
		}
	}

	signature, message := signed[:s.layout.SignatureBytes], signed[s.layout.SignatureBytes:]

	ok, err := s.verifyDetached(ctx, signature, message, publicKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &AuthenticationError{Message: "invalid hybrid signature"}
	}

	return bytes.Clone(message), nil
}

func (s *Scheme) verifyDetached(ctx context.Context, signature, message, publicKey []byte) (bool, error) {
	if err := checkLength("signature", len(signature), s.layout.SignatureBytes); err != nil {
		return false, err
	}
	if err := checkLength("publicKey", len(publicKey), s.layout.PublicKeyBytes); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	digest, err := s.digest(message)
	if err != nil {
		return false, err
	}
	defer memzero.Zero(digest)

	rsaSig, spxSig := s.layout.splitSignature(signature)
	rsaPub, spxPub := s.layout.splitPublicKey(publicKey)

	// Both checks run to completion regardless of either outcome.
	var rsaOK, spxOK bool
	var wg sync.WaitGroup
	wg.Go(func() { rsaOK = s.rsa.VerifyDetached(rsaSig, digest, rsaPub) })
	wg.Go(func() { spxOK = s.sphincs.VerifyDetached(spxSig, digest, spxPub) })
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !rsaOK || !spxOK {
		s.logger.Debug("hybrid signature rejected", "rsa_valid", rsaOK, "sphincs_valid", spxOK)
	}
	return rsaOK && spxOK, nil
}
