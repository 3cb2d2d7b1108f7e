package supersphincs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/supersphincs/supersphincs-go/internal/crypto"
	"github.com/supersphincs/supersphincs-go/internal/memzero"
	"github.com/supersphincs/supersphincs-go/internal/metrics"
)

// SignDetached signs the SHA-512 digest of message with both halves of
// privateKey concurrently and returns rsaSignature || sphincsSignature.
//
// privateKey is read but never modified or retained. The digest and the two
// raw signatures are zeroed before returning.
func (s *Scheme) SignDetached(ctx context.Context, message, privateKey []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpSign, start, err, errorType(err)) }()

	return s.signDetached(ctx, message, privateKey)
}

// SignDetachedBase64 is SignDetached with the signature encoded as standard
// base64.
func (s *Scheme) SignDetachedBase64(ctx context.Context, message, privateKey []byte) (string, error) {
	sig, err := s.SignDetached(ctx, message, privateKey)
	if err != nil {
		return "", err
	}
	return crypto.ToBase64(sig), nil
}

// Sign returns the signed message signature || message.
func (s *Scheme) Sign(ctx context.Context, message, privateKey []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpSign, start, err, errorType(err)) }()

	sig, err := s.signDetached(ctx, message, privateKey)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(sig)

	return concat(len(sig)+len(message), sig, message), nil
}

// SignString signs the UTF-8 bytes of message. The byte copy made from the
// string is zeroed before returning, including when signing fails.
func (s *Scheme) SignString(ctx context.Context, message string, privateKey []byte) ([]byte, error) {
	b := []byte(message)
	defer memzero.Zero(b)

	return s.Sign(ctx, b, privateKey)
}

// SignBase64 is Sign with the signed message encoded as standard base64.
func (s *Scheme) SignBase64(ctx context.Context, message, privateKey []byte) (string, error) {
	signed, err := s.Sign(ctx, message, privateKey)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(signed)

	return crypto.ToBase64(signed), nil
}

func (s *Scheme) signDetached(ctx context.Context, message, privateKey []byte) ([]byte, error) {
	if err := checkLength("privateKey", len(privateKey), s.layout.PrivateKeyBytes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var scrub memzero.Scrubber
	defer scrub.Wipe()

	digest, err := s.digest(message)
	if err != nil {
		return nil, err
	}
	scrub.Track(digest)

	rsaPriv, spxPriv := s.layout.splitPrivateKey(privateKey)

	var rsaSig, spxSig []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		rsaSig, err = s.rsa.SignDetached(digest, rsaPriv)
		if err != nil {
			return primitiveError(s.rsa, "sign", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		spxSig, err = s.sphincs.SignDetached(digest, spxPriv)
		if err != nil {
			return primitiveError(s.sphincs, "sign", err)
		}
		return nil
	})
	err = g.Wait()
	scrub.TrackAll(rsaSig, spxSig)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := checkLength("rsaSignature", len(rsaSig), s.layout.RSASignatureBytes); err != nil {
		return nil, &PrimitiveError{Primitive: s.rsa.Name(), Op: "sign", Err: err}
	}
	if err := checkLength("sphincsSignature", len(spxSig), s.layout.SPHINCSSignatureBytes); err != nil {
		return nil, &PrimitiveError{Primitive: s.sphincs.Name(), Op: "sign", Err: err}
	}

	return concat(s.layout.SignatureBytes, rsaSig, spxSig), nil
}
