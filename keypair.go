package supersphincs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/supersphincs/supersphincs-go/internal/memzero"
	"github.com/supersphincs/supersphincs-go/internal/metrics"
)

// KeyPair is a hybrid key pair.
//
// PublicKey is rsaPublic || sphincsPublic and PrivateKey is
// rsaPrivate || sphincsPrivate. A KeyPair without a PrivateKey is a
// verify-only identity. The caller owns both buffers and should call Destroy
// once the pair is no longer needed.
type KeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// HasPrivateKey reports whether the pair can sign.
func (kp *KeyPair) HasPrivateKey() bool {
	return kp != nil && len(kp.PrivateKey) > 0
}

// Destroy zeroes both keys and releases them.
func (kp *KeyPair) Destroy() {
	if kp == nil {
		return
	}
	memzero.Zero(kp.PrivateKey)
	memzero.Zero(kp.PublicKey)
	kp.PrivateKey = nil
	kp.PublicKey = nil
}

// KeyPair generates an RSA key pair and an SLH-DSA key pair concurrently and
// packs them into a hybrid KeyPair. The unpacked halves are zeroed before
// returning.
func (s *Scheme) KeyPair(ctx context.Context) (_ *KeyPair, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpKeyPair, start, err, errorType(err)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var scrub memzero.Scrubber
	defer scrub.Wipe()

	var rsaPub, rsaPriv, spxPub, spxPriv []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		rsaPub, rsaPriv, err = s.rsa.GenerateKey()
		if err != nil {
			return primitiveError(s.rsa, "keypair", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		spxPub, spxPriv, err = s.sphincs.GenerateKey()
		if err != nil {
			return primitiveError(s.sphincs, "keypair", err)
		}
		return nil
	})
	err = g.Wait()
	scrub.TrackAll(rsaPub, rsaPriv, spxPub, spxPriv)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kp := &KeyPair{
		PublicKey:  concat(s.layout.PublicKeyBytes, rsaPub, spxPub),
		PrivateKey: concat(s.layout.PrivateKeyBytes, rsaPriv, spxPriv),
	}

	s.logger.Debug("generated key pair", "rsa", s.rsa.Name(), "sphincs", s.sphincs.Name())
	return kp, nil
}

// concat copies parts into a new buffer of exactly size bytes.
func concat(size int, parts ...[]byte) []byte {
	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
