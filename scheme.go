package supersphincs

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/supersphincs/supersphincs-go/internal/metrics"
	"github.com/supersphincs/supersphincs-go/internal/primitive"
)

// Layout holds the byte sizes of every key and signature region. It is
// computed once by New from the two underlying algorithms and never changes.
type Layout struct {
	RSAPublicKeyBytes  int
	RSAPrivateKeyBytes int
	RSASignatureBytes  int

	SPHINCSPublicKeyBytes  int
	SPHINCSPrivateKeyBytes int
	SPHINCSSignatureBytes  int

	PublicKeyBytes  int // RSAPublicKeyBytes + SPHINCSPublicKeyBytes
	PrivateKeyBytes int // RSAPrivateKeyBytes + SPHINCSPrivateKeyBytes
	SignatureBytes  int // RSASignatureBytes + SPHINCSSignatureBytes
	HashBytes       int
}

func newLayout(rsa, sphincs primitive.Signer) Layout {
	return Layout{
		RSAPublicKeyBytes:      rsa.PublicKeySize(),
		RSAPrivateKeyBytes:     rsa.PrivateKeySize(),
		RSASignatureBytes:      rsa.SignatureSize(),
		SPHINCSPublicKeyBytes:  sphincs.PublicKeySize(),
		SPHINCSPrivateKeyBytes: sphincs.PrivateKeySize(),
		SPHINCSSignatureBytes:  sphincs.SignatureSize(),
		PublicKeyBytes:         rsa.PublicKeySize() + sphincs.PublicKeySize(),
		PrivateKeyBytes:        rsa.PrivateKeySize() + sphincs.PrivateKeySize(),
		SignatureBytes:         rsa.SignatureSize() + sphincs.SignatureSize(),
		HashBytes:              primitive.DigestSize,
	}
}

// splitPublicKey returns views of the RSA and SPHINCS regions of pub.
func (l Layout) splitPublicKey(pub []byte) (rsa, sphincs []byte) {
	return pub[:l.RSAPublicKeyBytes:l.RSAPublicKeyBytes], pub[l.RSAPublicKeyBytes:]
}

// splitPrivateKey returns views of the RSA and SPHINCS regions of priv.
func (l Layout) splitPrivateKey(priv []byte) (rsa, sphincs []byte) {
	return priv[:l.RSAPrivateKeyBytes:l.RSAPrivateKeyBytes], priv[l.RSAPrivateKeyBytes:]
}

// splitSignature returns views of the RSA and SPHINCS regions of sig.
func (l Layout) splitSignature(sig []byte) (rsa, sphincs []byte) {
	return sig[:l.RSASignatureBytes:l.RSASignatureBytes], sig[l.RSASignatureBytes:]
}

// Scheme is a configured hybrid RSA + SLH-DSA signature scheme.
//
// A Scheme holds no key state and is safe for concurrent use. Every method
// allocates its own working buffers and zeroes the sensitive ones before
// returning.
type Scheme struct {
	layout   Layout
	rsa      primitive.Signer
	sphincs  primitive.Signer
	digester primitive.Digester
	fallback primitive.Digester
	logger   *slog.Logger
	metrics  *metrics.Collector
}

// New creates a Scheme and computes its Layout.
//
// Example:
//
//	scheme, err := supersphincs.New(
//	    supersphincs.WithRSABits(3072),
//	    supersphincs.WithSPHINCSParameterSet("SLH-DSA-SHAKE-256s"),
//	)
func New(opts ...Option) (*Scheme, error) {
	cfg := &schemeConfig{
		rsaBits:             DefaultRSABits,
		sphincsParameterSet: DefaultSPHINCSParameterSet,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rsa, err := primitive.NewRSA(cfg.rsaBits, cfg.rand)
	if err != nil {
		return nil, &ValidationError{Field: "rsaBits", Message: err.Error()}
	}
	sphincs, err := primitive.NewSLHDSA(cfg.sphincsParameterSet, cfg.rand)
	if err != nil {
		return nil, &ValidationError{Field: "sphincsParameterSet", Message: err.Error()}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Scheme{
		layout:   newLayout(rsa, sphincs),
		rsa:      rsa,
		sphincs:  sphincs,
		digester: primitive.SelectDigester(),
		fallback: primitive.DirectDigester{},
		logger:   logger,
	}
	if cfg.registerer != nil {
		s.metrics, err = newCollector(cfg)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("scheme initialized",
		"rsa", rsa.Name(),
		"sphincs", sphincs.Name(),
		"digest", s.digester.Name(),
		"public_key_bytes", s.layout.PublicKeyBytes,
		"private_key_bytes", s.layout.PrivateKeyBytes,
		"signature_bytes", s.layout.SignatureBytes,
	)

	return s, nil
}

// newCollector registers metrics, turning a registration panic into an error.
func newCollector(cfg *schemeConfig) (c *metrics.Collector, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ValidationError{Field: "metrics", Message: fmt.Sprint(r)}
		}
	}()
	return metrics.New(cfg.registerer), nil
}

// Layout returns the scheme's size constants.
func (s *Scheme) Layout() Layout { return s.layout }

// PublicKeyBytes is the size of a hybrid public key.
func (s *Scheme) PublicKeyBytes() int { return s.layout.PublicKeyBytes }

// PrivateKeyBytes is the size of a hybrid private key.
func (s *Scheme) PrivateKeyBytes() int { return s.layout.PrivateKeyBytes }

// SignatureBytes is the size of a detached hybrid signature.
func (s *Scheme) SignatureBytes() int { return s.layout.SignatureBytes }

// HashBytes is the size of a message digest.
func (s *Scheme) HashBytes() int { return s.layout.HashBytes }

// Algorithms returns the names of the RSA and SLH-DSA instances in use.
func (s *Scheme) Algorithms() (rsa, sphincs string) {
	return s.rsa.Name(), s.sphincs.Name()
}

func checkLength(field string, got, want int) error {
	if got != want {
		return &ValidationError{Field: field, Message: fmt.Sprintf("got %d bytes, want %d", got, want)}
	}
	return nil
}

// primitiveError attributes err to the signer that produced it.
func primitiveError(signer primitive.Signer, op string, err error) error {
	if errors.Is(err, primitive.ErrInvalidPrivateKey) {
		return &ValidationError{Field: "privateKey", Message: fmt.Sprintf("%s: %v", signer.Name(), err)}
	}
	return &PrimitiveError{Primitive: signer.Name(), Op: op, Err: err}
}
