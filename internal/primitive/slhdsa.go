package primitive

import (
	"crypto/rand"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/slhdsa"
)

// DefaultSLHDSAParameterSet is the parameter set used when none is configured.
const DefaultSLHDSAParameterSet = "SLH-DSA-SHA2-256f"

var slhdsaParameterSets = map[string]slhdsa.ID{
	"SLH-DSA-SHA2-128s":  slhdsa.SHA2_128s,
	"SLH-DSA-SHAKE-128s": slhdsa.SHAKE_128s,
	"SLH-DSA-SHA2-128f":  slhdsa.SHA2_128f,
	"SLH-DSA-SHAKE-128f": slhdsa.SHAKE_128f,
	"SLH-DSA-SHA2-192s":  slhdsa.SHA2_192s,
	"SLH-DSA-SHAKE-192s": slhdsa.SHAKE_192s,
	"SLH-DSA-SHA2-192f":  slhdsa.SHA2_192f,
	"SLH-DSA-SHAKE-192f": slhdsa.SHAKE_192f,
	"SLH-DSA-SHA2-256s":  slhdsa.SHA2_256s,
	"SLH-DSA-SHAKE-256s": slhdsa.SHAKE_256s,
	"SLH-DSA-SHA2-256f":  slhdsa.SHA2_256f,
	"SLH-DSA-SHAKE-256f": slhdsa.SHAKE_256f,
}

// SLHDSAParameterSets returns the supported parameter set names, sorted.
func SLHDSAParameterSets() []string {
	return slices.Sorted(maps.Keys(slhdsaParameterSets))
}

// SLHDSA is the stateless hash-based signature algorithm (FIPS 205).
type SLHDSA struct {
	name   string
	scheme sign.Scheme
	rand   io.Reader
}

// NewSLHDSA returns an SLH-DSA signer for the named parameter set. A nil
// rand uses crypto/rand.
func NewSLHDSA(name string, random io.Reader) (*SLHDSA, error) {
	id, ok := slhdsaParameterSets[name]
	if !ok {
		return nil, fmt.Errorf("%w: SLH-DSA parameter set %q", ErrUnsupportedParameters, name)
	}
	if random == nil {
		random = rand.Reader
	}
	return &SLHDSA{name: name, scheme: id.Scheme(), rand: random}, nil
}

func (s *SLHDSA) Name() string        { return s.name }
func (s *SLHDSA) PublicKeySize() int  { return s.scheme.PublicKeySize() }
func (s *SLHDSA) PrivateKeySize() int { return s.scheme.PrivateKeySize() }
func (s *SLHDSA) SignatureSize() int  { return s.scheme.SignatureSize() }

// GenerateKey derives a key pair from a fresh seed read from the random source.
func (s *SLHDSA) GenerateKey() ([]byte, []byte, error) {
	seed := make([]byte, s.scheme.SeedSize())
	defer clear(seed)
	if _, err := io.ReadFull(s.rand, seed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	pk, sk := s.scheme.DeriveKey(seed)

	pub, err := pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	priv, err := sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return pub, priv, nil
}

// SignDetached signs msg with the encoded private key.
func (s *SLHDSA) SignDetached(msg, privateKey []byte) (sig []byte, err error) {
	if err := checkLen("SLH-DSA private key", len(privateKey), s.PrivateKeySize()); err != nil {
		return nil, err
	}
	sk, err := s.scheme.UnmarshalBinaryPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	defer func() {
		if r := recover(); r != nil {
			sig, err = nil, fmt.Errorf("%w: %v", ErrSigning, r)
		}
	}()

	sig = s.scheme.Sign(sk, msg, nil)
	if len(sig) != s.SignatureSize() {
		return nil, fmt.Errorf("%w: signature is %d bytes, want %d", ErrSigning, len(sig), s.SignatureSize())
	}
	return sig, nil
}

// VerifyDetached reports whether sig is a valid signature of msg.
func (s *SLHDSA) VerifyDetached(sig, msg, publicKey []byte) (ok bool) {
	if len(sig) != s.SignatureSize() || len(publicKey) != s.PublicKeySize() {
		return false
	}
	pk, err := s.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return false
	}

	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.scheme.Verify(pk, msg, sig, nil)
}
