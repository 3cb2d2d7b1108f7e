package primitive

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"slices"
)

// Supported RSA modulus sizes in bits.
var RSABitSizes = []int{2048, 3072, 4096}

// DefaultRSABits is the modulus size used when none is configured.
const DefaultRSABits = 2048

const rsaExponentSize = 4

// RSA signs with RSASSA-PKCS1-v1_5 over SHA-256 of the input.
//
// Keys use a fixed-width big-endian encoding where k is the modulus size in
// bytes:
//
//	public:  n (k) || e (4)
//	private: n (k) || e (4) || d (k) || p (k/2) || q (k/2)
type RSA struct {
	bits int
	rand io.Reader
}

// NewRSA returns an RSA signer for the given modulus size. A nil rand
// uses crypto/rand.
func NewRSA(bits int, random io.Reader) (*RSA, error) {
	if !slices.Contains(RSABitSizes, bits) {
		return nil, fmt.Errorf("%w: RSA modulus of %d bits", ErrUnsupportedParameters, bits)
	}
	if random == nil {
		random = rand.Reader
	}
	return &RSA{bits: bits, rand: random}, nil
}

func (r *RSA) k() int { return r.bits / 8 }

func (r *RSA) Name() string        { return fmt.Sprintf("RSA-%d", r.bits) }
func (r *RSA) PublicKeySize() int  { return r.k() + rsaExponentSize }
func (r *RSA) PrivateKeySize() int { return 3*r.k() + rsaExponentSize }
func (r *RSA) SignatureSize() int  { return r.k() }

// GenerateKey generates a new two-prime RSA key.
func (r *RSA) GenerateKey() ([]byte, []byte, error) {
	key, err := rsa.GenerateKey(r.rand, r.bits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	if len(key.Primes) != 2 {
		return nil, nil, fmt.Errorf("%w: expected two primes, got %d", ErrKeyGeneration, len(key.Primes))
	}
	return r.encodePublic(&key.PublicKey), r.encodePrivate(key), nil
}

// SignDetached signs SHA-256(msg) with the encoded private key.
func (r *RSA) SignDetached(msg, privateKey []byte) ([]byte, error) {
	key, err := r.decodePrivate(privateKey)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(msg)
	sig, err := rsa.SignPKCS1v15(r.rand, key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return sig, nil
}

// VerifyDetached reports whether sig is a valid PKCS#1 v1.5 signature of
// SHA-256(msg).
func (r *RSA) VerifyDetached(sig, msg, publicKey []byte) bool {
	if len(sig) != r.SignatureSize() {
		return false
	}
	pub, ok := r.decodePublic(publicKey)
	if !ok {
		return false
	}

	digest := sha256.Sum256(msg)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}

func (r *RSA) encodePublic(pub *rsa.PublicKey) []byte {
	out := make([]byte, r.PublicKeySize())
	pub.N.FillBytes(out[:r.k()])
	binary.BigEndian.PutUint32(out[r.k():], uint32(pub.E))
	return out
}

func (r *RSA) encodePrivate(key *rsa.PrivateKey) []byte {
	k, half := r.k(), r.k()/2
	out := make([]byte, r.PrivateKeySize())

	off := 0
	key.N.FillBytes(out[off : off+k])
	off += k
	binary.BigEndian.PutUint32(out[off:], uint32(key.E))
	off += rsaExponentSize
	key.D.FillBytes(out[off : off+k])
	off += k
	key.Primes[0].FillBytes(out[off : off+half])
	off += half
	key.Primes[1].FillBytes(out[off : off+half])

	return out
}

func (r *RSA) decodePublic(b []byte) (*rsa.PublicKey, bool) {
	if len(b) != r.PublicKeySize() {
		return nil, false
	}
	n := new(big.Int).SetBytes(b[:r.k()])
	e := binary.BigEndian.Uint32(b[r.k():])
	if n.BitLen() != r.bits || e < 3 || e&1 == 0 || e > 1<<31-1 {
		return nil, false
	}
	return &rsa.PublicKey{N: n, E: int(e)}, true
}

func (r *RSA) decodePrivate(b []byte) (*rsa.PrivateKey, error) {
	if err := checkLen("RSA private key", len(b), r.PrivateKeySize()); err != nil {
		return nil, err
	}
	k, half := r.k(), r.k()/2

	pub, ok := r.decodePublic(b[:k+rsaExponentSize])
	if !ok {
		return nil, fmt.Errorf("%w: malformed RSA modulus or exponent", ErrInvalidPrivateKey)
	}

	off := k + rsaExponentSize
	d := new(big.Int).SetBytes(b[off : off+k])
	off += k
	p := new(big.Int).SetBytes(b[off : off+half])
	off += half
	q := new(big.Int).SetBytes(b[off : off+half])

	key := &rsa.PrivateKey{
		PublicKey: *pub,
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	key.Precompute()
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return key, nil
}
