package supersphincs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/supersphincs/supersphincs-go/internal/crypto"
	"github.com/supersphincs/supersphincs-go/internal/memzero"
	"github.com/supersphincs/supersphincs-go/internal/metrics"
)

// ExportedKeys is the persisted form of a KeyPair.
// WARNING: the private section contains private key material, encrypted only
// when a password was given - handle securely.
//
// Each private field holds one grouping of public and private bytes:
//
//	rsa:          rsaPublic || rsaPrivate
//	sphincs:      sphincsPublic || sphincsPrivate
//	superSphincs: publicKey || privateKey
//
// Every grouping is standard base64 of either the raw bytes or a password
// envelope (IV || salt || ciphertext || tag), and can be recovered on its own.
type ExportedKeys struct {
	Private *PrivateKeys `json:"private" yaml:"private"`
	Public  PublicKeys   `json:"public" yaml:"public"`
}

// PrivateKeys is the private section of ExportedKeys. A nil field is absent.
type PrivateKeys struct {
	RSA          *string `json:"rsa" yaml:"rsa"`
	SPHINCS      *string `json:"sphincs" yaml:"sphincs"`
	SuperSphincs *string `json:"superSphincs" yaml:"superSphincs"`
}

func (p *PrivateKeys) empty() bool {
	return p == nil || (p.RSA == nil && p.SPHINCS == nil && p.SuperSphincs == nil)
}

// PublicKeys is the public section of ExportedKeys. SuperSphincs always
// decodes to the concatenation of RSA and SPHINCS.
type PublicKeys struct {
	RSA          string `json:"rsa" yaml:"rsa"`
	SPHINCS      string `json:"sphincs" yaml:"sphincs"`
	SuperSphincs string `json:"superSphincs" yaml:"superSphincs"`
}

// Passwords protects the two legacy groupings with separate passwords.
// When RSA and SPHINCS are equal this is the same as a single password.
type Passwords struct {
	RSA     string
	SPHINCS string
}

func (p Passwords) unified() bool { return p.RSA == p.SPHINCS }

// ParseExportedKeys decodes the JSON form of ExportedKeys.
func ParseExportedKeys(data []byte) (*ExportedKeys, error) {
	var keys ExportedKeys
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, &ValidationError{Field: "keyData", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return &keys, nil
}

// PublicOnly returns a copy of e without private key material.
func (e *ExportedKeys) PublicOnly() *ExportedKeys {
	return &ExportedKeys{Private: &PrivateKeys{}, Public: e.Public}
}

// Validate checks encodings and lengths against layout without decrypting
// anything. Private groupings may be raw or enveloped.
func (e *ExportedKeys) Validate(layout Layout) error {
	pubRSA, err := decodeOptional("public.rsa", e.Public.RSA, layout.RSAPublicKeyBytes)
	if err != nil {
		return err
	}
	pubSPX, err := decodeOptional("public.sphincs", e.Public.SPHINCS, layout.SPHINCSPublicKeyBytes)
	if err != nil {
		return err
	}
	pubAll, err := decodeOptional("public.superSphincs", e.Public.SuperSphincs, layout.PublicKeyBytes)
	if err != nil {
		return err
	}
	if (pubRSA == nil) != (pubSPX == nil) {
		return &ValidationError{Field: "public", Message: "rsa and sphincs must be given together"}
	}
	if pubAll != nil && pubRSA != nil && !bytes.Equal(pubAll, concat(layout.PublicKeyBytes, pubRSA, pubSPX)) {
		return &ValidationError{Field: "public.superSphincs", Message: "does not equal rsa || sphincs"}
	}

	if e.Private.empty() {
		if pubAll == nil && pubRSA == nil {
			return &ValidationError{Field: "public", Message: "no public key present"}
		}
		return nil
	}

	groupings := []struct {
		field string
		value *string
		size  int
	}{
		{"private.rsa", e.Private.RSA, layout.RSAPublicKeyBytes + layout.RSAPrivateKeyBytes},
		{"private.sphincs", e.Private.SPHINCS, layout.SPHINCSPublicKeyBytes + layout.SPHINCSPrivateKeyBytes},
		{"private.superSphincs", e.Private.SuperSphincs, layout.PublicKeyBytes + layout.PrivateKeyBytes},
	}
	for _, g := range groupings {
		if g.value == nil {
			continue
		}
		raw, err := crypto.DecodeBase64(*g.value)
		if err != nil {
			return &ValidationError{Field: g.field, Message: "invalid base64 encoding"}
		}
		n := len(raw)
		memzero.Zero(raw)
		if n != g.size && crypto.PlaintextSize(n) != g.size {
			return &ValidationError{Field: g.field, Message: fmt.Sprintf("unexpected length %d", n)}
		}
	}

	if e.Private.SuperSphincs == nil && (e.Private.RSA == nil || e.Private.SPHINCS == nil) {
		return &ValidationError{Field: "private", Message: "needs superSphincs or both rsa and sphincs"}
	}
	return nil
}

// decodeOptional decodes a base64 field of a fixed size. An empty value
// yields nil.
func decodeOptional(field, value string, size int) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	raw, err := crypto.DecodeBase64(value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "invalid base64 encoding"}
	}
	if err := checkLength(field, len(raw), size); err != nil {
		return nil, err
	}
	return raw, nil
}

// ExportKeys exports kp. With a non-empty password every private grouping
// is encrypted under it; with an empty password the groupings are plain
// base64. All three private groupings are written. A key pair without a
// private key exports only its public section.
func (s *Scheme) ExportKeys(ctx context.Context, kp *KeyPair, password string) (*ExportedKeys, error) {
	return s.ExportKeysWithPasswords(ctx, kp, Passwords{RSA: password, SPHINCS: password})
}

// ExportKeysWithPasswords exports kp with a password per legacy grouping.
// When the passwords differ only the rsa and sphincs groupings are written,
// since no single password covers the hybrid grouping.
func (s *Scheme) ExportKeysWithPasswords(ctx context.Context, kp *KeyPair, passwords Passwords) (_ *ExportedKeys, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpExport, start, err, errorType(err)) }()

	out, err := s.exportKeys(ctx, kp, passwords)
	return out, wrapError(err)
}

func (s *Scheme) exportKeys(ctx context.Context, kp *KeyPair, passwords Passwords) (*ExportedKeys, error) {
	if kp == nil {
		return nil, &ValidationError{Field: "keyPair", Message: "is nil"}
	}
	if err := checkLength("publicKey", len(kp.PublicKey), s.layout.PublicKeyBytes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rsaPub, spxPub := s.layout.splitPublicKey(kp.PublicKey)
	out := &ExportedKeys{
		Private: &PrivateKeys{},
		Public: PublicKeys{
			RSA:          crypto.ToBase64(rsaPub),
			SPHINCS:      crypto.ToBase64(spxPub),
			SuperSphincs: crypto.ToBase64(kp.PublicKey),
		},
	}

	if !kp.HasPrivateKey() {
		s.logger.Debug("exported keys", "shape", "public")
		return out, nil
	}
	if err := checkLength("privateKey", len(kp.PrivateKey), s.layout.PrivateKeyBytes); err != nil {
		return nil, err
	}

	var scrub memzero.Scrubber
	defer scrub.Wipe()

	rsaPriv, spxPriv := s.layout.splitPrivateKey(kp.PrivateKey)
	rsaGroup := scrub.Track(concat(len(rsaPub)+len(rsaPriv), rsaPub, rsaPriv))
	spxGroup := scrub.Track(concat(len(spxPub)+len(spxPriv), spxPub, spxPriv))

	var rsaEnc, spxEnc, allEnc string
	var g errgroup.Group
	g.Go(func() (err error) {
		rsaEnc, err = sealGrouping(rsaGroup, passwords.RSA)
		return err
	})
	g.Go(func() (err error) {
		spxEnc, err = sealGrouping(spxGroup, passwords.SPHINCS)
		return err
	})
	if passwords.unified() {
		allGroup := scrub.Track(concat(s.layout.PublicKeyBytes+s.layout.PrivateKeyBytes, kp.PublicKey, kp.PrivateKey))
		g.Go(func() (err error) {
			allEnc, err = sealGrouping(allGroup, passwords.RSA)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out.Private.RSA = &rsaEnc
	out.Private.SPHINCS = &spxEnc
	shape := "legacy"
	if passwords.unified() {
		out.Private.SuperSphincs = &allEnc
		shape = "hybrid"
	}

	s.logger.Debug("exported keys",
		"shape", shape,
		"rsa_encrypted", passwords.RSA != "",
		"sphincs_encrypted", passwords.SPHINCS != "",
	)
	return out, nil
}

// sealGrouping encrypts plain under password, or only encodes it when the
// password is empty.
func sealGrouping(plain []byte, password string) (string, error) {
	if password == "" {
		return crypto.ToBase64(plain), nil
	}
	envelope, err := crypto.Encrypt(plain, password)
	if err != nil {
		return "", err
	}
	return crypto.ToBase64(envelope), nil
}

// ImportKeys recovers a KeyPair from data. The password must match the one
// given to ExportKeys; an empty password reads plain groupings.
//
// The hybrid grouping is preferred, falling back to the rsa and sphincs
// groupings when it is absent. Without a private section the result is a
// verify-only KeyPair built from the public section.
func (s *Scheme) ImportKeys(ctx context.Context, data *ExportedKeys, password string) (*KeyPair, error) {
	return s.ImportKeysWithPasswords(ctx, data, Passwords{RSA: password, SPHINCS: password})
}

// ImportKeysWithPasswords is ImportKeys with a password per legacy grouping.
// With differing passwords the hybrid grouping is skipped.
func (s *Scheme) ImportKeysWithPasswords(ctx context.Context, data *ExportedKeys, passwords Passwords) (_ *KeyPair, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(metrics.OpImport, start, err, errorType(err)) }()

	kp, err := s.importKeys(ctx, data, passwords)
	return kp, wrapError(err)
}

func (s *Scheme) importKeys(ctx context.Context, data *ExportedKeys, passwords Passwords) (*KeyPair, error) {
	if data == nil {
		return nil, &ValidationError{Field: "keyData", Message: "is nil"}
	}
	if err := data.Validate(s.layout); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	published, err := s.decodePublicSection(data.Public)
	if err != nil {
		return nil, err
	}

	if data.Private.empty() {
		s.logger.Debug("imported keys", "shape", "public")
		return &KeyPair{PublicKey: published}, nil
	}

	var (
		kp    *KeyPair
		shape string
	)
	priv := data.Private
	switch {
	case priv.SuperSphincs != nil && passwords.unified():
		kp, err = s.openHybrid(*priv.SuperSphincs, passwords.RSA)
		shape = "hybrid"
	case priv.RSA != nil && priv.SPHINCS != nil:
		kp, err = s.openLegacy(*priv.RSA, *priv.SPHINCS, passwords)
		shape = "legacy"
	default:
		err = &ValidationError{Field: "private", Message: "separate passwords need both rsa and sphincs groupings"}
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		kp.Destroy()
		return nil, err
	}

	if published != nil && !bytes.Equal(published, kp.PublicKey) {
		kp.Destroy()
		return nil, &ValidationError{Field: "public", Message: "does not match the private key"}
	}

	s.logger.Debug("imported keys", "shape", shape)
	return kp, nil
}

// decodePublicSection returns the hybrid public key, or nil when the section
// is empty. Validate has already checked lengths.
func (s *Scheme) decodePublicSection(p PublicKeys) ([]byte, error) {
	switch {
	case p.SuperSphincs != "":
		return decodeOptional("public.superSphincs", p.SuperSphincs, s.layout.PublicKeyBytes)
	case p.RSA != "" && p.SPHINCS != "":
		rsa, err := decodeOptional("public.rsa", p.RSA, s.layout.RSAPublicKeyBytes)
		if err != nil {
			return nil, err
		}
		spx, err := decodeOptional("public.sphincs", p.SPHINCS, s.layout.SPHINCSPublicKeyBytes)
		if err != nil {
			return nil, err
		}
		return concat(s.layout.PublicKeyBytes, rsa, spx), nil
	}
	return nil, nil
}

func (s *Scheme) openHybrid(encoded, password string) (*KeyPair, error) {
	plain, err := openGrouping("private.superSphincs", encoded, password, s.layout.PublicKeyBytes+s.layout.PrivateKeyBytes)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(plain)

	return &KeyPair{
		PublicKey:  bytes.Clone(plain[:s.layout.PublicKeyBytes]),
		PrivateKey: bytes.Clone(plain[s.layout.PublicKeyBytes:]),
	}, nil
}

func (s *Scheme) openLegacy(rsaEncoded, spxEncoded string, passwords Passwords) (*KeyPair, error) {
	var scrub memzero.Scrubber
	defer scrub.Wipe()

	var rsaGroup, spxGroup []byte
	var g errgroup.Group
	g.Go(func() (err error) {
		rsaGroup, err = openGrouping("private.rsa", rsaEncoded, passwords.RSA, s.layout.RSAPublicKeyBytes+s.layout.RSAPrivateKeyBytes)
		return err
	})
	g.Go(func() (err error) {
		spxGroup, err = openGrouping("private.sphincs", spxEncoded, passwords.SPHINCS, s.layout.SPHINCSPublicKeyBytes+s.layout.SPHINCSPrivateKeyBytes)
		return err
	})
	err := g.Wait()
	scrub.TrackAll(rsaGroup, spxGroup)
	if err != nil {
		return nil, err
	}

	rsaPub, rsaPriv := rsaGroup[:s.layout.RSAPublicKeyBytes], rsaGroup[s.layout.RSAPublicKeyBytes:]
	spxPub, spxPriv := spxGroup[:s.layout.SPHINCSPublicKeyBytes], spxGroup[s.layout.SPHINCSPublicKeyBytes:]

	return &KeyPair{
		PublicKey:  concat(s.layout.PublicKeyBytes, rsaPub, spxPub),
		PrivateKey: concat(s.layout.PrivateKeyBytes, rsaPriv, spxPriv),
	}, nil
}

// openGrouping decodes and, when password is non-empty, decrypts one
// grouping, checking the recovered length.
func openGrouping(field, encoded, password string, size int) ([]byte, error) {
	raw, err := crypto.DecodeBase64(encoded)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "invalid base64 encoding"}
	}

	if password != "" {
		plain, err := crypto.Decrypt(raw, password)
		memzero.Zero(raw)
		if err != nil {
			return nil, wrapError(err)
		}
		raw = plain
	}

	if len(raw) != size {
		memzero.Zero(raw)
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("recovered %d bytes, want %d", len(raw), size)}
	}
	return raw, nil
}
