package primitive

import (
	"bytes"
	"errors"
	"math/big"
	"sync"
	"testing"
)

var (
	rsaOnce       sync.Once
	rsaTestSigner *RSA
	rsaTestPub    []byte
	rsaTestPriv   []byte
)

func rsaFixture(t *testing.T) (*RSA, []byte, []byte) {
	t.Helper()
	rsaOnce.Do(func() {
		var err error
		rsaTestSigner, err = NewRSA(2048, nil)
		if err != nil {
			t.Fatalf("NewRSA() error = %v", err)
		}
		rsaTestPub, rsaTestPriv, err = rsaTestSigner.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
	})
	if rsaTestSigner == nil {
		t.Fatal("RSA fixture unavailable")
	}
	return rsaTestSigner, rsaTestPub, rsaTestPriv
}

func TestNewRSA_Sizes(t *testing.T) {
	tests := []struct {
		bits     int
		pub      int
		priv     int
		sig      int
		wantName string
	}{
		{2048, 260, 772, 256, "RSA-2048"},
		{3072, 388, 1156, 384, "RSA-3072"},
		{4096, 516, 1540, 512, "RSA-4096"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			r, err := NewRSA(tt.bits, nil)
			if err != nil {
				t.Fatalf("NewRSA() error = %v", err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", r.Name(), tt.wantName)
			}
			if r.PublicKeySize() != tt.pub {
				t.Errorf("PublicKeySize() = %d, want %d", r.PublicKeySize(), tt.pub)
			}
			if r.PrivateKeySize() != tt.priv {
				t.Errorf("PrivateKeySize() = %d, want %d", r.PrivateKeySize(), tt.priv)
			}
			if r.SignatureSize() != tt.sig {
				t.Errorf("SignatureSize() = %d, want %d", r.SignatureSize(), tt.sig)
			}
		})
	}
}

func TestNewRSA_Unsupported(t *testing.T) {
	for _, bits := range []int{0, 1024, 2047, 8192} {
		if _, err := NewRSA(bits, nil); !errors.Is(err, ErrUnsupportedParameters) {
			t.Errorf("NewRSA(%d) error = %v, want ErrUnsupportedParameters", bits, err)
		}
	}
}

func TestRSA_GenerateKeyEncoding(t *testing.T) {
	r, pub, priv := rsaFixture(t)

	if len(pub) != r.PublicKeySize() {
		t.Fatalf("len(pub) = %d, want %d", len(pub), r.PublicKeySize())
	}
	if len(priv) != r.PrivateKeySize() {
		t.Fatalf("len(priv) = %d, want %d", len(priv), r.PrivateKeySize())
	}

	// The private encoding starts with the public one.
	if !bytes.Equal(priv[:len(pub)], pub) {
		t.Error("private key does not embed the public key")
	}

	n := new(big.Int).SetBytes(pub[:256])
	if n.BitLen() != 2048 {
		t.Errorf("modulus bit length = %d, want 2048", n.BitLen())
	}
}

func TestRSA_SignVerify(t *testing.T) {
	r, pub, priv := rsaFixture(t)
	msg := []byte("message digest stand-in")

	sig, err := r.SignDetached(msg, priv)
	if err != nil {
		t.Fatalf("SignDetached() error = %v", err)
	}
	if len(sig) != r.SignatureSize() {
		t.Errorf("len(sig) = %d, want %d", len(sig), r.SignatureSize())
	}
	if !r.VerifyDetached(sig, msg, pub) {
		t.Error("VerifyDetached() = false for a valid signature")
	}

	// PKCS#1 v1.5 is deterministic.
	again, err := r.SignDetached(msg, priv)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sig, again) {
		t.Error("signatures over the same message differ")
	}
}

func TestRSA_VerifyRejects(t *testing.T) {
	r, pub, priv := rsaFixture(t)
	msg := []byte("message")

	sig, err := r.SignDetached(msg, priv)
	if err != nil {
		t.Fatal(err)
	}

	tamperedSig := append([]byte(nil), sig...)
	tamperedSig[10] ^= 0x01

	tamperedPub := append([]byte(nil), pub...)
	tamperedPub[0] ^= 0x01

	tests := []struct {
		name string
		sig  []byte
		msg  []byte
		pub  []byte
	}{
		{"tampered signature", tamperedSig, msg, pub},
		{"other message", sig, []byte("massage"), pub},
		{"short signature", sig[:100], msg, pub},
		{"empty signature", nil, msg, pub},
		{"tampered public key", sig, msg, tamperedPub},
		{"short public key", sig, msg, pub[:10]},
		{"zero public key", sig, msg, make([]byte, len(pub))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r.VerifyDetached(tt.sig, tt.msg, tt.pub) {
				t.Error("VerifyDetached() = true, want false")
			}
		})
	}
}

func TestRSA_SignInvalidPrivateKey(t *testing.T) {
	r, _, priv := rsaFixture(t)

	corrupted := append([]byte(nil), priv...)
	corrupted[len(corrupted)-1] ^= 0x01

	tests := []struct {
		name string
		key  []byte
	}{
		{"empty", nil},
		{"truncated", priv[:len(priv)-1]},
		{"corrupted prime", corrupted},
		{"zeros", make([]byte, len(priv))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SignDetached([]byte("msg"), tt.key)
			if !errors.Is(err, ErrInvalidPrivateKey) {
				t.Errorf("SignDetached() error = %v, want ErrInvalidPrivateKey", err)
			}
		})
	}
}
