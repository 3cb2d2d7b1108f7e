package crypto

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	// One million PBKDF2 rounds per envelope makes the suite crawl.
	restore := SetKDFIterationsForTesting(1000)
	code := m.Run()
	restore()
	os.Exit(code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		password  string
	}{
		{"empty plaintext", []byte{}, "password"},
		{"simple", []byte("secret key material"), "password"},
		{"empty password", []byte("data"), ""},
		{"unicode password", []byte("data"), "pässwörd 🔑"},
		{"large", bytes.Repeat([]byte{0xa5}, 70000), "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := Encrypt(tt.plaintext, tt.password)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			if len(envelope) != len(tt.plaintext)+EnvelopeOverhead {
				t.Errorf("envelope length = %d, want %d", len(envelope), len(tt.plaintext)+EnvelopeOverhead)
			}
			if got := PlaintextSize(len(envelope)); got != len(tt.plaintext) {
				t.Errorf("PlaintextSize() = %d, want %d", got, len(tt.plaintext))
			}

			decrypted, err := Decrypt(envelope, tt.password)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Error("decrypted plaintext does not match")
			}
		})
	}
}

func TestEncrypt_FreshIVAndSalt(t *testing.T) {
	plaintext := []byte("same input")

	a, err := Encrypt(plaintext, "password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt(plaintext, "password")
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(a[:AESNonceSize], b[:AESNonceSize]) {
		t.Error("two envelopes share an IV")
	}
	if bytes.Equal(a[AESNonceSize:AESNonceSize+KDFSaltSize], b[AESNonceSize:AESNonceSize+KDFSaltSize]) {
		t.Error("two envelopes share a salt")
	}
	if bytes.Equal(a, b) {
		t.Error("two envelopes are identical")
	}
}

func TestEncrypt_DoesNotModifyPlaintext(t *testing.T) {
	plaintext := []byte("keep me")
	if _, err := Encrypt(plaintext, "password"); err != nil {
		t.Fatal(err)
	}
	if string(plaintext) != "keep me" {
		t.Errorf("plaintext modified: %q", plaintext)
	}
}

func TestEncrypt_RandomFailure(t *testing.T) {
	restore := SetRandReaderForTesting(failingReader{})
	defer restore()

	_, err := Encrypt([]byte("data"), "password")
	if !errors.Is(err, ErrRandomSource) {
		t.Errorf("expected ErrRandomSource, got %v", err)
	}
}

func TestEncrypt_DeterministicWithFixedReader(t *testing.T) {
	restore := SetRandReaderForTesting(bytes.NewReader(bytes.Repeat([]byte{0x07}, 2*(AESNonceSize+KDFSaltSize))))
	defer restore()

	a, err := Encrypt([]byte("data"), "password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt([]byte("data"), "password")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same IV, salt and password should give the same envelope")
	}
	if !bytes.Equal(a[:AESNonceSize], bytes.Repeat([]byte{0x07}, AESNonceSize)) {
		t.Error("envelope does not start with the IV")
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	envelope, err := Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := Decrypt(envelope, "wrong")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
	if plaintext != nil {
		t.Error("expected no plaintext on failure")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	envelope, err := Encrypt([]byte("secret key material"), "password")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		offset int
	}{
		{"iv", 0},
		{"salt", AESNonceSize + 1},
		{"ciphertext", AESNonceSize + KDFSaltSize + 2},
		{"tag", len(envelope) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append([]byte(nil), envelope...)
			tampered[tt.offset] ^= 0x01

			_, err := Decrypt(tampered, "password")
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("expected ErrDecryptionFailed, got %v", err)
			}
		})
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"empty", 0},
		{"only iv", AESNonceSize},
		{"one short", EnvelopeOverhead - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(make([]byte, tt.length), "password")
			if !errors.Is(err, ErrCiphertextTooShort) {
				t.Errorf("expected ErrCiphertextTooShort, got %v", err)
			}
		})
	}

	if PlaintextSize(EnvelopeOverhead-1) != -1 {
		t.Error("PlaintextSize() should reject short envelopes")
	}
}

func TestDecrypt_MinimumLengthIsEmptyPlaintext(t *testing.T) {
	envelope, err := Encrypt(nil, "password")
	if err != nil {
		t.Fatal(err)
	}
	if len(envelope) != EnvelopeOverhead {
		t.Fatalf("len(envelope) = %d, want %d", len(envelope), EnvelopeOverhead)
	}

	plaintext, err := Decrypt(envelope, "password")
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if len(plaintext) != 0 {
		t.Errorf("len(plaintext) = %d, want 0", len(plaintext))
	}
}

func TestDecrypt_ErrorMentionsLength(t *testing.T) {
	_, err := Decrypt(make([]byte, 10), "password")
	if err == nil || !strings.Contains(err.Error(), "10 bytes") {
		t.Errorf("error should mention length, got %v", err)
	}
}

// Example_envelope demonstrates sealing key material under a password.
func Example_envelope() {
	envelope, err := Encrypt([]byte("private key bytes"), "correct horse")
	if err != nil {
		panic(err)
	}

	plaintext, err := Decrypt(envelope, "correct horse")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(plaintext))

	_, err = Decrypt(envelope, "wrong horse")
	fmt.Println(errors.Is(err, ErrDecryptionFailed))

	// Output:
	// private key bytes
	// true
}
