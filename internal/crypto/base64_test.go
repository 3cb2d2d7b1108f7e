package crypto

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestDecodeBase64_MultipleFormats(t *testing.T) {
	original := []byte("hello world")

	tests := []struct {
		name    string
		encoded string
	}{
		{"standard encoding", "aGVsbG8gd29ybGQ="},
		{"raw standard encoding", "aGVsbG8gd29ybGQ"},
		{"url encoding with padding", "aGVsbG8gd29ybGQ="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeBase64(tt.encoded)
			if err != nil {
				t.Fatalf("DecodeBase64() error = %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("DecodeBase64() = %v, want %v", decoded, original)
			}
		})
	}
}

func TestDecodeBase64_URLSafeChars(t *testing.T) {
	// "-" and "_" are the URL-safe replacements for "+" and "/"
	decoded, err := DecodeBase64("-_8")
	if err != nil {
		t.Fatalf("DecodeBase64() with URL-safe chars failed: %v", err)
	}
	std, err := DecodeBase64("+/8")
	if err != nil {
		t.Fatalf("DecodeBase64() with standard chars failed: %v", err)
	}
	if !bytes.Equal(decoded, std) {
		t.Errorf("URL-safe and standard decodings differ: %x vs %x", decoded, std)
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("!!!invalid!!!"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestToBase64_StandardEncoding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"empty", []byte{}, ""},
		{"hello", []byte("hello"), "aGVsbG8="},
		{"hello world", []byte("hello world"), "aGVsbG8gd29ybGQ="},
		{"one byte", []byte("a"), "YQ=="},
		{"two bytes", []byte("ab"), "YWI="},
		{"three bytes", []byte("abc"), "YWJj"},
		{"url unsafe chars", []byte{0xfb, 0xff}, "+/8="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := ToBase64(tt.data)
			if encoded != tt.expected {
				t.Errorf("ToBase64() = %s, want %s", encoded, tt.expected)
			}
		})
	}
}

func TestBase64StandardRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", make([]byte, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := ToBase64(tt.data)
			decoded, err := FromBase64(encoded)
			if err != nil {
				t.Fatalf("FromBase64() error = %v", err)
			}
			if !bytes.Equal(decoded, tt.data) {
				t.Errorf("round trip failed: got %v, want %v", decoded, tt.data)
			}
		})
	}
}

func TestFromBase64_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"invalid chars", "!!!invalid!!!"},
		{"url-safe chars", "-_8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromBase64(tt.encoded); err == nil {
				t.Error("expected error for invalid input")
			}
		})
	}
}

func TestToBase64_WithPadding(t *testing.T) {
	for _, data := range [][]byte{[]byte("a"), []byte("ab")} {
		if encoded := ToBase64(data); !strings.Contains(encoded, "=") {
			t.Errorf("encoded string should contain padding: %s", encoded)
		}
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex([]byte{0x00, 0xab, 0xff}); got != "00abff" {
		t.Errorf("ToHex() = %s, want 00abff", got)
	}
}

// Example_base64Encoding demonstrates the lenient decoder.
func Example_base64Encoding() {
	data := []byte("Hello, World!")

	standard := ToBase64(data)
	fmt.Printf("Standard: %s\n", standard)

	decoded1, _ := DecodeBase64(standard)
	decoded2, _ := DecodeBase64("SGVsbG8sIFdvcmxkIQ")
	fmt.Printf("Decoded match: %v\n", bytes.Equal(decoded1, decoded2))

	// Output:
	// Standard: SGVsbG8sIFdvcmxkIQ==
	// Decoded match: true
}
