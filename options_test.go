package supersphincs

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestDefaultConstants(t *testing.T) {
	if DefaultRSABits != 2048 {
		t.Errorf("DefaultRSABits = %d, want 2048", DefaultRSABits)
	}
	if DefaultSPHINCSParameterSet != "SLH-DSA-SHA2-256f" {
		t.Errorf("DefaultSPHINCSParameterSet = %s, want SLH-DSA-SHA2-256f", DefaultSPHINCSParameterSet)
	}
}

func TestWithRSABits(t *testing.T) {
	cfg := &schemeConfig{}
	WithRSABits(4096)(cfg)
	if cfg.rsaBits != 4096 {
		t.Errorf("rsaBits = %d, want 4096", cfg.rsaBits)
	}
}

func TestWithSPHINCSParameterSet(t *testing.T) {
	cfg := &schemeConfig{}
	WithSPHINCSParameterSet("SLH-DSA-SHAKE-128s")(cfg)
	if cfg.sphincsParameterSet != "SLH-DSA-SHAKE-128s" {
		t.Errorf("sphincsParameterSet = %s, want SLH-DSA-SHAKE-128s", cfg.sphincsParameterSet)
	}
}

func TestWithRandReader(t *testing.T) {
	cfg := &schemeConfig{}
	r := bytes.NewReader(nil)
	WithRandReader(r)(cfg)
	if cfg.rand != r {
		t.Error("rand reader not set")
	}
}

func TestNew_Defaults(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rsa, sphincs := s.Algorithms()
	if rsa != "RSA-2048" {
		t.Errorf("RSA algorithm = %s, want RSA-2048", rsa)
	}
	if sphincs != DefaultSPHINCSParameterSet {
		t.Errorf("SPHINCS algorithm = %s, want %s", sphincs, DefaultSPHINCSParameterSet)
	}

	l := s.Layout()
	if l.PublicKeyBytes != 260+64 {
		t.Errorf("PublicKeyBytes = %d, want %d", l.PublicKeyBytes, 260+64)
	}
	if l.PrivateKeyBytes != 772+128 {
		t.Errorf("PrivateKeyBytes = %d, want %d", l.PrivateKeyBytes, 772+128)
	}
	if l.SignatureBytes != 256+49856 {
		t.Errorf("SignatureBytes = %d, want %d", l.SignatureBytes, 256+49856)
	}
	if s.HashBytes() != 64 {
		t.Errorf("HashBytes() = %d, want 64", s.HashBytes())
	}
}

func TestNew_LayoutSums(t *testing.T) {
	s, _ := testScheme(t)
	l := s.Layout()

	if l.PublicKeyBytes != l.RSAPublicKeyBytes+l.SPHINCSPublicKeyBytes {
		t.Error("PublicKeyBytes is not the sum of its parts")
	}
	if l.PrivateKeyBytes != l.RSAPrivateKeyBytes+l.SPHINCSPrivateKeyBytes {
		t.Error("PrivateKeyBytes is not the sum of its parts")
	}
	if l.SignatureBytes != l.RSASignatureBytes+l.SPHINCSSignatureBytes {
		t.Error("SignatureBytes is not the sum of its parts")
	}
	if s.PublicKeyBytes() != l.PublicKeyBytes || s.PrivateKeyBytes() != l.PrivateKeyBytes || s.SignatureBytes() != l.SignatureBytes {
		t.Error("accessors disagree with Layout()")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		field string
	}{
		{"rsa bits", []Option{WithRSABits(1024)}, "rsaBits"},
		{"parameter set", []Option{WithSPHINCSParameterSet("SPHINCS-256")}, "sphincsParameterSet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("New() error = %v, want ErrValidation", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("ValidationError.Field = %v, want %s", ve, tt.field)
			}
		})
	}
}

func TestNew_DuplicateMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(WithSPHINCSParameterSet(testParameterSet), WithMetrics(reg)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := New(WithSPHINCSParameterSet(testParameterSet), WithMetrics(reg)); !errors.Is(err, ErrValidation) {
		t.Errorf("second New() error = %v, want ErrValidation", err)
	}
}

func TestNew_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := New(WithSPHINCSParameterSet(testParameterSet), WithLogger(logger)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !strings.Contains(buf.String(), "scheme initialized") {
		t.Errorf("expected initialization record, got %q", buf.String())
	}
}

func TestParameterListings(t *testing.T) {
	if !slices.Contains(SPHINCSParameterSets(), DefaultSPHINCSParameterSet) {
		t.Error("SPHINCSParameterSets() does not contain the default")
	}
	sizes := RSABitSizes()
	if !slices.Equal(sizes, []int{2048, 3072, 4096}) {
		t.Errorf("RSABitSizes() = %v", sizes)
	}
	sizes[0] = 1
	if RSABitSizes()[0] != 2048 {
		t.Error("RSABitSizes() exposes internal state")
	}
}
