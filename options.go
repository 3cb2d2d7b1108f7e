package supersphincs

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/supersphincs/supersphincs-go/internal/primitive"
)

const (
	// DefaultRSABits is the RSA modulus size used when WithRSABits is not given.
	DefaultRSABits = primitive.DefaultRSABits
	// DefaultSPHINCSParameterSet is the SLH-DSA parameter set used when
	// WithSPHINCSParameterSet is not given.
	DefaultSPHINCSParameterSet = primitive.DefaultSLHDSAParameterSet
)

// schemeConfig holds configuration for a Scheme.
type schemeConfig struct {
	rsaBits             int
	sphincsParameterSet string
	logger              *slog.Logger
	registerer          prometheus.Registerer
	rand                io.Reader
}

// Option configures a Scheme.
type Option func(*schemeConfig)

// WithRSABits sets the RSA modulus size: 2048, 3072 or 4096.
// Default: 2048
func WithRSABits(bits int) Option {
	return func(c *schemeConfig) {
		c.rsaBits = bits
	}
}

// WithSPHINCSParameterSet selects the SLH-DSA parameter set by its FIPS 205
// name, e.g. "SLH-DSA-SHAKE-128s". See SPHINCSParameterSets.
// Default: "SLH-DSA-SHA2-256f"
func WithSPHINCSParameterSet(name string) Option {
	return func(c *schemeConfig) {
		c.sphincsParameterSet = name
	}
}

// WithLogger sets the logger for debug records. The library is silent by
// default. Key material, passwords and messages are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *schemeConfig) {
		c.logger = logger
	}
}

// WithMetrics registers Prometheus metrics for scheme operations on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *schemeConfig) {
		c.registerer = reg
	}
}

// WithRandReader sets the randomness source for key generation.
// Default: crypto/rand.Reader
func WithRandReader(r io.Reader) Option {
	return func(c *schemeConfig) {
		c.rand = r
	}
}

// SPHINCSParameterSets returns the accepted SLH-DSA parameter set names.
func SPHINCSParameterSets() []string {
	return primitive.SLHDSAParameterSets()
}

// RSABitSizes returns the accepted RSA modulus sizes.
func RSABitSizes() []int {
	return append([]int(nil), primitive.RSABitSizes...)
}
