package crypto

const (
	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce (IV) in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// KDFSaltSize is the size of the random PBKDF2 salt in bytes.
	KDFSaltSize = 32
	// KDFIterations is the PBKDF2-SHA-512 iteration count. It is fixed for
	// every envelope; a different count would make existing exports unreadable.
	KDFIterations = 1000000

	// EnvelopeOverhead is the number of bytes an envelope adds to its
	// plaintext: IV (12) + salt (32) + tag (16).
	EnvelopeOverhead = AESNonceSize + KDFSaltSize + AESTagSize
)

// AlgsCiphersuite is the canonical string representation of the envelope suite.
var AlgsCiphersuite = "PBKDF2-SHA-512:AES-256-GCM"
