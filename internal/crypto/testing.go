package crypto

import "io"

// SetRandReaderForTesting sets the random reader used for IVs and salts.
// This is intended for testing only. Returns a function to restore the original reader.
// Since this package is internal, this function cannot be accessed by external code.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}

// SetKDFIterationsForTesting lowers the PBKDF2 iteration count so tests do
// not spend seconds per envelope. Returns a function to restore the original count.
func SetKDFIterationsForTesting(n int) func() {
	original := kdfIterations
	kdfIterations = n
	return func() { kdfIterations = original }
}
