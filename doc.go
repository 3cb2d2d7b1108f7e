// Package supersphincs implements a hybrid signature scheme that pairs RSA
// with the stateless hash-based SLH-DSA (SPHINCS+), together with password
// envelopes for storing private keys at rest.
//
// A hybrid key is the concatenation of an RSA key and an SLH-DSA key. Signing
// hashes the message once with SHA-512 and signs the digest with both
// algorithms concurrently; a signature is rsaSignature || sphincsSignature.
// Verification checks both halves and accepts only if both are valid, so a
// forgery has to break RSA and SLH-DSA at the same time.
//
// Basic usage:
//
//	scheme, err := supersphincs.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kp, err := scheme.KeyPair(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kp.Destroy()
//
//	signed, err := scheme.Sign(ctx, []byte("hello"), kp.PrivateKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	message, err := scheme.Open(ctx, signed, kp.PublicKey)
//	if errors.Is(err, supersphincs.ErrAuthentication) {
//	    // tampered or signed by someone else
//	}
//
// Keys are exported with ExportKeys. Private groupings are encrypted with
// AES-256-GCM under a key stretched from the password by one million rounds of
// PBKDF2-SHA-512, then base64 encoded:
//
//	exported, err := scheme.ExportKeys(ctx, kp, "password")
//	restored, err := scheme.ImportKeys(ctx, exported, "password")
package supersphincs
