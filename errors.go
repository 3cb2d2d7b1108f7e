package supersphincs

import (
	"context"
	"errors"
	"fmt"

	"github.com/supersphincs/supersphincs-go/internal/crypto"
	"github.com/supersphincs/supersphincs-go/internal/primitive"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrValidation is returned for malformed input: a buffer of the wrong
	// length, an invalid option, or an export missing a required field.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication is returned when opening a signed message whose
	// signature does not verify.
	ErrAuthentication = errors.New("signature verification failed")

	// ErrDecryptionFailed is returned when an encrypted private key cannot be
	// decrypted, either because the password is wrong or the data was modified.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrPrimitiveFailure is returned when an underlying signature, hash or
	// cipher primitive fails internally.
	ErrPrimitiveFailure = errors.New("primitive failure")
)

// Error is implemented by all package errors.
type Error interface {
	error
	SuperSphincsError() // marker method
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SuperSphincsError implements the Error interface.
func (e *ValidationError) SuperSphincsError() {}

// AuthenticationError reports a signed message that failed verification.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("signature verification failed: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// SuperSphincsError implements the Error interface.
func (e *AuthenticationError) SuperSphincsError() {}

// DecryptionError represents a failure to decrypt private key material.
type DecryptionError struct {
	Stage string // "envelope", "aead", "kdf", "random"
	Err   error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// SuperSphincsError implements the Error interface.
func (e *DecryptionError) SuperSphincsError() {}

// PrimitiveError reports an internal failure of an underlying primitive.
type PrimitiveError struct {
	Primitive string // e.g. "RSA-2048", "SLH-DSA-SHA2-256f", "PBKDF2-SHA-512:AES-256-GCM"
	Op        string
	Err       error
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Primitive, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PrimitiveError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *PrimitiveError) Is(target error) bool {
	return target == ErrPrimitiveFailure
}

// SuperSphincsError implements the Error interface.
func (e *PrimitiveError) SuperSphincsError() {}

// wrapError converts internal errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Already public, or a context error the caller should see unchanged.
	var pub Error
	if errors.As(err, &pub) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch {
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return &DecryptionError{Stage: "aead", Err: err}
	case errors.Is(err, crypto.ErrCiphertextTooShort):
		return &DecryptionError{Stage: "envelope", Err: err}
	case errors.Is(err, crypto.ErrInvalidSaltSize):
		return &DecryptionError{Stage: "kdf", Err: err}
	case errors.Is(err, crypto.ErrRandomSource):
		return &PrimitiveError{Primitive: crypto.AlgsCiphersuite, Op: "encrypt", Err: err}
	case errors.Is(err, primitive.ErrInvalidPrivateKey):
		return &ValidationError{Field: "privateKey", Message: err.Error()}
	case errors.Is(err, primitive.ErrUnsupportedParameters):
		return &ValidationError{Message: err.Error()}
	case errors.Is(err, primitive.ErrKeyGeneration), errors.Is(err, primitive.ErrSigning):
		return &PrimitiveError{Primitive: "signature", Op: "sign", Err: err}
	}

	return err
}

// errorType classifies err for the errors_total metric.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrDecryptionFailed):
		return "decryption"
	case errors.Is(err, ErrPrimitiveFailure):
		return "primitive"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
