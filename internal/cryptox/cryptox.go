// Package cryptox holds the cryptographic primitives shared by the identity
// actors: salting, salted hashing, symmetric authenticated encryption, key
// serialization, and the hex/base64 codecs. It knows nothing about
// identities or storage.
//
// Every primitive fails closed. When the randomness source is unavailable the
// operation is rejected with a crypto_unavailable error; there is no
// deterministic fallback.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	dErrors "alumnet/pkg/domain-errors"
)

const (
	// SaltSize is the per-credential salt length in bytes.
	SaltSize = 16

	keySize   = 32 // AES-256
	nonceSize = 12 // AES-GCM standard nonce
)

// RandomSalt returns n cryptographically random bytes, hex-encoded.
func RandomSalt(n int) (string, error) {
	if n <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "salt length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "randomness source unavailable")
	}
	return hex.EncodeToString(buf), nil
}

// SaltedHash returns the hex SHA-256 digest of text concatenated with the hex
// salt. A single round, kept deliberately: this system demonstrates the
// salted-digest binding, not a password KDF.
func SaltedHash(text, saltHex string) string {
	sum := sha256.Sum256([]byte(text + saltHex))
	return hex.EncodeToString(sum[:])
}

// Digest returns the hex SHA-256 digest of the parts concatenated in order.
// The digest is unkeyed: it detects accidental or naive modification of the
// covered fields, but anyone who can rewrite the fields can recompute it.
func Digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashEqual compares two digests in constant time with respect to their
// contents. Use this everywhere a secret digest is checked.
func HashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Key is an opaque handle to symmetric key material.
type Key struct {
	raw []byte
}

// GenerateKey creates a fresh AES-256 key.
func GenerateKey() (*Key, error) {
	raw := make([]byte, keySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "randomness source unavailable")
	}
	return &Key{raw: raw}, nil
}

// Export serializes the key for storage alongside a credential.
func (k *Key) Export() string {
	return base64.StdEncoding.EncodeToString(k.raw)
}

// ImportKey reverses Export. ImportKey(k.Export()) behaves identically to k.
func ImportKey(material string) (*Key, error) {
	raw, err := base64.StdEncoding.DecodeString(material)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed key material")
	}
	if len(raw) != keySize {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "key material has wrong length")
	}
	return &Key{raw: raw}, nil
}

// Ciphertext is the stored form of an encrypted payload.
type Ciphertext struct {
	ContentHex string
	IVHex      string
}

// Encrypt seals plaintext under key with AES-GCM. The nonce is freshly random
// per call and never reused for the same key.
func Encrypt(plaintext string, key *Key) (Ciphertext, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return Ciphertext{}, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Ciphertext{}, dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "randomness source unavailable")
	}
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return Ciphertext{
		ContentHex: hex.EncodeToString(sealed),
		IVHex:      hex.EncodeToString(nonce),
	}, nil
}

// Decrypt opens a sealed payload. A wrong key, wrong IV, or modified
// ciphertext yields an integrity_violation error; callers must surface that
// as a visible failure, never as empty content.
func Decrypt(contentHex, ivHex string, key *Key) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	sealed, err := hex.DecodeString(contentHex)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeIntegrityViolation, "malformed ciphertext")
	}
	nonce, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeIntegrityViolation, "malformed iv")
	}
	if len(nonce) != nonceSize {
		return "", dErrors.New(dErrors.CodeIntegrityViolation, "iv has wrong length")
	}
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeIntegrityViolation, "decryption failed")
	}
	return string(plaintext), nil
}

func newAEAD(key *Key) (cipher.AEAD, error) {
	if key == nil || len(key.raw) != keySize {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "missing or malformed key")
	}
	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "cipher init failed")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "aead init failed")
	}
	return aead, nil
}

// HexEncode encodes raw bytes as lowercase hex.
func HexEncode(raw []byte) string { return hex.EncodeToString(raw) }

// HexDecode decodes hex, failing closed on malformed input.
func HexDecode(s string) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed hex input")
	}
	return raw, nil
}

// Base64Encode encodes an arbitrary string payload, used for profile blobs.
func Base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Base64Decode decodes a profile blob, failing closed on malformed input.
func Base64Decode(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed base64 input")
	}
	return string(raw), nil
}
