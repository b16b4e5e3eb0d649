// Package cryptox implements the client-side file encryption used by
// WalletVault.
//
// Files are encrypted with AES-256-GCM under a per-identity 256-bit key
// represented as a 64-character hex string. The ciphertext string handed to
// the remote file service is base64(nonce || sealed); a fresh 12-byte nonce
// is generated for every encryption, so encrypting the same bytes twice
// yields different ciphertexts.
//
// The original dashboard delegated mode/IV handling to a crypto library
// default with no integrity protection; wrong keys produced garbage bytes
// that failed, if at all, only at base64 decode. Here decryption is
// authenticated: a wrong key or corrupt ciphertext always surfaces as
// common.ErrDecryptionFailed and never silently returns plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the encryption key length in bytes (AES-256).
	KeySize = 32

	// KeyHexLength is the length of a hex-encoded key string.
	KeyHexLength = KeySize * 2

	gcmNonceSize = 12

	// pbkdf2Iterations matches the deterministic-key parameters of the
	// original dashboard so keys derived there stay derivable here.
	pbkdf2Iterations = 1000
)

// GenerateKey returns a fresh random 256-bit key as a 64-character hex string.
// One key is issued per identity at registration time.
func GenerateKey() (string, error) {
	return common.MakeRandHexString(KeySize)
}

// ParseKey decodes a hex key string and checks its length.
// Returns common.ErrInvalidKey for anything that is not a 64-char hex string.
func ParseKey(key string) ([]byte, error) {
	if len(key) != KeyHexLength {
		return nil, fmt.Errorf("%w: expected %d hex chars, got %d", common.ErrInvalidKey, KeyHexLength, len(key))
	}
	b, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKey, err)
	}
	return b, nil
}

// Encrypt seals data with AES-256-GCM under the given hex key and returns
// the opaque ciphertext string sent to the remote file service.
func Encrypt(data []byte, key string) (string, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nil, nonce, data, nil)

	// nonce travels inside the ciphertext string so the remote service
	// stores a single opaque value per file
	payload := make([]byte, 0, len(nonce)+len(sealed))
	payload = append(payload, nonce...)
	payload = append(payload, sealed...)

	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt reverses Encrypt. A wrong key, a truncated payload, or any
// tampering with the ciphertext yields common.ErrDecryptionFailed.
func Decrypt(ciphertext string, key string) ([]byte, error) {
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}

	payload, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	if len(payload) < gcmNonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", common.ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, payload[:gcmNonceSize], payload[gcmNonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// DeriveDeterministicKey derives the same key for the same (wallet,
// passphrase) pair: salt = hex(sha256(walletAddress)), then PBKDF2-SHA256
// with 1000 iterations. Offered behind the client's key_derivation config
// flag; the default registration flow issues a random key instead.
func DeriveDeterministicKey(walletAddress string, passphrase []byte) string {
	sum := sha256.Sum256([]byte(walletAddress))
	salt := []byte(hex.EncodeToString(sum[:]))
	key := pbkdf2.Key(passphrase, salt, pbkdf2Iterations, KeySize, sha256.New)
	return hex.EncodeToString(key)
}

// ValidateKey reports whether candidate matches the stored key. Comparison is
// constant-time. This is a UI nicety, not access control: confidentiality
// rests solely on AES secrecy of the key.
func ValidateKey(candidate, stored string) bool {
	if candidate == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
