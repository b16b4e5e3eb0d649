package cryptox

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

func TestGenerateKey_FormatAndUniqueness(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(k1) != KeyHexLength {
		t.Fatalf("expected %d hex chars, got %d", KeyHexLength, len(k1))
	}
	if _, err := hex.DecodeString(k1); err != nil {
		t.Fatalf("key is not valid hex: %v", err)
	}
	if k1 == k2 {
		t.Error("two generated keys are identical")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, _ := GenerateKey()

	payloads := [][]byte{
		[]byte("hello"),
		{},
		bytes.Repeat([]byte{0x00}, 1024),
	}

	// a realistic binary payload
	big := make([]byte, 500000)
	if _, err := rand.Read(big); err != nil {
		t.Fatal(err)
	}
	payloads = append(payloads, big)

	for _, data := range payloads {
		ct, err := Encrypt(data, key)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		got, err := Decrypt(ct, key)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch: %d bytes in, %d bytes out", len(data), len(got))
		}
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key, _ := GenerateKey()
	data := []byte("same plaintext")

	ct1, err := Encrypt(data, key)
	if err != nil {
		t.Fatal(err)
	}
	ct2, err := Encrypt(data, key)
	if err != nil {
		t.Fatal(err)
	}
	if ct1 == ct2 {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecrypt_WrongKeyNeverReturnsPlaintext(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()
	data := []byte("confidential report")

	ct, err := Encrypt(data, key1)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decrypt(ct, key2)
	if err == nil {
		if bytes.Equal(got, data) {
			t.Fatal("wrong key silently returned the original plaintext")
		}
		t.Fatal("expected authentication failure with wrong key")
	}
	if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_CorruptCiphertext(t *testing.T) {
	key, _ := GenerateKey()
	ct, err := Encrypt([]byte("data"), key)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"not base64":  "%%%not-base64%%%",
		"too short":   "QUJD", // 3 bytes, below nonce size
		"bit flipped": flipLastChar(ct),
	}

	for name, corrupted := range cases {
		if _, err := Decrypt(corrupted, key); !errors.Is(err, common.ErrDecryptionFailed) {
			t.Errorf("%s: expected ErrDecryptionFailed, got %v", name, err)
		}
	}
}

func flipLastChar(s string) string {
	b := []byte(s)
	i := len(b) - 1
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestDecrypt_MalformedKey(t *testing.T) {
	ct, _ := Encrypt([]byte("data"), mustKey(t))

	for _, key := range []string{"", "abc", strings.Repeat("z", KeyHexLength)} {
		if _, err := Decrypt(ct, key); !errors.Is(err, common.ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func mustKey(t *testing.T) string {
	t.Helper()
	k, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestDeriveDeterministicKey_Deterministic(t *testing.T) {
	wallet := "0x742d35cc6634c0532925a3b844bc9e7595f0beb1"
	passphrase := []byte("correct horse battery staple")

	key1 := DeriveDeterministicKey(wallet, passphrase)
	key2 := DeriveDeterministicKey(wallet, passphrase)

	if key1 != key2 {
		t.Error("expected same result for same inputs, got different")
	}
	if len(key1) != KeyHexLength {
		t.Errorf("expected %d hex chars, got %d", KeyHexLength, len(key1))
	}
}

func TestDeriveDeterministicKey_DifferentInputs(t *testing.T) {
	passphrase := []byte("secret")

	key1 := DeriveDeterministicKey("0x0000000000000000000000000000000000000001", passphrase)
	key2 := DeriveDeterministicKey("0x0000000000000000000000000000000000000002", passphrase)

	// different wallets act as different salts and must give different keys
	if key1 == key2 {
		t.Error("expected different results for different wallets, got same")
	}
}

func TestValidateKey(t *testing.T) {
	key := mustKey(t)

	if !ValidateKey(key, key) {
		t.Error("identical keys must validate")
	}
	if ValidateKey(key, mustKey(t)) {
		t.Error("different keys must not validate")
	}
	if ValidateKey("", key) || ValidateKey(key, "") {
		t.Error("empty keys must not validate")
	}
}
