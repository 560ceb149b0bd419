package storage

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func TestEncryptDecryptPasscode(t *testing.T) {
	t.Parallel()

	key := testKey(t)

	encrypted, err := EncryptPasscode("guest-passcode", key)
	if err != nil {
		t.Fatalf("EncryptPasscode error: %v", err)
	}
	if bytes.Contains(encrypted, []byte("guest-passcode")) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := DecryptPasscode(encrypted, key)
	if err != nil {
		t.Fatalf("DecryptPasscode error: %v", err)
	}
	if decrypted != "guest-passcode" {
		t.Errorf("decrypted = %q, want %q", decrypted, "guest-passcode")
	}
}

func TestEncryptPasscode_InvalidKeySize(t *testing.T) {
	t.Parallel()

	if _, err := EncryptPasscode("x", []byte("short")); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := DecryptPasscode([]byte("00"), []byte("short")); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDecryptPasscode_WrongKey(t *testing.T) {
	t.Parallel()

	encrypted, err := EncryptPasscode("secret", testKey(t))
	if err != nil {
		t.Fatalf("EncryptPasscode error: %v", err)
	}

	if _, err := DecryptPasscode(encrypted, testKey(t)); err != ErrDecryption {
		t.Errorf("expected ErrDecryption with wrong key, got %v", err)
	}
}

func TestDecryptPasscode_Corrupted(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	for _, data := range [][]byte{[]byte("not-hex!"), []byte("00"), {}} {
		if _, err := DecryptPasscode(data, key); err != ErrDecryption {
			t.Errorf("DecryptPasscode(%q): expected ErrDecryption, got %v", data, err)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("p1-secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "p1-secret" {
		t.Fatal("hash equals plaintext")
	}

	if err := VerifyPassword("p1-secret", hash); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Error("VerifyPassword with wrong password should fail")
	}
}
