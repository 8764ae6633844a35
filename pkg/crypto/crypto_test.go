package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
)

// TestDeriveKey tests the PBKDF2 key derivation function
func TestDeriveKey(t *testing.T) {
	password := "test-password-123"
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		t.Fatalf("failed to generate salt: %v", err)
	}

	// Test key derivation produces correct length
	key := DeriveKey(password, salt)
	if len(key) != KeyLength {
		t.Errorf("DeriveKey() returned key of length %d, want %d", len(key), KeyLength)
	}

	// Test same password + salt produces same key (deterministic)
	key2 := DeriveKey(password, salt)
	if !bytes.Equal(key, key2) {
		t.Error("DeriveKey() with same inputs should produce identical keys")
	}

	// Test different password produces different key
	differentKey := DeriveKey("different-password", salt)
	if bytes.Equal(key, differentKey) {
		t.Error("DeriveKey() with different password should produce different key")
	}

	// Test different salt produces different key
	differentSalt := make([]byte, SaltLength)
	if _, err := rand.Read(differentSalt); err != nil {
		t.Fatalf("failed to generate salt: %v", err)
	}
	differentKey = DeriveKey(password, differentSalt)
	if bytes.Equal(key, differentKey) {
		t.Error("DeriveKey() with different salt should produce different key")
	}
}

// TestEncryptDecryptRoundTrip verifies decrypt(encrypt(s, p), p) == s
func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		password  string
	}{
		{"simple", "hello world", "pw1"},
		{"empty plaintext", "", "pw1"},
		{"unicode", "日本語のプロンプト ✓", "pässwörd"},
		{"long", string(bytes.Repeat([]byte("abc"), 5000)), "pw"},
		{"newlines", "line1\nline2\r\nline3", "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := Encrypt(tt.plaintext, tt.password)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			got, err := Decrypt(ct, tt.password)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("Decrypt() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

// TestDecryptWrongPassword verifies a wrong password never yields plaintext
func TestDecryptWrongPassword(t *testing.T) {
	ct, err := Encrypt("secret", "correct-password")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	_, err = Decrypt(ct, "wrong-password")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt() error = %v, want ErrDecryptionFailed", err)
	}
}

// TestDecryptCorrupted verifies tampered envelopes fail closed
func TestDecryptCorrupted(t *testing.T) {
	ct, err := Encrypt("secret", "pw")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c Ciphertext) *Ciphertext
	}{
		{"nil ciphertext", func(c Ciphertext) *Ciphertext { return nil }},
		{"invalid base64 ct", func(c Ciphertext) *Ciphertext { c.CT = "!!!"; return &c }},
		{"invalid base64 iv", func(c Ciphertext) *Ciphertext { c.IV = "!!!"; return &c }},
		{"invalid base64 salt", func(c Ciphertext) *Ciphertext { c.Salt = "!!!"; return &c }},
		{"short iv", func(c Ciphertext) *Ciphertext {
			c.IV = base64.StdEncoding.EncodeToString([]byte("short"))
			return &c
		}},
		{"short salt", func(c Ciphertext) *Ciphertext {
			c.Salt = base64.StdEncoding.EncodeToString([]byte("short"))
			return &c
		}},
		{"truncated ct", func(c Ciphertext) *Ciphertext {
			c.CT = base64.StdEncoding.EncodeToString([]byte{0x01})
			return &c
		}},
		{"flipped ct bit", func(c Ciphertext) *Ciphertext {
			raw, _ := base64.StdEncoding.DecodeString(c.CT)
			raw[0] ^= 0x01
			c.CT = base64.StdEncoding.EncodeToString(raw)
			return &c
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.mutate(*ct), "pw")
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("Decrypt() error = %v, want ErrDecryptionFailed", err)
			}
		})
	}
}

// TestEncryptFreshSaltAndNonce verifies two encryptions of the same input
// never share ciphertext, salt, or nonce
func TestEncryptFreshSaltAndNonce(t *testing.T) {
	a, err := Encrypt("same plaintext", "same password")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	b, err := Encrypt("same plaintext", "same password")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if a.CT == b.CT {
		t.Error("Encrypt() produced identical ciphertext for two calls")
	}
	if a.IV == b.IV {
		t.Error("Encrypt() reused a nonce")
	}
	if a.Salt == b.Salt {
		t.Error("Encrypt() reused a salt")
	}
}

// TestPasswordCheckOracle verifies the passwordCheck oracle accepts exactly
// the true password
func TestPasswordCheckOracle(t *testing.T) {
	const id = int64(1696789123456)

	check, err := MakePasswordCheck(id, "pw1")
	if err != nil {
		t.Fatalf("MakePasswordCheck() error = %v", err)
	}

	if !VerifyPasswordCheck(check, id, "pw1") {
		t.Error("VerifyPasswordCheck() = false for the true password")
	}
	if VerifyPasswordCheck(check, id, "pw2") {
		t.Error("VerifyPasswordCheck() = true for a wrong password")
	}
	if VerifyPasswordCheck(check, id+1, "pw1") {
		t.Error("VerifyPasswordCheck() = true for a different entity id")
	}
	if VerifyPasswordCheck(nil, id, "pw1") {
		t.Error("VerifyPasswordCheck() = true for a nil check")
	}
}
