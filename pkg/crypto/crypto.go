// Package crypto implements the cipher service for promptvault.
//
// Content fields are protected with AES-256-GCM under keys stretched from
// the user's password with PBKDF2-SHA256. Every encryption call draws a
// fresh random salt and nonce, so two encryptions of the same plaintext
// under the same password never produce the same ciphertext.
//
// # Example Usage
//
//	ct, err := crypto.Encrypt("secret body", "hunter2")
//	// store ct (ct/iv/salt are base64 strings, JSON-safe)
//
//	plain, err := crypto.Decrypt(ct, "hunter2")
//	// errors.Is(err, crypto.ErrDecryptionFailed) on a wrong password
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation and cipher parameters. These are fixed: changing them
// would orphan existing ciphertexts.
const (
	// PBKDF2Iterations is the PBKDF2-SHA256 iteration count.
	PBKDF2Iterations = 310_000

	// KeyLength is the length of derived encryption keys in bytes (256 bits).
	KeyLength = 32

	// SaltLength is the length of KDF salts in bytes (128 bits).
	SaltLength = 16

	// NonceLength is the length of GCM nonces in bytes (96 bits).
	NonceLength = 12
)

// Sentinel errors returned by crypto functions.
var (
	// ErrDecryptionFailed covers wrong passwords, corrupted ciphertext and
	// tag mismatches. GCM does not distinguish between them, so neither do we.
	ErrDecryptionFailed = errors.New("crypto: decryption failed")

	// ErrEncryptionFailed indicates the cipher could not be set up or the
	// system random source failed. The caller must not persist anything.
	ErrEncryptionFailed = errors.New("crypto: encryption failed")
)

// Ciphertext is the stored form of an encrypted field: the GCM output plus
// the per-encryption nonce and KDF salt, all base64-encoded so the value
// survives JSON export/import bit-exact.
type Ciphertext struct {
	CT   string `json:"ct"`
	IV   string `json:"iv"`
	Salt string `json:"salt"`
}

// DeriveKey stretches a password into a 256-bit AES key using PBKDF2-SHA256.
// Same password and salt always yield the same key; different salts yield
// unrelated keys even for the same password.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeyLength, sha256.New)
}

// Encrypt authenticated-encrypts the UTF-8 encoding of plaintext under a key
// derived from password and a fresh random salt. A fresh nonce is drawn for
// every call; salts and nonces are never reused across fields or
// re-encryptions.
func Encrypt(plaintext, password string) (*Ciphertext, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: reading salt: %v", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: reading nonce: %v", ErrEncryptionFailed, err)
	}

	gcm, err := newGCM(DeriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	return &Ciphertext{
		CT:   base64.StdEncoding.EncodeToString(sealed),
		IV:   base64.StdEncoding.EncodeToString(nonce),
		Salt: base64.StdEncoding.EncodeToString(salt),
	}, nil
}

// Decrypt reverses Encrypt. It returns ErrDecryptionFailed on a wrong
// password, a corrupted ciphertext, or a malformed envelope; callers must
// treat all three the same, because authenticated encryption intentionally
// does not reveal which one occurred.
func Decrypt(data *Ciphertext, password string) (string, error) {
	if data == nil {
		return "", ErrDecryptionFailed
	}

	sealed, err := base64.StdEncoding.DecodeString(data.CT)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(data.IV)
	if err != nil || len(nonce) != NonceLength {
		return "", ErrDecryptionFailed
	}
	salt, err := base64.StdEncoding.DecodeString(data.Salt)
	if err != nil || len(salt) != SaltLength {
		return "", ErrDecryptionFailed
	}

	gcm, err := newGCM(DeriveKey(password, salt))
	if err != nil {
		return "", ErrDecryptionFailed
	}

	if len(sealed) < gcm.Overhead() {
		return "", ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// MakePasswordCheck produces the password-verification oracle for an entity:
// its decimal id encrypted under the entity's password. There is no separate
// password hash; successful decryption back to the id proves the password.
func MakePasswordCheck(id int64, password string) (*Ciphertext, error) {
	return Encrypt(strconv.FormatInt(id, 10), password)
}

// VerifyPasswordCheck reports whether password decrypts check back to the
// decimal form of id. A nil check never verifies.
func VerifyPasswordCheck(check *Ciphertext, id int64, password string) bool {
	if check == nil {
		return false
	}
	plain, err := Decrypt(check, password)
	if err != nil {
		return false
	}
	return plain == strconv.FormatInt(id, 10)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
