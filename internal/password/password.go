// Package password hashes and verifies account passwords.
//
// Digests are self-describing: argon2id digests use the PHC string format and
// bcrypt digests use the modular crypt format, so a Multi hasher can verify
// either one regardless of which algorithm is currently configured.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrEmptyPassword is returned when hashing an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned when a plaintext exceeds what the algorithm can digest.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Hasher produces and checks irreversible password digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) bool
}

// Algorithm names a supported digest scheme.
type Algorithm string

const (
	AlgorithmArgon2id Algorithm = "argon2id"
	AlgorithmBcrypt   Algorithm = "bcrypt"
)

// Multi hashes with a primary algorithm and verifies digests of any supported one.
type Multi struct {
	primary Hasher
	argon   *Argon2id
	bcrypt  *Bcrypt
}

// NewMulti builds a Multi hasher using algo for new digests.
func NewMulti(algo Algorithm, argon *Argon2id, bc *Bcrypt) (*Multi, error) {
	m := &Multi{argon: argon, bcrypt: bc}

	switch algo {
	case AlgorithmArgon2id, "":
		m.primary = argon
	case AlgorithmBcrypt:
		m.primary = bc
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algo)
	}

	return m, nil
}

func (m *Multi) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *Multi) Verify(digest, plaintext string) bool {
	switch {
	case strings.HasPrefix(digest, argon2idPrefix):
		return m.argon.Verify(digest, plaintext)
	case isBcryptDigest(digest):
		return m.bcrypt.Verify(digest, plaintext)
	default:
		return false
	}
}

const temporaryAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generate returns a random password of length n drawn from an unambiguous alphabet.
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid password length %d", n)
	}

	max := big.NewInt(int64(len(temporaryAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		b.WriteByte(temporaryAlphabet[idx.Int64()])
	}

	return b.String(), nil
}
