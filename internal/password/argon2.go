package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2idPrefix = "$argon2id$"

	defaultSaltLen = 16
	defaultKeyLen  = 32

	// Upper bounds applied to params read back from a digest.
	maxMemKiB = 1 << 21
	maxTime   = 64
	maxKeyLen = 1024
)

// Params holds argon2id cost parameters.
type Params struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultParams follow the RFC 9106 second recommended option.
var DefaultParams = Params{Time: 3, MemKiB: 64 * 1024, Par: 4}

// Argon2id hashes passwords with argon2id and a random salt.
type Argon2id struct {
	params Params
}

// NewArgon2id creates a hasher; zero fields fall back to DefaultParams.
func NewArgon2id(p Params) *Argon2id {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemKiB == 0 {
		p.MemKiB = DefaultParams.MemKiB
	}
	if p.Par == 0 {
		p.Par = DefaultParams.Par
	}
	return &Argon2id{params: p}
}

func (a *Argon2id) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, defaultSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.params.Time, a.params.MemKiB, a.params.Par, defaultKeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		a.params.MemKiB, a.params.Time, a.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the digest's own params. Any decoding problem is a mismatch.
func (a *Argon2id) Verify(digest, plaintext string) bool {
	p, salt, key, ok := decodeArgon2id(digest)
	if !ok {
		return false
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, p.Time, p.MemKiB, p.Par, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeArgon2id(digest string) (Params, []byte, []byte, bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, false
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemKiB, &p.Time, &p.Par); err != nil {
		return Params{}, nil, nil, false
	}
	if p.Time == 0 || p.Time > maxTime || p.MemKiB == 0 || p.MemKiB > maxMemKiB || p.Par == 0 {
		return Params{}, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, false
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLen {
		return Params{}, nil, nil, false
	}

	return p, salt, key, true
}
