// Package token encodes arbitrary values into signed, optionally expiring, strings.
//
// Tokens are JWTs signed with HMAC-SHA256. The value is serialized as JSON
// and carried in a private claim, so anything encoding/json can handle can be
// stored. Decoding verifies signature and expiry, and returns a context
// carrying the issue and expiry time of the token.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type timeKey string

var (
	IssuedTimeKey  = timeKey("issued")
	ExpiresTimeKey = timeKey("expires")
)

var ErrInvalidKey = errors.New("symmetric key must be at least 16 bytes")

// GenerateSymmetricKey returns a random key of the specified size in bits.
func GenerateSymmetricKey(rng io.Reader, bits int) ([]byte, error) {
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("invalid key size %d - must be a positive multiple of 8", bits)
	}
	key := make([]byte, bits/8)
	if _, err := io.ReadFull(rng, key); err != nil {
		return nil, fmt.Errorf("could not read random bytes: %w", err)
	}
	return key, nil
}

type claims struct {
	jwt.RegisteredClaims
	Data json.RawMessage `json:"d"`
}

// TypeEncoder signs and verifies tokens carrying a JSON serializable value.
type TypeEncoder struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

type Modifier func(*TypeEncoder)

// WithLifetime makes tokens expire after the specified duration.
// A zero duration generates tokens that never expire.
func WithLifetime(lifetime time.Duration) Modifier {
	return func(te *TypeEncoder) {
		te.lifetime = lifetime
	}
}

// WithTimeSource overrides the clock, for tests.
func WithTimeSource(now func() time.Time) Modifier {
	return func(te *TypeEncoder) {
		te.now = now
	}
}

func NewTypeEncoder(key []byte, mods ...Modifier) (*TypeEncoder, error) {
	if len(key) < 16 {
		return nil, ErrInvalidKey
	}
	te := &TypeEncoder{key: key, now: time.Now}
	for _, m := range mods {
		m(te)
	}
	return te, nil
}

func (te *TypeEncoder) Encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("could not marshal token value: %w", err)
	}

	now := te.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
		Data:             data,
	}
	if te.lifetime > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(te.lifetime))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(te.key)
	if err != nil {
		return nil, err
	}
	return []byte(signed), nil
}

func (te *TypeEncoder) Decode(ctx context.Context, data []byte, value interface{}) (context.Context, error) {
	var c claims
	_, err := jwt.ParseWithClaims(string(data), &c, func(*jwt.Token) (interface{}, error) {
		return te.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(te.now), jwt.WithIssuedAt())
	if err != nil {
		return ctx, fmt.Errorf("invalid token: %w", err)
	}

	if c.IssuedAt != nil {
		ctx = context.WithValue(ctx, IssuedTimeKey, c.IssuedAt.Time)
	}
	if c.ExpiresAt != nil {
		ctx = context.WithValue(ctx, ExpiresTimeKey, c.ExpiresAt.Time)
	}

	if err := json.Unmarshal(c.Data, value); err != nil {
		return ctx, fmt.Errorf("could not unmarshal token value: %w", err)
	}
	return ctx, nil
}
