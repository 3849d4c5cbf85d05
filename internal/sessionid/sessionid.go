// Package sessionid generates the opaque identifiers sessions are stored under.
package sessionid

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coder/quartz"
)

// Length of an encoded session ID.
const Length = 26

// Crockford's base32, lower case, as used by TypeID.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// ErrInvalid is returned by Validate for malformed IDs.
var ErrInvalid = errors.New("invalid session id")

// Generator creates UUIDv7 session IDs. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	clock  quartz.Clock
	random io.Reader
}

// NewGenerator returns a generator that timestamps IDs with clock and fills
// the remaining bits from random. Nil arguments fall back to the wall clock
// and crypto/rand.
func NewGenerator(clock quartz.Clock, random io.Reader) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if random == nil {
		random = rand.Reader
	}
	return &Generator{clock: clock, random: random}
}

var defaultGenerator = NewGenerator(nil, nil)

// Generate creates a new session ID from the wall clock and crypto/rand.
func Generate() (string, error) {
	return defaultGenerator.Generate()
}

// Generate creates a new session ID.
func (g *Generator) Generate() (string, error) {
	var uuid [16]byte

	// 48-bit millisecond timestamp, big endian, so IDs sort by creation time
	now := g.clock.Now().UnixMilli()
	for i := range 6 {
		uuid[i] = byte(now >> (40 - 8*i))
	}

	if _, err := io.ReadFull(g.random, uuid[6:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	// version 7, variant 10
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return encoding.EncodeToString(uuid[:]), nil
}

// Validate reports whether id could have been produced by Generate.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("%w: length %d", ErrInvalid, len(id))
	}
	if i := strings.IndexFunc(id, func(r rune) bool { return !strings.ContainsRune(alphabet, r) }); i >= 0 {
		return fmt.Errorf("%w: unexpected character %q", ErrInvalid, id[i])
	}
	raw, err := encoding.DecodeString(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if raw[6]>>4 != 7 || raw[8]>>6 != 2 {
		return fmt.Errorf("%w: not a version 7 id", ErrInvalid)
	}
	return nil
}
