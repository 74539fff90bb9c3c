// Package roundid generates identifiers for settled rounds. An ID is a
// UUIDv7 written as 26 characters of Crockford base32, so IDs sort by the
// time they were issued.
package roundid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

// Crockford's base32, ascending so encoded IDs sort like their values
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the length of every ID
const Length = 26

// Generator issues round IDs
type Generator struct {
	clock quartz.Clock
}

// NewGenerator creates a generator stamping IDs with clock. The random bits
// come from crypto/rand.
func NewGenerator(clock quartz.Clock) *Generator {
	return &Generator{clock: clock}
}

// Next returns a new ID stamped with the generator's clock
func (g *Generator) Next() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var id [16]byte

	// 48-bit millisecond timestamp
	ms := uint64(g.clock.Now().UnixMilli())
	binary.BigEndian.PutUint64(id[0:8], ms<<16)

	if _, err := crand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10
	return id
}

// encode writes the 128-bit value as 26 base32 digits, the first digit
// carrying only 3 bits
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks that id is a well-formed round ID
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
