package ident

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Generator provides id and join-code generation that can be mocked for
// testing
type Generator interface {
	// NewID returns a globally unique id
	NewID() string

	// NewCode generates a random code of the given length from the given
	// alphabet
	NewCode(length int, alphabet string) string
}

// UUIDGenerator implements Generator with random UUIDs and crypto/rand codes
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// NewCode generates a random code of the given length from the given alphabet
func (g *UUIDGenerator) NewCode(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[g.intn(len(alphabet))]
	}
	return string(result)
}

func (g *UUIDGenerator) intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing is unrecoverable for code generation
		return 0
	}
	return int(v.Int64())
}
