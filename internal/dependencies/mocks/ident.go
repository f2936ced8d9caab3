package mocks

import (
	"fmt"

	"github.com/jswain/turfsplit/internal/dependencies/ident"
)

// MockGenerator is a mock implementation of ident.Generator for testing.
// Queued values are returned in order; when the queue runs dry it falls back
// to deterministic sequential values so tests never block on randomness.
type MockGenerator struct {
	// IDResults is a queue of results to return from NewID
	IDResults []string
	idIndex   int

	// CodeResults is a queue of results to return from NewCode
	CodeResults []string
	codeIndex   int

	fallback int
}

// Ensure MockGenerator implements Generator
var _ ident.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a new MockGenerator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// NewID returns the next queued id, or a deterministic fallback
func (g *MockGenerator) NewID() string {
	if g.idIndex < len(g.IDResults) {
		result := g.IDResults[g.idIndex]
		g.idIndex++
		return result
	}
	g.fallback++
	return fmt.Sprintf("mock-id-%d", g.fallback)
}

// NewCode returns the next queued code, or a deterministic fallback
func (g *MockGenerator) NewCode(length int, alphabet string) string {
	if g.codeIndex < len(g.CodeResults) {
		result := g.CodeResults[g.codeIndex]
		g.codeIndex++
		return result
	}
	g.fallback++
	return fmt.Sprintf("CODE%d", g.fallback)
}

// QueueID adds values to the NewID result queue
func (g *MockGenerator) QueueID(values ...string) {
	g.IDResults = append(g.IDResults, values...)
}

// QueueCode adds values to the NewCode result queue
func (g *MockGenerator) QueueCode(values ...string) {
	g.CodeResults = append(g.CodeResults, values...)
}
