// Package model defines the minimal language-model abstraction used by the
// optional LLM-backed policy parser. Stage agents never talk to a provider
// SDK directly; they depend on Completer so providers can be swapped or
// mocked in tests.
package model

import (
	"context"
	"fmt"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Completer is the minimal interface required to turn a prompt into a
// single completion. Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockCompleter is a lightweight in-memory Completer useful for tests.
type MockCompleter struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockCompleter constructs a MockCompleter.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockCompleter) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every Complete call return err.
func (m *MockCompleter) FailWith(err error) { m.err = err }

// Complete implements Completer.
func (m *MockCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements Completer.
func (m *MockCompleter) Info() Info { return m.info }
