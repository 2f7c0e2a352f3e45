// Package testutil provides shared stubs and helpers for engine tests.
package testutil

import (
	"bytes"
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/interpreter"
	"github.com/vk/cellgridgo/internal/llm"
	"github.com/vk/cellgridgo/internal/operation"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// CountingChatModel is a ChatModel stub that counts calls and replays a
// canned response or error.
type CountingChatModel struct {
	mu       sync.Mutex
	calls    int
	requests []llm.ChatCompletionRequest

	Response string
	Err      error
}

// Batch implements llm.ChatModel.
func (m *CountingChatModel) Batch(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.requests = append(m.requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	text := m.Response
	return &llm.ChatCompletionResponse{
		ID:      "stub",
		Choices: []llm.ChatCompletionChoice{{Text: &text}},
	}, nil
}

// Calls returns how many Batch calls the stub has served.
func (m *CountingChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or false when none was made.
func (m *CountingChatModel) LastRequest() (llm.ChatCompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return llm.ChatCompletionRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// StubInterpreter is an Interpreter that counts calls and replays a canned
// result or error.
type StubInterpreter struct {
	mu    sync.Mutex
	calls int

	Result *interpreter.RunResult
	Err    error
}

// Run implements interpreter.Interpreter.
func (s *StubInterpreter) Run(context.Context, *operation.ExecutionState, string, cty.Value, bool) (*interpreter.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return s.Result, s.Err
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &interpreter.RunResult{Value: cty.NullVal(cty.DynamicPseudoType)}, nil
}

// Calls returns how many Run calls the stub has served.
func (s *StubInterpreter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
