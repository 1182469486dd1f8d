// Package mock provides a test double for the llm.Provider interface.
//
// Use Provider in unit tests to feed controlled completions without a live
// LLM backend. All fields are safe to set before calling any method; mutating
// them during a concurrent call is the caller's responsibility.
//
// Example:
//
//	p := &mock.Provider{Response: `["Elara the Barmaid"]`}
//	text, err := p.Complete(ctx, req)
package mock

import (
	"context"
	"sync"

	"github.com/questward/lorekeeper/internal/llm"
)

// Call records a single invocation of Complete.
type Call struct {
	// Ctx is the context passed to Complete.
	Ctx context.Context
	// Req is the request passed to Complete.
	Req llm.Request
}

// Compile-time assertion that Provider satisfies the llm.Provider interface.
var _ llm.Provider = (*Provider)(nil)

// Provider is a mock implementation of llm.Provider.
// The zero value returns an empty completion and a nil error.
type Provider struct {
	mu sync.Mutex

	// Response is returned by Complete when Err is nil.
	Response string

	// Err, if non-nil, is returned by Complete instead of Response.
	Err error

	// Calls records every invocation of Complete, in order.
	Calls []Call
}

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, Call{Ctx: ctx, Req: req})
	p.mu.Unlock()

	if p.Err != nil {
		return "", p.Err
	}
	return p.Response, nil
}

// CallCount returns the number of recorded Complete invocations.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}
