//go:build integration

package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// Narrative is a NarrativeAnalyzer that writes a fixed summary and can be
// told to fail for given user names.
type Narrative struct {
	mu     sync.Mutex
	failOn map[string]bool
	calls  int
}

// NewNarrative creates an analyzer that always succeeds.
func NewNarrative() *Narrative {
	return &Narrative{failOn: map[string]bool{}}
}

// Analyze implements adapter.NarrativeAnalyzer.
func (n *Narrative) Analyze(ctx context.Context, request *adapter.NarrativeRequest) (*adapter.NarrativeResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.failOn[request.UserName] {
		return nil, errors.New("narrative service unavailable")
	}
	return &adapter.NarrativeResult{
		Text:  fmt.Sprintf("Summary for %s in %s.", request.UserName, request.Period.Label()),
		Model: "mock",
	}, nil
}

// IsAvailable implements adapter.NarrativeAnalyzer.
func (n *Narrative) IsAvailable() bool {
	return true
}

// FailFor makes analysis fail for the user named name.
func (n *Narrative) FailFor(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failOn[name] = true
}

// Calls returns the number of analyses requested.
func (n *Narrative) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

// Reset clears failures and the call count.
func (n *Narrative) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failOn = map[string]bool{}
	n.calls = 0
}
