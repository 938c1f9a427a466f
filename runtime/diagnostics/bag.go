package diagnostics

import (
	"cmp"
	"slices"
	"sync"
)

// Bag collects diagnostics from concurrent workers.
type Bag struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	errorCount  int
	warnCount   int
}

// NewBag creates an empty bag
func NewBag() *Bag {
	return &Bag{}
}

// Add adds diagnostics to the bag
func (b *Bag) Add(diags ...Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range diags {
		b.diagnostics = append(b.diagnostics, d)
		switch d.Severity {
		case Error:
			b.errorCount++
		case Warning:
			b.warnCount++
		}
	}
}

// HasErrors returns true if there are any errors
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errorCount > 0
}

// ErrorCount returns the number of errors
func (b *Bag) ErrorCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errorCount
}

// WarningCount returns the number of warnings
func (b *Bag) WarningCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.warnCount
}

// Len returns the number of diagnostics of any severity.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.diagnostics)
}

// Diagnostics returns a copy ordered by path, row and column. Insertion order
// depends on worker scheduling, so callers always see the sorted view.
func (b *Bag) Diagnostics() []Diagnostic {
	b.mu.Lock()
	out := slices.Clone(b.diagnostics)
	b.mu.Unlock()

	slices.SortStableFunc(out, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Path, y.Path),
			cmp.Compare(x.Row, y.Row),
			cmp.Compare(x.Column, y.Column),
		)
	})
	return out
}

// Clear removes all diagnostics
func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = nil
	b.errorCount = 0
	b.warnCount = 0
}
