package service

import (
	"sync"
	"time"
)

// Resources reported in diagnostics and metrics.
const (
	resourceKits     = "kits"
	resourceBooking  = "booking"
	resourceMetadata = "metadata"
)

const maxDiagnostics = 20

// Diagnostic records a query that failed and was degraded to an empty result.
type Diagnostic struct {
	Resource string    `json:"resource"`
	KitID    string    `json:"kitId,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
	Err      error     `json:"-"`
}

// Outcome is the result of a query: a value, or the diagnostic of its failure.
type Outcome[T any] struct {
	Value T
	Diag  *Diagnostic
}

// OK reports whether the query succeeded.
func (o Outcome[T]) OK() bool {
	return o.Diag == nil
}

// Or returns the value, or fallback when the query failed.
func (o Outcome[T]) Or(fallback T) T {
	if o.Diag != nil {
		return fallback
	}
	return o.Value
}

// query runs fn and captures its failure instead of returning it.
func query[T any](resource, kitID string, fn func() (T, error)) Outcome[T] {
	v, err := fn()
	if err != nil {
		return Outcome[T]{Diag: &Diagnostic{
			Resource: resource,
			KitID:    kitID,
			Message:  err.Error(),
			At:       time.Now().UTC(),
			Err:      err,
		}}
	}
	return Outcome[T]{Value: v}
}

// diagnostics keeps the most recent degraded queries of a session.
type diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
}

func (d *diagnostics) add(diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, diag)
	if len(d.entries) > maxDiagnostics {
		d.entries = d.entries[len(d.entries)-maxDiagnostics:]
	}
}

func (d *diagnostics) list() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *diagnostics) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = nil
}
