package graph

import (
	"fmt"
	"sync"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a message attached to a compilation unit.
type Diagnostic struct {
	Unit     string
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Unit, d.Severity, d.Message)
}

// Diagnostics receives diagnostics emitted while processing units.
type Diagnostics interface {
	Emit(d Diagnostic)
}

// Collector records diagnostics. It is safe for concurrent use so one
// collector can be shared by units rewritten in parallel.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Emit implements Diagnostics.
func (c *Collector) Emit(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// All returns a copy of the collected diagnostics.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// ForUnit returns the diagnostics attached to the named unit.
func (c *Collector) ForUnit(name string) []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Unit == name {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}
