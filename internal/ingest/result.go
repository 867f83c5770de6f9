// Package ingest fetches matches and shots from the stats provider and
// persists them as flat files.
package ingest

import (
	"fmt"
	"strings"
)

// Status is the outcome of one unit of work (a season or a match).
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome records what happened to a single season or match.
type Outcome struct {
	Unit   string // "season 2024", "match 22275", "mirror shots 2024"
	Status Status
	Rows   int
	Reason string
}

// Report tracks outcomes and errors from a fetch operation.
type Report struct {
	Outcomes []Outcome
}

// Succeed records a successful unit.
func (r *Report) Succeed(unit string, rows int) {
	r.Outcomes = append(r.Outcomes, Outcome{Unit: unit, Status: StatusSuccess, Rows: rows})
}

// Skip records a unit that was deliberately passed over.
func (r *Report) Skip(unit string, reason error) {
	r.Outcomes = append(r.Outcomes, Outcome{Unit: unit, Status: StatusSkipped, Reason: reason.Error()})
}

// Fail records a unit that errored.
func (r *Report) Fail(unit string, reason error) {
	r.Outcomes = append(r.Outcomes, Outcome{Unit: unit, Status: StatusFailed, Reason: reason.Error()})
}

// Add merges another Report into this one.
func (r *Report) Add(other Report) {
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Rows returns the total rows contributed by successful units.
func (r *Report) Rows() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSuccess {
			n += o.Rows
		}
	}
	return n
}

// Errors returns "unit: reason" lines for every failed outcome.
func (r *Report) Errors() []string {
	var errs []string
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			errs = append(errs, o.Unit+": "+o.Reason)
		}
	}
	return errs
}

// Summary returns a human-readable summary of the fetch operation.
func (r *Report) Summary() string {
	return fmt.Sprintf(
		"succeeded=%d skipped=%d failed=%d rows=%d",
		r.Count(StatusSuccess), r.Count(StatusSkipped), r.Count(StatusFailed), r.Rows(),
	)
}

// String lists every outcome, one per line.
func (r *Report) String() string {
	var b strings.Builder
	for _, o := range r.Outcomes {
		fmt.Fprintf(&b, "%-8s %s", o.Status, o.Unit)
		if o.Rows > 0 {
			fmt.Fprintf(&b, " rows=%d", o.Rows)
		}
		if o.Reason != "" {
			fmt.Fprintf(&b, " (%s)", o.Reason)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
