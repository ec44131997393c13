// Package timing measures the phases of a completion request.
package timing

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer records named checkpoints relative to its start. It is safe for
// concurrent use.
type Timer struct {
	mu    sync.Mutex
	start time.Time
	marks map[string]time.Duration
	order []string
}

// NewTimer creates a timer started now.
func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
		marks: make(map[string]time.Duration),
	}
}

// Mark records the elapsed time under label. Re-marking a label keeps its
// original position in the summary.
func (t *Timer) Mark(label string) time.Duration {
	elapsed := time.Since(t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.marks[label]; !seen {
		t.order = append(t.order, label)
	}
	t.marks[label] = elapsed
	return elapsed
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the duration recorded for label.
func (t *Timer) Get(label string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.marks[label]
	return d, ok
}

// Summary formats the total and every mark in recording order.
func (t *Timer) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "total: %s", millis(time.Since(t.start)))
	if len(t.order) == 0 {
		return b.String()
	}

	b.WriteString(" (")
	for i, label := range t.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", label, millis(t.marks[label]))
	}
	b.WriteString(")")
	return b.String()
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000.0)
}
