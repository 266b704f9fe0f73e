// Package timing records named phase timings for a single invocation.
//
// A process owns exactly one Timers value. It is built at the top of main and
// handed by reference to the dispatcher and to the exit hook, so the final
// TOTAL report sees the same state no matter which path ends the process.
package timing

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Total is the label reported by the exit hook.
const Total = "TOTAL"

// Options configures a Timers value.
type Options struct {
	// ShouldPrint enables Show output.
	ShouldPrint bool
	// Label prefixes every printed line, e.g. "orizon".
	Label string
	// Out receives printed lines. Defaults to os.Stderr.
	Out io.Writer
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Timers maps phase labels to their start instant and last measured duration.
type Timers struct {
	shouldPrint bool
	label       string
	out         io.Writer
	now         func() time.Time
	starts      map[string]time.Time
	elapsed     map[string]time.Duration
}

// New creates the registry.
func New(opts Options) *Timers {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Timers{
		shouldPrint: opts.ShouldPrint,
		label:       opts.Label,
		out:         opts.Out,
		now:         opts.Now,
		starts:      make(map[string]time.Time),
		elapsed:     make(map[string]time.Duration),
	}
}

// ShouldPrint reports whether Show writes anything.
func (t *Timers) ShouldPrint() bool { return t.shouldPrint }

// SetShouldPrint toggles printing. Used once configuration has been loaded.
func (t *Timers) SetShouldPrint(v bool) { t.shouldPrint = v }

// Start records the current instant under label, restarting it if present.
func (t *Timers) Start(label string) {
	t.starts[label] = t.now()
}

// Measure returns the time elapsed since label was started and records it.
// An unknown label measures as zero.
func (t *Timers) Measure(label string) time.Duration {
	start, ok := t.starts[label]
	if !ok {
		return 0
	}
	d := t.now().Sub(start)
	t.elapsed[label] = d
	return d
}

// Show measures label and prints it when printing is enabled.
func (t *Timers) Show(label string) {
	d := t.Measure(label)
	if !t.shouldPrint {
		return
	}
	fmt.Fprintln(t.out, t.format(label, d))
}

// Elapsed returns the last measured duration of label.
func (t *Timers) Elapsed(label string) (time.Duration, bool) {
	d, ok := t.elapsed[label]
	return d, ok
}

// Labels returns every started label, sorted.
func (t *Timers) Labels() []string {
	labels := make([]string, 0, len(t.starts))
	for l := range t.starts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (t *Timers) format(label string, d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	if t.label != "" {
		return fmt.Sprintf("%s: %8.3f ms %s", t.label, ms, label)
	}
	return fmt.Sprintf("%8.3f ms %s", ms, label)
}
