package timing

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimers_ShowPrintsElapsed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	timers := New(Options{ShouldPrint: true, Out: &buf, Now: clock.now})

	timers.Start("parse")
	clock.advance(1500 * time.Microsecond)
	timers.Show("parse")

	assert.Equal(t, "   1.500 ms parse\n", buf.String())
	d, ok := timers.Elapsed("parse")
	require.True(t, ok)
	assert.Equal(t, 1500*time.Microsecond, d)
}

func TestTimers_SilentWhenDisabled(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	timers := New(Options{Out: &buf, Now: clock.now})

	timers.Start(Total)
	clock.advance(time.Second)
	timers.Show(Total)

	assert.Empty(t, buf.String())
	d, _ := timers.Elapsed(Total)
	assert.Equal(t, time.Second, d)
}

func TestTimers_LabelPrefixAndUnknown(t *testing.T) {
	var buf bytes.Buffer
	timers := New(Options{ShouldPrint: true, Label: "orizon", Out: &buf})

	timers.Show("never started")
	assert.Equal(t, "orizon:    0.000 ms never started\n", buf.String())
	assert.Empty(t, timers.Labels())
}

func TestEnabled(t *testing.T) {
	if BuildVariant {
		t.Skip("timing build variant always prints")
	}
	assert.False(t, Enabled([]string{"run", "main.oriz"}))
	assert.True(t, Enabled([]string{"run", "--timers", "main.oriz"}))
	assert.True(t, Enabled([]string{"-show-timings", "build"}))
}
