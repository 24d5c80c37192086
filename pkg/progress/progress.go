// Package progress defines a small progress-sink abstraction so long-running
// operations can report completion percentages without knowing who listens.
package progress

// Sink consumes progress events. Implementations receive monotonically
// increasing percentages in [0, 100]; the final event of a completed
// operation is always 100.
type Sink interface {
	Progress(percent int)
}

// Func adapts a plain function to a Sink.
type Func func(percent int)

// Progress implements Sink.
func (f Func) Progress(percent int) {
	f(percent)
}

// Discard is a Sink that ignores all events.
var Discard Sink = discard{}

type discard struct{}

func (discard) Progress(int) {}
