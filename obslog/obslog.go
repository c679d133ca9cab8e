// Package obslog is the scheduler and executor's structured-logging
// sink: a thin wrapper around logiface, using stumpy as the concrete
// JSON backend (both from the same module the pack's joeycumines
// example ships) and github.com/agilira/go-timecache for cached
// timestamps, mirroring how agilira-lethe's lethe.go stamps its own log
// lines via a *timecache.TimeCache's CachedTime() rather than a
// time.Now() syscall per entry.
package obslog

import (
	"time"

	"github.com/agilira/go-timecache"
	"github.com/joeycumines/go-utilpkg/logiface"
	"github.com/joeycumines/go-utilpkg/logiface/stumpy"
)

// Logger is the event type this package works with throughout.
type Logger = logiface.Logger[*stumpy.Event]

var clock = timecache.NewWithResolution(time.Millisecond)

// New builds a stumpy-backed logger at the given minimum level.
func New(level logiface.Level) *Logger {
	return logiface.New[*stumpy.Event](
		stumpy.WithStumpy(),
		logiface.WithLevel[*stumpy.Event](level),
	)
}

// Default is the package-wide logger scheduler.Pool and executor.Executor
// log through; it is set to informational level.
var Default = New(logiface.LevelInformational)

// WorkerEvent logs a worker lifecycle transition (explore/exploit/sleep)
// with the fields the scheduler's algorithms need to be observable:
// worker id, the event name, and the shared pool's current actives and
// thieves counts.
func WorkerEvent(l *Logger, workerID int, event string, actives, thieves int64) {
	l.Debug().
		Int("worker", workerID).
		Str("event", event).
		Int("actives", int(actives)).
		Int("thieves", int(thieves)).
		Time("ts", clock.CachedTime()).
		Log("scheduler worker event")
}

// QueueDepth logs the current depth of an executor's or the scheduler's
// master queue, for periodic diagnostics.
func QueueDepth(l *Logger, name string, depth int) {
	l.Debug().
		Str("queue", name).
		Int("depth", depth).
		Time("ts", clock.CachedTime()).
		Log("queue depth sample")
}
