package shatter

import (
	"fmt"
	"os"
	"time"
)

// captureStats holds timing and count metrics for one capture. Only logged
// when debug mode is on.
type captureStats struct {
	readTime  time.Duration
	spawnTime time.Duration
	cells     int
	particles int
	misses    int
}

// SetDebugMode enables or disables debug logging. When enabled, capture
// timing and counts and ignored captures are printed to stderr.
func (f *Field) SetDebugMode(enabled bool) {
	f.debug = enabled
}

// debugCapture prints capture stats to stderr.
func (f *Field) debugCapture(stats captureStats) {
	if !f.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[shatter] capture: read: %v | sample+spawn: %v | total: %v\n",
		stats.readTime, stats.spawnTime, stats.readTime+stats.spawnTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[shatter] cells: %d | particles: %d | misses: %d | mode: %s\n",
		stats.cells, stats.particles, stats.misses, f.cfg.MovingMode.Name())
}

// debugf prints a prefixed line to stderr in debug mode.
func (f *Field) debugf(format string, args ...any) {
	if !f.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[shatter] "+format+"\n", args...)
}
