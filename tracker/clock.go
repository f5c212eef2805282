package tracker

import (
	"runtime/metrics"
	"time"
)

// Clock supplies timestamps to a Tracker. Tests substitute a manual clock to
// make item times deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// MemoryProbe returns the current memory usage of the process in bytes. The
// second result is false when the platform cannot report it.
type MemoryProbe func() (uint64, bool)

// MemUnavailable is reported for memory fields when the MemoryProbe could not
// read a value.
const MemUnavailable int64 = -1

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// RuntimeMemoryProbe reads the bytes occupied by live and unswept heap
// objects from runtime/metrics. It does not stop the world.
func RuntimeMemoryProbe() (uint64, bool) {
	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0, false
	}
	return sample[0].Value.Uint64(), true
}

// NoMemoryProbe reports memory as unavailable.
func NoMemoryProbe() (uint64, bool) {
	return 0, false
}
