/*
Copyright © 2026 the darcyflow authors.
This file is part of darcyflow.

darcyflow is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

darcyflow is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with darcyflow.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package telemetry accumulates per-phase wall-time and counters for
// one solve() call in a single mutex-guarded accumulator shared by all
// workers, read on demand (Snapshot) rather than at a synchronous
// barrier inside the hot loop, per spec.md §9's "process-wide
// telemetry" design note.
package telemetry

import (
	"sync"
	"time"
)

// Phase names the solver phases telemetry tracks, grounded on
// spec.md §2's per-component wall-time table (flash/flux/transport/...).
type Phase string

const (
	Flash     Phase = "flash"
	Flux      Phase = "flux"
	Transport Phase = "transport"
	OTGC      Phase = "otgc"
	Saturation Phase = "saturation"
	Exchange  Phase = "exchange"
)

// Counter names the event counters telemetry tracks.
type Counter string

const (
	FlashCount     Counter = "flash_count"
	TransportIn    Counter = "transport_in_count"
	TransportOut   Counter = "transport_out_count"
	StepCount      Counter = "step_count"
)

// Telemetry accumulates wall time per Phase and event counts per
// Counter across a solve() call. All methods are safe for concurrent
// use by worker goroutines.
type Telemetry struct {
	mu       sync.Mutex
	wall     map[Phase]time.Duration
	counters map[Counter]int64
}

// New returns an empty Telemetry ready to accumulate.
func New() *Telemetry {
	return &Telemetry{
		wall:     make(map[Phase]time.Duration),
		counters: make(map[Counter]int64),
	}
}

// Time runs fn and adds its wall-clock duration to phase's accumulator.
func (t *Telemetry) Time(phase Phase, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	t.mu.Lock()
	t.wall[phase] += elapsed
	t.mu.Unlock()
}

// Add increments counter by delta.
func (t *Telemetry) Add(counter Counter, delta int64) {
	t.mu.Lock()
	t.counters[counter] += delta
	t.mu.Unlock()
}

// WallTime returns the accumulated wall time for phase.
func (t *Telemetry) WallTime(phase Phase) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wall[phase]
}

// Count returns the accumulated count for counter.
func (t *Telemetry) Count(counter Counter) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[counter]
}

// Snapshot returns a copy of the current wall-time and counter maps,
// suitable for logging at solve() exit.
func (t *Telemetry) Snapshot() (map[Phase]time.Duration, map[Counter]int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	wall := make(map[Phase]time.Duration, len(t.wall))
	for k, v := range t.wall {
		wall[k] = v
	}
	counters := make(map[Counter]int64, len(t.counters))
	for k, v := range t.counters {
		counters[k] = v
	}
	return wall, counters
}
