// Package reporter maintains the single most recently localized artifact
// and periodically offers it to the base station until the station
// acknowledges receipt.
package reporter

import (
	"sync"

	"github.com/golang/geo/r3"

	"github.com/ArghyaChatterjee/SubT-Object-Detection/detection"
)

// Artifact is a classified object localized in the artifact origin frame.
// The process retains at most one at a time.
type Artifact struct {
	Type     detection.ArtifactType
	Location r3.Vector
}

// Buffer is the single-slot holder of the pending artifact. Detection
// handling, the report tick and acknowledgment arrival all touch it
// concurrently; every transition is serialized under its mutex. It has
// exactly two states, empty and pending, and two transitions: Set
// overwrites whatever is there, Acknowledge clears whatever is there.
type Buffer struct {
	mu       sync.Mutex
	pending  bool
	artifact Artifact
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Set stores a newly localized artifact, unconditionally replacing any
// unacknowledged one. Artifacts are not queued; a pending artifact that
// was never sent is simply superseded.
func (b *Buffer) Set(a Artifact) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.artifact = a
	b.pending = true
}

// Acknowledge clears the slot and reports whether anything was pending.
// Acknowledgments are not correlated to a particular report; any
// confirmation from the station empties the slot.
func (b *Buffer) Acknowledge() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	was := b.pending
	b.pending = false
	b.artifact = Artifact{}
	return was
}

// Pending returns a snapshot of the pending artifact, if any.
func (b *Buffer) Pending() (Artifact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.artifact, b.pending
}
