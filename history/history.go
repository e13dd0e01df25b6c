// Package history records the transitions a running machine applies, one
// append-only stream per machine instance. It exists for the hosts of
// generated machines: replaying a stream reproduces the conversation that
// drove a machine into its current state.
package history

import (
	"context"
	"errors"
	"time"
)

// Store errors.
var (
	// ErrSeqConflict is returned by Append when expectedSeq does not match
	// the stream's current sequence number.
	ErrSeqConflict = errors.New("history: sequence conflict")
)

// Record is one applied transition: the machine's state before the event,
// the event that was applied, the state after, and the commands the
// transition emitted in order.
type Record struct {
	MachineID string    `json:"machine_id"`
	Seq       int       `json:"seq"`
	State     string    `json:"state"`
	Event     string    `json:"event"`
	NewState  string    `json:"new_state"`
	Commands  []string  `json:"commands,omitempty"`
	At        time.Time `json:"at"`
}

// Store persists transition records. Implementations are safe for
// concurrent use; writes to a single stream are serialized by the
// optimistic sequence check.
type Store interface {
	// Append adds records to the machine's stream. expectedSeq is the
	// sequence number of the last record already in the stream, or -1 for
	// a new stream. Returns the sequence number of the last appended
	// record, or ErrSeqConflict on a mismatch.
	Append(ctx context.Context, machineID string, expectedSeq int, records []*Record) (int, error)

	// Read returns the machine's records with Seq >= fromSeq, in order.
	Read(ctx context.Context, machineID string, fromSeq int) ([]*Record, error)

	// Close releases any underlying resources.
	Close() error
}
