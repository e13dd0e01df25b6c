package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder appends the transitions of one machine instance to a Store.
// Each recorder owns a stream identified by a freshly minted machine ID.
// A Recorder is not safe for concurrent use, matching the machine it
// observes.
type Recorder struct {
	store     Store
	machineID string
	seq       int
}

// NewRecorder creates a recorder with a new machine instance ID.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, machineID: uuid.New().String(), seq: -1}
}

// MachineID returns the recorder's stream identifier.
func (r *Recorder) MachineID() string { return r.machineID }

// Record appends one applied transition. Commands must be given in the
// order the handler emitted them.
func (r *Recorder) Record(ctx context.Context, state, event, newState string, commands ...string) error {
	rec := &Record{
		State:    state,
		Event:    event,
		NewState: newState,
		Commands: commands,
		At:       time.Now().UTC(),
	}
	seq, err := r.store.Append(ctx, r.machineID, r.seq, []*Record{rec})
	if err != nil {
		return err
	}
	r.seq = seq
	return nil
}

// Replay reads back the full stream recorded so far.
func (r *Recorder) Replay(ctx context.Context) ([]*Record, error) {
	return r.store.Read(ctx, r.machineID, 0)
}
