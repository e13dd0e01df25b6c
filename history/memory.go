package history

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store, suitable for tests and short-lived
// hosts.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]*Record)}
}

// Append adds records to the machine's stream.
func (s *MemoryStore) Append(ctx context.Context, machineID string, expectedSeq int, records []*Record) (int, error) {
	if len(records) == 0 {
		return expectedSeq, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[machineID]
	current := len(stream) - 1
	if current != expectedSeq {
		return 0, fmt.Errorf("%w: stream %s is at %d, expected %d", ErrSeqConflict, machineID, current, expectedSeq)
	}
	seq := expectedSeq
	for _, r := range records {
		seq++
		stored := *r
		stored.MachineID = machineID
		stored.Seq = seq
		stream = append(stream, &stored)
	}
	s.streams[machineID] = stream
	return seq, nil
}

// Read returns the machine's records with Seq >= fromSeq.
func (s *MemoryStore) Read(ctx context.Context, machineID string, fromSeq int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[machineID]
	var out []*Record
	for _, r := range stream {
		if r.Seq >= fromSeq {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
