// Package session keeps a local replica of one meeting's state in sync with
// the collaborator. A Poller refreshes the replica on a fixed interval, an
// Uploader coordinates audio uploads with an out-of-band refresh, and a
// Lifecycle confirms meeting transitions before they reach the replica.
package session

import (
	"sync"
	"time"

	"github.com/minutehq/minute-cli/client"
)

// Snapshot is one complete read of a meeting's remote state. Snapshots are
// replaced wholesale; they are never merged or patched.
type Snapshot struct {
	Meeting     *client.Meeting
	Transcripts []client.TranscriptEntry
	FetchedAt   time.Time
}

// TranscriptCount returns the number of transcript entries in the snapshot.
func (s Snapshot) TranscriptCount() int {
	return len(s.Transcripts)
}

// AudioFileCount returns the number of audio files attached to the meeting.
func (s Snapshot) AudioFileCount() int {
	if s.Meeting == nil {
		return 0
	}
	return len(s.Meeting.AudioFiles)
}

// Store holds the current snapshot for a meeting session. It is safe for
// concurrent use; readers always observe a complete snapshot, never a
// partially applied one.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	loaded bool
}

// NewStore returns an empty store. Loaded reports false until the first
// Replace.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot and whether one has been loaded yet.
func (s *Store) Get() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loaded
}

// Replace installs snap as the new current snapshot.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.loaded = true
}

// Loaded reports whether the store has received at least one snapshot.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
