package session

import (
	"sync"
	"testing"
	"time"

	"github.com/minutehq/minute-cli/client"
)

func TestStoreEmptyUntilFirstReplace(t *testing.T) {
	store := NewStore()

	if store.Loaded() {
		t.Error("Loaded() = true for empty store")
	}
	if _, ok := store.Get(); ok {
		t.Error("Get() reported a snapshot for empty store")
	}
}

func TestStoreReplaceAndGet(t *testing.T) {
	store := NewStore()
	snap := Snapshot{
		Meeting: &client.Meeting{ID: "m1", Status: client.StatusActive},
		Transcripts: []client.TranscriptEntry{
			{ID: "t1", TranscriptText: "hello"},
		},
		FetchedAt: time.Now(),
	}

	store.Replace(snap)

	got, ok := store.Get()
	if !ok {
		t.Fatal("Get() ok = false after Replace")
	}
	if got.Meeting.ID != "m1" {
		t.Errorf("Meeting.ID = %q", got.Meeting.ID)
	}
	if got.TranscriptCount() != 1 {
		t.Errorf("TranscriptCount = %d, want 1", got.TranscriptCount())
	}
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	store := NewStore()
	store.Replace(Snapshot{
		Meeting:     &client.Meeting{ID: "m1"},
		Transcripts: []client.TranscriptEntry{{ID: "t1"}, {ID: "t2"}},
	})
	store.Replace(Snapshot{
		Meeting:     &client.Meeting{ID: "m1"},
		Transcripts: []client.TranscriptEntry{{ID: "t3"}},
	})

	got, _ := store.Get()
	if got.TranscriptCount() != 1 || got.Transcripts[0].ID != "t3" {
		t.Errorf("snapshot not replaced wholesale: %+v", got.Transcripts)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Replace(Snapshot{Meeting: &client.Meeting{ID: "m1"}})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if snap, ok := store.Get(); ok && snap.Meeting.ID != "m1" {
					t.Error("observed torn snapshot")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSnapshotCounts(t *testing.T) {
	var empty Snapshot
	if empty.AudioFileCount() != 0 {
		t.Error("AudioFileCount on nil meeting should be 0")
	}

	snap := Snapshot{
		Meeting: &client.Meeting{
			AudioFiles: []client.AudioFile{{ID: "a1"}, {ID: "a2"}},
		},
	}
	if snap.AudioFileCount() != 2 {
		t.Errorf("AudioFileCount = %d, want 2", snap.AudioFileCount())
	}
}
