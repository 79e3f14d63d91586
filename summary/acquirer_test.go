package summary

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/minutehq/minute-cli/client"
	mnerrors "github.com/minutehq/minute-cli/pkg/errors"
)

type fakeAPI struct {
	mu sync.Mutex

	stored    *client.Summary
	storedErr error

	generated    *client.Summary
	generatedErr error

	transcripts    []client.TranscriptEntry
	transcriptsErr error

	// Served instead of transcripts once a generation has run, so tests
	// can model transcription finishing during generation.
	transcriptsAfterGenerate    []client.TranscriptEntry
	transcriptsAfterGenerateErr error

	listCalls       int
	generateCalls   int
	generateEntered chan struct{}
	generateRelease chan struct{}
}

func (f *fakeAPI) GetSummary(ctx context.Context, meetingID string) (*client.Summary, error) {
	return f.stored, f.storedErr
}

func (f *fakeAPI) GenerateSummary(ctx context.Context, meetingID string) (*client.Summary, error) {
	f.mu.Lock()
	f.generateCalls++
	f.mu.Unlock()
	if f.generateEntered != nil {
		close(f.generateEntered)
	}
	if f.generateRelease != nil {
		<-f.generateRelease
	}
	return f.generated, f.generatedErr
}

func (f *fakeAPI) ListTranscripts(ctx context.Context, meetingID string) ([]client.TranscriptEntry, error) {
	f.mu.Lock()
	f.listCalls++
	generated := f.generateCalls > 0
	f.mu.Unlock()
	if generated && (f.transcriptsAfterGenerate != nil || f.transcriptsAfterGenerateErr != nil) {
		return f.transcriptsAfterGenerate, f.transcriptsAfterGenerateErr
	}
	return f.transcripts, f.transcriptsErr
}

func (f *fakeAPI) generateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func collect(t *testing.T, views <-chan View) []View {
	t.Helper()
	var all []View
	for v := range views {
		all = append(all, v)
	}
	if len(all) == 0 {
		t.Fatal("no views emitted")
	}
	last := all[len(all)-1]
	if !last.State.Terminal() {
		t.Fatalf("final state %q is not terminal", last.State)
	}
	return all
}

func TestAcquireStoredSummary(t *testing.T) {
	api := &fakeAPI{
		stored:      &client.Summary{MeetingID: "m1", SummaryText: "done"},
		transcripts: []client.TranscriptEntry{{ID: "t1"}},
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	if all[0].State != StateLoading {
		t.Errorf("first state = %q, want loading", all[0].State)
	}
	last := all[len(all)-1]
	if last.State != StateReady || last.Summary.SummaryText != "done" {
		t.Errorf("final view = %+v", last)
	}
	if len(last.Transcripts) != 1 {
		t.Errorf("transcripts missing from final view")
	}
	if api.generateCount() != 0 {
		t.Error("generation ran despite stored summary")
	}
}

func TestAcquireGeneratesWhenNotFound(t *testing.T) {
	api := &fakeAPI{
		storedErr: mnerrors.ErrNotFound,
		generated: &client.Summary{MeetingID: "m1", SummaryText: "fresh"},
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	var sawGenerating bool
	for _, v := range all {
		if v.State == StateGenerating {
			sawGenerating = true
		}
	}
	if !sawGenerating {
		t.Error("generating state never emitted")
	}
	last := all[len(all)-1]
	if last.State != StateReady || last.Summary.SummaryText != "fresh" {
		t.Errorf("final view = %+v", last)
	}
	if api.generateCount() != 1 {
		t.Errorf("generate calls = %d, want 1", api.generateCount())
	}
}

func TestAcquireRefetchesTranscriptsAfterGeneration(t *testing.T) {
	api := &fakeAPI{
		storedErr:                mnerrors.ErrNotFound,
		generated:                &client.Summary{MeetingID: "m1", SummaryText: "fresh"},
		transcripts:              []client.TranscriptEntry{{ID: "t1"}},
		transcriptsAfterGenerate: []client.TranscriptEntry{{ID: "t1"}, {ID: "t2"}},
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	last := all[len(all)-1]
	if last.State != StateReady {
		t.Fatalf("final state = %q, want ready", last.State)
	}
	if len(last.Transcripts) != 2 {
		t.Errorf("ready view transcripts = %d, want 2", len(last.Transcripts))
	}
	if api.listCount() != 2 {
		t.Errorf("ListTranscripts calls = %d, want a second fetch after generation", api.listCount())
	}
}

func TestAcquireKeepsTranscriptsWhenRefetchFails(t *testing.T) {
	api := &fakeAPI{
		storedErr:                   mnerrors.ErrNotFound,
		generated:                   &client.Summary{MeetingID: "m1", SummaryText: "fresh"},
		transcripts:                 []client.TranscriptEntry{{ID: "t1"}},
		transcriptsAfterGenerateErr: errors.New("boom"),
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	last := all[len(all)-1]
	if last.State != StateReady {
		t.Fatalf("final state = %q, want ready", last.State)
	}
	if len(last.Transcripts) != 1 || last.Transcripts[0].ID != "t1" {
		t.Errorf("earlier transcript list not preserved: %+v", last.Transcripts)
	}
}

func TestAcquireTransportErrorDoesNotGenerate(t *testing.T) {
	readErr := errors.New("connection refused")
	api := &fakeAPI{storedErr: readErr}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	last := all[len(all)-1]
	if last.State != StateEmpty {
		t.Errorf("final state = %q, want empty", last.State)
	}
	if !errors.Is(last.Err, readErr) {
		t.Errorf("Err = %v, want the read error", last.Err)
	}
	if api.generateCount() != 0 {
		t.Error("transport failure must not trigger generation")
	}
}

func TestAcquireGenerationFailureEndsEmpty(t *testing.T) {
	genErr := errors.New("model unavailable")
	api := &fakeAPI{
		storedErr:    mnerrors.ErrNotFound,
		generatedErr: genErr,
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	last := all[len(all)-1]
	if last.State != StateEmpty {
		t.Errorf("final state = %q, want empty", last.State)
	}
	var generationErr *mnerrors.GenerationError
	if !errors.As(last.Err, &generationErr) {
		t.Errorf("Err = %v, want *GenerationError", last.Err)
	}
}

func TestAcquireContinuesWithoutTranscripts(t *testing.T) {
	api := &fakeAPI{
		stored:         &client.Summary{MeetingID: "m1", SummaryText: "done"},
		transcriptsErr: errors.New("boom"),
	}
	a := NewAcquirer(api, nil)

	all := collect(t, a.Acquire(context.Background(), "m1"))

	last := all[len(all)-1]
	if last.State != StateReady {
		t.Errorf("transcript failure must not block the summary: %+v", last)
	}
	if last.Transcripts != nil {
		t.Errorf("Transcripts = %v, want nil", last.Transcripts)
	}
}

func TestConcurrentGenerationRejected(t *testing.T) {
	api := &fakeAPI{
		generated:       &client.Summary{MeetingID: "m1"},
		generateEntered: make(chan struct{}),
		generateRelease: make(chan struct{}),
	}
	a := NewAcquirer(api, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := a.Regenerate(context.Background(), "m1")
		firstDone <- err
	}()

	<-api.generateEntered

	if _, err := a.Regenerate(context.Background(), "m1"); !errors.Is(err, mnerrors.ErrGenerationInFlight) {
		t.Errorf("second regenerate error = %v, want ErrGenerationInFlight", err)
	}
	if api.generateCount() != 1 {
		t.Errorf("generate calls = %d, want exactly 1", api.generateCount())
	}

	close(api.generateRelease)
	if err := <-firstDone; err != nil {
		t.Fatalf("first regenerate: %v", err)
	}
}

func TestRegenerateCallsGenerateOnly(t *testing.T) {
	api := &fakeAPI{
		stored:    &client.Summary{MeetingID: "m1", SummaryText: "old"},
		generated: &client.Summary{MeetingID: "m1", SummaryText: "new"},
	}
	a := NewAcquirer(api, nil)

	got, err := a.Regenerate(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if got.SummaryText != "new" {
		t.Errorf("SummaryText = %q, want the regenerated one", got.SummaryText)
	}
	if api.generateCount() != 1 {
		t.Errorf("generate calls = %d, want 1", api.generateCount())
	}
}
