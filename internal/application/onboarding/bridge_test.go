package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory ProgressStore that records every call.
type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]ProgressRecord
	saves   []ProgressRecord
	saveErr   error
	loadErr   error
	deleteErr error
	saved     chan struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[uuid.UUID]ProgressRecord),
		saved:   make(chan struct{}, 16),
	}
}

func (s *memoryStore) Load(_ context.Context, profileID uuid.UUID) (*ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	rec, ok := s.records[profileID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memoryStore) Save(_ context.Context, profileID uuid.UUID, currentStep int, data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.saved <- struct{}{} }()
	if s.saveErr != nil {
		return s.saveErr
	}
	rec := ProgressRecord{CurrentStep: currentStep, Data: data}
	s.records[profileID] = rec
	s.saves = append(s.saves, rec)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, profileID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.records, profileID)
	return nil
}

func (s *memoryStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func (s *memoryStore) lastSave() ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[len(s.saves)-1]
}

func waitSaved(t *testing.T, s *memoryStore) {
	t.Helper()
	select {
	case <-s.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a save")
	}
}

func TestBridge_NoWriteBeforeInit(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(5*time.Millisecond))
	defer b.Shutdown()

	// Interaction before the initial load settles must not persist anything.
	m.NextStep()
	m.UpdateData(DataPatch{FirstName: strPtr("Ada")})
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}

func TestBridge_SavesAfterInit(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	m.UpdateData(DataPatch{FirstName: strPtr("Ada")})
	waitSaved(t, store)

	rec := store.lastSave()
	assert.Equal(t, 1, rec.CurrentStep)
	assert.Equal(t, "Ada", rec.Data.FirstName)
}

func TestBridge_DebounceCoalescesBursts(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(50*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	// A burst of edits within the debounce window collapses into one write
	// of the settled state.
	m.UpdateData(DataPatch{FirstName: strPtr("A")})
	m.UpdateData(DataPatch{FirstName: strPtr("Ad")})
	m.UpdateData(DataPatch{FirstName: strPtr("Ada")})
	waitSaved(t, store)

	assert.Equal(t, 1, store.saveCount())
	assert.Equal(t, "Ada", store.lastSave().Data.FirstName)
}

func TestBridge_InitRestoresSavedProgress(t *testing.T) {
	profileID := uuid.New()
	store := newMemoryStore()
	store.records[profileID] = ProgressRecord{
		CurrentStep: 2,
		Data: Data{
			Purpose:   PurposeRegister,
			FirstName: "Ada",
			LastName:  "Lovelace",
		},
	}

	m := NewMachine()
	b := NewBridge(m, store, profileID, WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	s := m.State()
	assert.Equal(t, 2, s.CurrentStep)
	assert.Equal(t, "Ada", s.Data.FirstName)
	assert.Equal(t, "Lovelace", s.Data.LastName)
	assert.Equal(t, PathRegister, s.Path)
}

// Resume round-trip: edits persisted in one session restore into a fresh
// machine in the next.
func TestBridge_ResumeRoundTrip(t *testing.T) {
	profileID := uuid.New()
	store := newMemoryStore()

	m1 := NewMachine()
	b1 := NewBridge(m1, store, profileID, WithDebounce(5*time.Millisecond))
	b1.Init(context.Background())
	m1.UpdateData(DataPatch{
		Purpose:   purposePtr(PurposeBoth),
		FirstName: strPtr("Ada"),
	})
	m1.SetPath(PathBoth)
	m1.NextStep()
	waitSaved(t, store)
	b1.Shutdown()

	m2 := NewMachine()
	b2 := NewBridge(m2, store, profileID, WithDebounce(5*time.Millisecond))
	defer b2.Shutdown()
	b2.Init(context.Background())

	s := m2.State()
	assert.Equal(t, 2, s.CurrentStep)
	assert.Equal(t, PurposeBoth, s.Data.Purpose)
	assert.Equal(t, "Ada", s.Data.FirstName)
	assert.Equal(t, PathBoth, s.Path)
}

func TestBridge_InitClampsStoredStep(t *testing.T) {
	profileID := uuid.New()
	store := newMemoryStore()
	// A 3-step branch with a stored step beyond the bound.
	store.records[profileID] = ProgressRecord{
		CurrentStep: 4,
		Data:        Data{Purpose: PurposeSearch},
	}

	m := NewMachine()
	b := NewBridge(m, store, profileID, WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	assert.Equal(t, 3, m.State().CurrentStep)
}

func TestBridge_LoadFailureStartsFresh(t *testing.T) {
	store := newMemoryStore()
	store.loadErr = errors.New("storage offline")

	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	assert.Equal(t, InitialState(), m.State())

	// The bridge is still ready; later edits persist once storage recovers.
	store.mu.Lock()
	store.loadErr = nil
	store.mu.Unlock()
	m.NextStep()
	waitSaved(t, store)
	assert.Equal(t, 2, store.lastSave().CurrentStep)
}

func TestBridge_SaveFailureIsSwallowed(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	store.mu.Lock()
	store.saveErr = errors.New("write refused")
	store.mu.Unlock()
	m.NextStep()
	waitSaved(t, store)
	assert.Equal(t, 0, store.saveCount())

	// The next change retries and succeeds.
	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	m.NextStep()
	waitSaved(t, store)
	require.Equal(t, 1, store.saveCount())
	assert.Equal(t, 3, store.lastSave().CurrentStep)
}

func TestBridge_FlushPersistsImmediately(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(10*time.Second))
	defer b.Shutdown()
	b.Init(context.Background())

	m.UpdateData(DataPatch{FirstName: strPtr("Ada")})
	assert.Equal(t, 0, store.saveCount())

	b.Flush()
	require.Equal(t, 1, store.saveCount())
	assert.Equal(t, "Ada", store.lastSave().Data.FirstName)
}

func TestBridge_Clear(t *testing.T) {
	profileID := uuid.New()
	store := newMemoryStore()
	store.records[profileID] = ProgressRecord{CurrentStep: 2}

	m := NewMachine()
	b := NewBridge(m, store, profileID, WithDebounce(5*time.Millisecond))
	defer b.Shutdown()
	b.Init(context.Background())

	require.NoError(t, b.Clear(context.Background()))
	rec, err := store.Load(context.Background(), profileID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestBridge_ShutdownStopsWrites(t *testing.T) {
	store := newMemoryStore()
	m := NewMachine()
	b := NewBridge(m, store, uuid.New(), WithDebounce(5*time.Millisecond))
	b.Init(context.Background())

	b.Shutdown()
	m.NextStep()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}
