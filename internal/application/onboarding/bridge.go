package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProgressRecord is the durable snapshot of one wizard session.
type ProgressRecord struct {
	CurrentStep int
	Data        Data
}

// ProgressStore is the durable storage consumed by the bridge and the
// completion workflow. Load returns (nil, nil) when no record exists.
type ProgressStore interface {
	Load(ctx context.Context, profileID uuid.UUID) (*ProgressRecord, error)
	Save(ctx context.Context, profileID uuid.UUID, currentStep int, data Data) error
	Delete(ctx context.Context, profileID uuid.UUID) error
}

const defaultDebounce = 400 * time.Millisecond

// Bridge keeps the durable progress record eventually consistent with a
// machine's state, and seeds the machine from storage on Init. Saves are
// debounced and advisory: a failed write is dropped and retried on the next
// state change.
type Bridge struct {
	machine  *Machine
	store    ProgressStore
	profile  uuid.UUID
	debounce time.Duration

	mu          sync.Mutex
	ready       bool // initial load settled; writes allowed
	saving      bool // a write is in flight; suppress new ones
	timer       *time.Timer
	pending     State
	hasPending  bool
	unsubscribe func()
	closed      bool
}

// BridgeOption tweaks bridge construction (tests shorten the debounce).
type BridgeOption func(*Bridge)

func WithDebounce(d time.Duration) BridgeOption {
	return func(b *Bridge) { b.debounce = d }
}

// NewBridge wires a machine to a store for one profile. Call Init before
// any user interaction is persisted; call Shutdown on teardown.
func NewBridge(m *Machine, store ProgressStore, profileID uuid.UUID, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		machine:  m,
		store:    store,
		profile:  profileID,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.unsubscribe = m.Subscribe(b.onChange)
	return b
}

// Init fetches prior progress and restores it into the machine. A missing
// record or a failed fetch leaves the machine at its defaults; either way the
// bridge becomes ready and write-back is permitted from here on. Restoring
// replaces the whole state so interaction that raced the load is discarded.
func (b *Bridge) Init(ctx context.Context) {
	rec, err := b.store.Load(ctx, b.profile)
	if err != nil {
		log.Debug().Err(err).Str("profile_id", b.profile.String()).Msg("onboarding: progress load failed, starting fresh")
	}
	if err == nil && rec != nil {
		state := InitialState()
		state.CurrentStep = rec.CurrentStep
		if state.CurrentStep < 1 {
			state.CurrentStep = 1
		}
		state.Data = state.Data.merge(patchFromData(rec.Data))
		state.Path = PathForPurpose(state.Data.Purpose)
		state = clampStep(state)
		b.machine.Restore(state)
	}
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
}

// onChange schedules a coalescing save. Rapid successive edits within the
// debounce window collapse into one write of the settled state.
func (b *Bridge) onChange(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready || b.closed {
		return
	}
	b.pending = s
	b.hasPending = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.flush)
}

func (b *Bridge) flush() {
	b.mu.Lock()
	if b.closed || !b.hasPending || b.saving {
		// An in-flight write suppresses this one; the settled state is
		// re-queued by whichever change comes next.
		b.mu.Unlock()
		return
	}
	s := b.pending
	b.hasPending = false
	b.saving = true
	b.mu.Unlock()

	err := b.store.Save(context.Background(), b.profile, s.CurrentStep, s.Data)
	if err != nil {
		log.Debug().Err(err).Str("profile_id", b.profile.String()).Msg("onboarding: progress save failed, will retry on next change")
	}

	b.mu.Lock()
	b.saving = false
	b.mu.Unlock()
}

// Flush persists any pending state immediately (used on navigation away).
func (b *Bridge) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	b.flush()
}

// Clear deletes the durable record, called after the completion workflow
// succeeds so a later session starts clean.
func (b *Bridge) Clear(ctx context.Context) error {
	return b.store.Delete(ctx, b.profile)
}

// Shutdown detaches from the machine and cancels any scheduled save. An
// already in-flight write is left to finish on its own.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// patchFromData lifts a stored partial snapshot into a merge patch so loaded
// fields overlay defaults without clearing anything the record omitted.
func patchFromData(d Data) DataPatch {
	var p DataPatch
	if d.Purpose != "" {
		p.Purpose = &d.Purpose
	}
	if d.FirstName != "" {
		p.FirstName = &d.FirstName
	}
	if d.LastName != "" {
		p.LastName = &d.LastName
	}
	if d.DepartmentID != "" {
		p.DepartmentID = &d.DepartmentID
	}
	if d.PositionID != "" {
		p.PositionID = &d.PositionID
	}
	if d.CompanyChoice != "" {
		p.CompanyChoice = &d.CompanyChoice
	}
	if d.SelectedCompanyID != "" {
		p.SelectedCompanyID = &d.SelectedCompanyID
	}
	if d.NewCompany != nil {
		p.NewCompany = d.NewCompany
	}
	return p
}
