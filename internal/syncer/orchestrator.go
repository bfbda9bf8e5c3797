// Package syncer owns the in-memory family state and keeps it mirrored
// outward: every mutation lands in the local cache immediately and is pushed
// to the remote proxy after a debounce window, so a burst of edits becomes a
// single push carrying the final state.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rowanfield/choresheet/internal/cache"
	"github.com/rowanfield/choresheet/internal/chorelist"
	"github.com/rowanfield/choresheet/internal/family"
	"github.com/rowanfield/choresheet/internal/model"
	"github.com/rowanfield/choresheet/internal/remote"
	"github.com/rowanfield/choresheet/internal/sharing"
)

// State is the sync status shown to the user.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Status pairs a state with a human-readable message for the error case.
type Status struct {
	State   State
	Message string
}

// RemoteService is the slice of the proxy client the orchestrator needs.
// Satisfied by *remote.Client.
type RemoteService interface {
	Load(ctx context.Context, code string) ([]model.Chore, []model.FamilyMember, error)
	Save(ctx context.Context, code string, chores []model.Chore, members []model.FamilyMember) error
	TestConnection(ctx context.Context, code string) remote.TestResult
}

const (
	defaultDebounce    = 2 * time.Second
	defaultRevertAfter = 3 * time.Second
	pushTimeout        = 30 * time.Second
)

// Options tune the orchestrator. Zero values take the defaults.
type Options struct {
	// Debounce is the quiet period after the last edit before a push.
	Debounce time.Duration
	// RevertAfter is how long success/error status lingers before
	// reverting to idle.
	RevertAfter time.Duration
	// OnStatus is invoked (without the orchestrator lock held) whenever
	// the sync status changes.
	OnStatus func(Status)
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Orchestrator holds the authoritative in-memory chore and member
// collections for the running instance. The cache and remote store are
// mirrors: once loaded, memory wins and every change flows outward.
type Orchestrator struct {
	store  cache.Store
	remote RemoteService
	logger *slog.Logger

	debounce    time.Duration
	revertAfter time.Duration
	onStatus    func(Status)
	now         func() time.Time

	mu       sync.Mutex
	chores   []model.Chore
	members  []model.FamilyMember
	code     string
	loaded   bool
	status   Status
	lastSync time.Time
	timer    *time.Timer

	// seq numbers a push when it starts; a finished push may only report
	// status if no newer push started meanwhile, so a stale in-flight
	// response cannot overwrite a newer one.
	seq uint64
}

type pushSnapshot struct {
	code    string
	chores  []model.Chore
	members []model.FamilyMember
}

// New creates an orchestrator over the given storage port and remote client.
func New(store cache.Store, rs RemoteService, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.Debounce == 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.RevertAfter == 0 {
		opts.RevertAfter = defaultRevertAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		store:       store,
		remote:      rs,
		logger:      logger,
		debounce:    opts.Debounce,
		revertAfter: opts.RevertAfter,
		onStatus:    opts.OnStatus,
		now:         opts.Now,
		members:     family.Defaults(),
		status:      Status{State: StateIdle},
	}
}

// Load performs the startup load. With a sharing code already persisted it
// tries the remote first and falls back to the local cache on failure; the
// same fallback the join flow uses. Without a code it restores whatever the
// cache holds.
func (o *Orchestrator) Load(ctx context.Context) error {
	code, _, err := o.store.Get(cache.SlotSharingCode)
	if err != nil {
		return fmt.Errorf("read sharing code: %w", err)
	}

	o.mu.Lock()
	o.code = code
	o.mu.Unlock()

	if code != "" {
		if err := o.loadRemote(ctx, code); err == nil {
			o.mu.Lock()
			o.loaded = true
			o.mu.Unlock()
			return nil
		} else {
			o.logger.Warn("remote load failed, using local cache", "error", err)
		}
	}

	chores, members, err := o.loadCache()
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.chores = chores
	if len(members) > 0 {
		o.members = members
	}
	o.loaded = true
	o.mu.Unlock()
	return nil
}

// Chores returns a copy of the current chore snapshot.
func (o *Orchestrator) Chores() []model.Chore {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Chore, len(o.chores))
	copy(out, o.chores)
	return out
}

// Members returns a copy of the current roster.
func (o *Orchestrator) Members() []model.FamilyMember {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.FamilyMember, len(o.members))
	copy(out, o.members)
	return out
}

// Code returns the active sharing code, empty when disconnected.
func (o *Orchestrator) Code() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.code
}

// Status returns the current sync status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// LastSync returns when the last successful push or load finished, zero if
// never.
func (o *Orchestrator) LastSync() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSync
}

// CreateChore validates and adds a chore, implicitly creating the assignee
// member on first use.
func (o *Orchestrator) CreateChore(d chorelist.Draft) error {
	if err := validateDraft(d); err != nil {
		return err
	}

	o.mu.Lock()
	o.members, d.Assignee = family.Ensure(o.members, d.Assignee)
	o.chores = chorelist.Create(o.chores, d, o.now())
	o.afterMutationLocked()
	o.mu.Unlock()
	return nil
}

// EditChore merges the patch into the chore matching id. Unknown ids no-op.
func (o *Orchestrator) EditChore(id string, p chorelist.Patch) {
	o.mu.Lock()
	if p.Assignee != nil {
		var canonical string
		o.members, canonical = family.Ensure(o.members, *p.Assignee)
		p.Assignee = &canonical
	}
	o.chores = chorelist.Edit(o.chores, id, p)
	o.afterMutationLocked()
	o.mu.Unlock()
}

// RemoveChore deletes the chore matching id. Unknown ids no-op.
func (o *Orchestrator) RemoveChore(id string) {
	o.mu.Lock()
	o.chores = chorelist.Remove(o.chores, id)
	o.afterMutationLocked()
	o.mu.Unlock()
}

// ToggleChore toggles a standard chore's evaluated completion state.
func (o *Orchestrator) ToggleChore(id string) {
	o.mu.Lock()
	o.chores = chorelist.ToggleStandard(o.chores, id, o.now())
	o.afterMutationLocked()
	o.mu.Unlock()
}

// ToggleChoreDay marks or unmarks a weekday for an advanced-weekly chore.
func (o *Orchestrator) ToggleChoreDay(id string, day time.Weekday) {
	o.mu.Lock()
	o.chores = chorelist.ToggleWeeklyDay(o.chores, id, day, o.now())
	o.afterMutationLocked()
	o.mu.Unlock()
}

// Join connects to an existing family. The code is trimmed and uppercased,
// persisted, and the remote state for it adopted verbatim, even an empty
// list. An empty remote roster keeps the current members. Falls back to the
// local cache when the remote load fails.
func (o *Orchestrator) Join(ctx context.Context, code string) error {
	code = sharing.Normalize(code)
	if code == "" {
		return fmt.Errorf("sharing code is empty")
	}

	if err := o.store.Set(cache.SlotSharingCode, code); err != nil {
		return fmt.Errorf("persist sharing code: %w", err)
	}

	o.mu.Lock()
	o.code = code
	o.loaded = true
	o.mu.Unlock()

	if err := o.loadRemote(ctx, code); err != nil {
		o.logger.Warn("join load failed, using local cache", "code", code, "error", err)
		chores, members, cacheErr := o.loadCache()
		if cacheErr != nil {
			return err
		}
		o.mu.Lock()
		o.chores = chores
		if len(members) > 0 {
			o.members = members
		}
		o.mu.Unlock()
		return err
	}
	return nil
}

// Generate mints a fresh sharing code, persists it, and immediately pushes
// the current in-memory state under it, so a new family starts pre-seeded
// with whatever was on screen, defaults included.
func (o *Orchestrator) Generate(ctx context.Context) (string, error) {
	code := sharing.Generate()
	if err := o.store.Set(cache.SlotSharingCode, code); err != nil {
		return "", fmt.Errorf("persist sharing code: %w", err)
	}

	o.mu.Lock()
	o.code = code
	o.loaded = true
	o.mu.Unlock()

	o.Flush(ctx)
	return code, nil
}

// Disconnect clears the persisted code and cache and resets memory to the
// defaults. Remote data is left untouched.
func (o *Orchestrator) Disconnect() error {
	if err := o.store.Clear(cache.SlotChores, cache.SlotMembers, cache.SlotSharingCode); err != nil {
		return fmt.Errorf("clear local cache: %w", err)
	}

	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.code = ""
	o.chores = nil
	o.members = family.Defaults()
	o.status = Status{State: StateIdle}
	o.lastSync = time.Time{}
	o.mu.Unlock()

	o.notify(Status{State: StateIdle})
	return nil
}

// TestConnection probes the proxy for the active code.
func (o *Orchestrator) TestConnection(ctx context.Context) remote.TestResult {
	return o.remote.TestConnection(ctx, o.Code())
}

// Flush pushes the current state right now, bypassing the debounce. Also the
// manual retry action after a failed sync: the payload is whatever is in
// memory, which for a pure retry is the same payload that just failed.
func (o *Orchestrator) Flush(ctx context.Context) {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()
	o.push(ctx)
}

// afterMutationLocked persists the new snapshot to the cache and schedules a
// debounced push. Caller holds o.mu.
func (o *Orchestrator) afterMutationLocked() {
	o.persistCacheLocked()

	if !o.loaded || o.code == "" {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		o.push(ctx)
	})
}

// push serializes the full state and sends it, guarded by a sequence number
// so only the newest in-flight push reports status.
func (o *Orchestrator) push(ctx context.Context) {
	o.mu.Lock()
	if o.code == "" {
		o.mu.Unlock()
		return
	}
	o.seq++
	seq := o.seq
	snap := pushSnapshot{
		code:    o.code,
		chores:  append([]model.Chore(nil), o.chores...),
		members: append([]model.FamilyMember(nil), o.members...),
	}
	o.persistCacheLocked()
	o.status = Status{State: StateSyncing}
	o.mu.Unlock()

	o.notify(Status{State: StateSyncing})

	err := o.remote.Save(ctx, snap.code, snap.chores, snap.members)

	o.mu.Lock()
	if seq != o.seq {
		// A newer push started while this one was in flight; its
		// outcome owns the status now.
		o.mu.Unlock()
		return
	}
	var status Status
	if err != nil {
		status = Status{State: StateError, Message: err.Error()}
		o.logger.Warn("sync push failed", "code", snap.code, "error", err)
	} else {
		status = Status{State: StateSuccess}
		o.lastSync = o.now()
	}
	o.status = status
	o.mu.Unlock()

	o.notify(status)
	o.scheduleRevert(seq)
}

// scheduleRevert flips success/error back to idle after a delay, unless a
// newer push has started in the meantime.
func (o *Orchestrator) scheduleRevert(seq uint64) {
	time.AfterFunc(o.revertAfter, func() {
		o.mu.Lock()
		if seq != o.seq || o.status.State == StateSyncing {
			o.mu.Unlock()
			return
		}
		o.status = Status{State: StateIdle}
		o.mu.Unlock()
		o.notify(Status{State: StateIdle})
	})
}

func (o *Orchestrator) loadRemote(ctx context.Context, code string) error {
	chores, members, err := o.remote.Load(ctx, code)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.chores = chores
	if len(members) > 0 {
		o.members = members
	}
	o.lastSync = o.now()
	o.persistCacheLocked()
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) loadCache() ([]model.Chore, []model.FamilyMember, error) {
	var chores []model.Chore
	if raw, ok, err := o.store.Get(cache.SlotChores); err != nil {
		return nil, nil, fmt.Errorf("read cached chores: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &chores); err != nil {
			o.logger.Warn("cached chores unreadable, starting empty", "error", err)
			chores = nil
		}
	}

	var members []model.FamilyMember
	if raw, ok, err := o.store.Get(cache.SlotMembers); err != nil {
		return nil, nil, fmt.Errorf("read cached members: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &members); err != nil {
			o.logger.Warn("cached members unreadable, keeping defaults", "error", err)
			members = nil
		}
	}

	return chores, members, nil
}

// persistCacheLocked writes the in-memory snapshot to the cache slots. The
// cache is written on every mutation and save attempt regardless of remote
// outcome; it is the durable record when the network is down. Caller holds
// o.mu.
func (o *Orchestrator) persistCacheLocked() {
	if raw, err := json.Marshal(o.chores); err == nil {
		if err := o.store.Set(cache.SlotChores, string(raw)); err != nil {
			o.logger.Warn("cache write failed", "slot", cache.SlotChores, "error", err)
		}
	}
	if raw, err := json.Marshal(o.members); err == nil {
		if err := o.store.Set(cache.SlotMembers, string(raw)); err != nil {
			o.logger.Warn("cache write failed", "slot", cache.SlotMembers, "error", err)
		}
	}
}

func (o *Orchestrator) notify(s Status) {
	if o.onStatus != nil {
		o.onStatus(s)
	}
}

func validateDraft(d chorelist.Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !d.Frequency.Valid() {
		return fmt.Errorf("unknown frequency %q", d.Frequency)
	}
	for _, day := range d.WeeklyDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("weekday index %d out of range", day)
		}
	}
	return nil
}
