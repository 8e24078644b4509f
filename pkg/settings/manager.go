package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
)

// ErrNotFound is returned by a Store that holds no record yet.
var ErrNotFound = errors.New("settings: record not found")

// Store persists the settings record and the local cache record.
// Implementations return ErrNotFound when a record was never saved.
type Store interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
	LoadLocal(ctx context.Context) (LocalData, error)
	SaveLocal(ctx context.Context, d LocalData) error
}

// Manager owns the in-memory settings snapshot. Every mutation builds a new
// value, persists it and then notifies subscribers with the new snapshot.
type Manager struct {
	store Store
	now   func() time.Time

	mu       sync.Mutex
	settings Settings
	local    LocalData
	subs     map[int]func(Settings)
	nextSub  int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, used to decide which plans are stale.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a manager with default (empty) settings.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		subs:  map[int]func(Settings){},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the settings record, drops stale plans and writes the record
// back when plans were dropped. It returns the number of pruned edits. A
// missing record leaves the defaults in place.
func (m *Manager) Load(ctx context.Context) (int, error) {
	loaded, err := m.store.LoadSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading settings: %w", err)
	}

	pruned, changed := loaded.Pruned(semester.FromDate(m.now()))
	removed := len(loaded.ModuleEdits) - len(pruned.ModuleEdits)
	if !changed {
		m.replace(pruned)
		return 0, nil
	}
	if err := m.Update(ctx, pruned); err != nil {
		return 0, err
	}
	return removed, nil
}

// LoadLocal reads the cached sync result. A missing record is not an error.
func (m *Manager) LoadLocal(ctx context.Context) error {
	loaded, err := m.store.LoadLocal(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading local data: %w", err)
	}
	m.mu.Lock()
	m.local = loaded
	m.mu.Unlock()
	return nil
}

// Settings returns the current snapshot.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Local returns the cached sync result.
func (m *Manager) Local() LocalData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.local
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Settings)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) replace(s Settings) []func(Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	subs := make([]func(Settings), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}

// Update replaces the settings, persists them and notifies subscribers.
func (m *Manager) Update(ctx context.Context, s Settings) error {
	subs := m.replace(s)
	if err := m.store.SaveSettings(ctx, s); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	for _, fn := range subs {
		fn(s)
	}
	return nil
}

// EditModule merges edit into the stored edit for the same module.
func (m *Manager) EditModule(ctx context.Context, edit ModuleEdit) error {
	return m.Update(ctx, m.Settings().WithEdit(edit))
}

// DeleteModuleEdit removes the edit for fullID. A remote module reverts to
// its fetched values, a manual module disappears.
func (m *Manager) DeleteModuleEdit(ctx context.Context, fullID string) error {
	return m.Update(ctx, m.Settings().WithoutEdit(fullID))
}

// ModuleEdit returns the stored edit for fullID.
func (m *Manager) ModuleEdit(fullID string) (ModuleEdit, bool) {
	return m.Settings().Edit(fullID)
}

// UpdateSemester overrides the viewing semester; nil restores the default.
func (m *Manager) UpdateSemester(ctx context.Context, sem *semester.Semester) error {
	s := m.Settings()
	s.Semester = sem
	return m.Update(ctx, s)
}

// UpdateProgram overrides the detected program; nil restores detection.
func (m *Manager) UpdateProgram(ctx context.Context, p *program.Program) error {
	s := m.Settings()
	s.Program = p
	return m.Update(ctx, s)
}

// UpdateMajor overrides the detected major; nil restores detection.
func (m *Manager) UpdateMajor(ctx context.Context, major *program.Major) error {
	s := m.Settings()
	s.Major = major
	return m.Update(ctx, s)
}

// UpdateLocal replaces and persists the cached sync result.
func (m *Manager) UpdateLocal(ctx context.Context, d LocalData) error {
	m.mu.Lock()
	m.local = d
	m.mu.Unlock()
	if err := m.store.SaveLocal(ctx, d); err != nil {
		return fmt.Errorf("saving local data: %w", err)
	}
	return nil
}

// UserModules overlays the current edits on remote.
func (m *Manager) UserModules(remote []module.Module) []module.Module {
	return UserModules(remote, m.Settings())
}
