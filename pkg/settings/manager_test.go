package settings

import (
	"context"
	"testing"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 10, 0, 0, 0, 0, time.UTC) }
}

func TestManagerLoadEmptyStoreKeepsDefaults(t *testing.T) {
	store := &memoryStore{}
	m := NewManager(store)

	n, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, m.Settings().ModuleEdits)
	assert.Zero(t, store.saves)

	require.NoError(t, m.LoadLocal(context.Background()))
	assert.Empty(t, m.Local().Modules)
}

func TestManagerLoadPrunesAndPersists(t *testing.T) {
	stored := Settings{ModuleEdits: []ModuleEdit{plan("old", "FS25"), plan("next", "FS26")}}
	store := &memoryStore{settings: &stored}
	m := NewManager(store, WithClock(clock(2025, time.October)))

	n, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.saves)
	require.Len(t, store.settings.ModuleEdits, 1)
	assert.Equal(t, "next", store.settings.ModuleEdits[0].FullID)
}

func TestManagerLoadWithoutStalePlansDoesNotWrite(t *testing.T) {
	stored := Settings{ModuleEdits: []ModuleEdit{plan("next", "FS26")}}
	store := &memoryStore{settings: &stored}
	m := NewManager(store, WithClock(clock(2025, time.October)))

	_, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, store.saves)
	assert.Len(t, m.Settings().ModuleEdits, 1)
}

func TestManagerMutationsPersistAndNotify(t *testing.T) {
	store := &memoryStore{}
	m := NewManager(store)
	ctx := context.Background()

	var seen []Settings
	cancel := m.Subscribe(func(s Settings) { seen = append(seen, s) })

	require.NoError(t, m.EditModule(ctx, ModuleEdit{FullID: "A", Edits: module.Patch{State: module.Some(module.Passed)}}))
	require.NoError(t, m.EditModule(ctx, ModuleEdit{FullID: "A", Edits: module.Patch{Grade: module.Some(module.Grade("6.0"))}}))

	e, ok := m.ModuleEdit("A")
	require.True(t, ok)
	assert.Equal(t, module.Passed, e.Edits.State.Value)
	assert.Equal(t, "6.0", *e.Edits.Grade.Value)

	sem := semester.MustParse("HS25")
	require.NoError(t, m.UpdateSemester(ctx, &sem))
	p := program.CyberSecurity
	require.NoError(t, m.UpdateProgram(ctx, &p))
	major := program.DigitalForensic
	require.NoError(t, m.UpdateMajor(ctx, &major))
	require.NoError(t, m.DeleteModuleEdit(ctx, "A"))

	assert.Equal(t, 6, store.saves)
	require.Len(t, seen, 6)
	last := seen[len(seen)-1]
	assert.Empty(t, last.ModuleEdits)
	assert.Equal(t, sem, *last.Semester)
	assert.Equal(t, program.CyberSecurity, *last.Program)
	assert.Equal(t, program.DigitalForensic, *last.Major)
	assert.Equal(t, last, *store.settings)

	cancel()
	require.NoError(t, m.UpdateSemester(ctx, nil))
	assert.Len(t, seen, 6, "no notification after cancel")
}

func TestManagerUserModules(t *testing.T) {
	m := NewManager(&memoryStore{})
	require.NoError(t, m.EditModule(context.Background(), ModuleEdit{
		FullID: "I.BA_OOP.H2401",
		Edits:  module.Patch{State: module.Some(module.Failed)},
	}))

	got := m.UserModules(remoteModules())
	assert.Equal(t, module.Failed, got[0].State)
}

func TestManagerLocalData(t *testing.T) {
	store := &memoryStore{}
	m := NewManager(store)

	data := LocalData{Modules: remoteModules(), Program: program.Economics, PartTime: true}
	require.NoError(t, m.UpdateLocal(context.Background(), data))
	assert.Equal(t, 1, store.localSaves)

	fresh := NewManager(store)
	require.NoError(t, fresh.LoadLocal(context.Background()))
	assert.Equal(t, program.Economics, fresh.Local().Program)
	assert.True(t, fresh.Local().PartTime)
	assert.Len(t, fresh.Local().Modules, 2)
}
