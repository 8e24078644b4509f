package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/redis/go-redis/v9"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testModules() []module.Module {
	return []module.Module{
		{FullID: "I.BA_OOP.H2401", ShortName: "OOP", ECTS: module.ECTS(6), State: module.Passed, Grade: module.Grade("5.0"), Semester: semester.MustParse("HS24")},
		{FullID: "I.BA_WIPRO.F2501", ShortName: "WIPRO", ECTS: module.ECTS(6), State: module.Ongoing, Semester: semester.MustParse("FS25")},
		{FullID: "I.BA_ENGL.F2501", ShortName: "ENGL", State: module.NotApplicable, Semester: semester.MustParse("FS25")},
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.LoadSettings(ctx); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sem := semester.MustParse("HS25")
	p := program.CyberSecurity
	s := settings.Settings{Semester: &sem, Program: &p}.WithEdit(settings.ModuleEdit{
		FullID: "I.BA_OOP.H2401",
		Edits:  module.Patch{Grade: module.Some((*string)(nil)), Type: module.Some(module.Core)},
	})
	if err := db.SaveSettings(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveSettings(ctx, s.WithoutEdit("nothing")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := db.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ModuleEdits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(got.ModuleEdits))
	}
	grade := got.ModuleEdits[0].Edits.Grade
	if !grade.Set || grade.Value != nil {
		t.Fatalf("expected explicit null grade, got %+v", grade)
	}
	if *got.Semester != sem || *got.Program != p || got.Major != nil {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestReplaceLocalTracksChanges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	db.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := db.LoadLocal(ctx); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	major := program.DigitalForensic
	first := settings.LocalData{Modules: testModules(), Program: program.CyberSecurity, Major: &major, PartTime: true}
	changes, err := db.ReplaceLocal(ctx, first)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 added changes, got %d", len(changes))
	}

	got, err := db.LoadLocal(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Modules) != 3 || got.Program != program.CyberSecurity || !got.PartTime || *got.Major != major {
		t.Fatalf("unexpected local data %+v", got)
	}
	if got.Modules[2].ECTS != nil || got.Modules[1].Grade != nil {
		t.Fatalf("nullable fields not preserved: %+v", got.Modules)
	}
	if *got.Modules[0].Grade != "5.0" || got.Modules[0].Semester != semester.MustParse("HS24") {
		t.Fatalf("unexpected first module %+v", got.Modules[0])
	}

	db.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	next := testModules()[:2]
	next[1].State = module.Passed
	next[1].Grade = module.Grade("4.5")
	changes, err = db.ReplaceLocal(ctx, settings.LocalData{Modules: next, Program: program.CyberSecurity})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeUpdated || changes[0].FullID != "I.BA_WIPRO.F2501" {
		t.Fatalf("unexpected update %+v", changes[0])
	}
	if changes[0].Detail != "state: Ongoing -> Passed, grade: - -> 4.5" {
		t.Fatalf("unexpected detail %q", changes[0].Detail)
	}
	if changes[1].ChangeType != ChangeRemoved || changes[1].ShortName != "ENGL" {
		t.Fatalf("unexpected removal %+v", changes[1])
	}

	got, err = db.LoadLocal(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Modules) != 2 {
		t.Fatalf("expected removed module to be swept, got %d", len(got.Modules))
	}

	recent, err := db.RecentChanges(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 changes in history, got %d", len(recent))
	}
	if !recent[0].OccurredAt.Equal(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected newest first, got %v", recent[0].OccurredAt)
	}

	limited, err := db.RecentChanges(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %d", err, len(limited))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if err := db.SaveLocal(ctx, settings.LocalData{Modules: testModules()}); err != nil {
		t.Fatalf("save: %v", err)
	}

	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := map[string]StateStats{
		"NotApplicable": {State: "NotApplicable", Modules: 1, ECTS: 0},
		"Ongoing":       {State: "Ongoing", Modules: 1, ECTS: 6},
		"Passed":        {State: "Passed", Modules: 1, ECTS: 6},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), stats)
	}
	for _, s := range stats {
		if want[s.State] != s {
			t.Fatalf("unexpected row %+v", s)
		}
	}
}

func TestManagerOverDB(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m := settings.NewManager(db)
	if err := m.EditModule(ctx, settings.ModuleEdit{FullID: settings.ManualPrefix + "x", Edits: module.Patch{ShortName: module.Some("EXT")}}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	fresh := settings.NewManager(db)
	if _, err := fresh.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := fresh.ModuleEdit(settings.ManualPrefix + "x"); !ok {
		t.Fatalf("edit not persisted")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CREDITSCOPE_TEST_REDIS")
	if addr == "" {
		t.Skip("CREDITSCOPE_TEST_REDIS not set")
	}
	ctx := context.Background()
	cfg := DefaultRedisConfig()
	cfg.Addr = addr
	cfg.Prefix = "creditscope-test:" + t.Name() + ":"

	store, err := OpenRedis(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		store.rdb.Del(ctx, store.key(settingsKey), store.key(localKey), store.key(changesKey))
		store.Close()
	})

	if _, err := store.LoadSettings(ctx); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.ReplaceLocal(ctx, settings.LocalData{Modules: testModules()}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	changes, err := store.ReplaceLocal(ctx, settings.LocalData{Modules: testModules()[:1]})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 removals, got %+v", changes)
	}

	recent, err := store.RecentChanges(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 || recent[0].FullID != "I.BA_WIPRO.F2501" {
		t.Fatalf("unexpected history %+v", recent)
	}
	if err := store.rdb.Get(ctx, store.key(localKey)).Err(); errors.Is(err, redis.Nil) {
		t.Fatalf("local record missing")
	}
}
