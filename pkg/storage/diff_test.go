package storage

import (
	"testing"
	"time"

	"github.com/creditscope/creditscope/pkg/module"
)

func TestDiffModules(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := testModules()
	next := []module.Module{prev[0], prev[1], {FullID: "I.BA_DBS.F2501", ShortName: "DBS", State: module.Ongoing}}
	next[0].ECTS = module.ECTS(3)

	changes := DiffModules(prev, next, now)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeUpdated || changes[0].Detail != "ects: 6 -> 3" {
		t.Fatalf("unexpected update %+v", changes[0])
	}
	if changes[1].ChangeType != ChangeAdded || changes[1].ShortName != "DBS" {
		t.Fatalf("unexpected add %+v", changes[1])
	}
	if changes[2].ChangeType != ChangeRemoved || changes[2].ShortName != "ENGL" {
		t.Fatalf("unexpected removal %+v", changes[2])
	}

	if len(DiffModules(prev, prev, now)) != 0 {
		t.Fatalf("identical lists should not differ")
	}
}
