package settings

import (
	"sort"

	"github.com/creditscope/creditscope/pkg/module"
)

// UserModules overlays the user's edits on the remote modules.
//
// Remote modules with an edit get the edited fields, everything else keeps
// its remote value. Edits without a remote counterpart become manual
// modules built from the edit alone. The result is ordered by semester.
func UserModules(remote []module.Module, s Settings) []module.Module {
	edits := make(map[string]module.Patch, len(s.ModuleEdits))
	for _, e := range s.ModuleEdits {
		edits[e.FullID] = e.Edits
	}

	out := make([]module.Module, 0, len(remote)+len(s.ModuleEdits))
	seen := make(map[string]bool, len(remote))
	for _, m := range remote {
		if seen[m.FullID] {
			continue
		}
		seen[m.FullID] = true

		if patch, ok := edits[m.FullID]; ok {
			m = patch.Apply(m)
		}
		out = append(out, m)
	}

	for _, e := range s.ModuleEdits {
		if seen[e.FullID] {
			continue
		}
		seen[e.FullID] = true
		out = append(out, manualModule(e))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Semester.Before(out[j].Semester)
	})
	return out
}

func manualModule(e ModuleEdit) module.Module {
	m := e.Edits.Apply(module.Module{
		FullID:    e.FullID,
		ShortName: e.FullID,
		State:     module.NotApplicable,
	})
	m.Manual = true
	return m
}
