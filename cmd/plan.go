package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/credits"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/planning"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the semesters left and what you planned for them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		v := a.view()
		start, err := planning.StartingSemester(v.modules)
		if errors.Is(err, planning.ErrNoModules) {
			fmt.Println("No modules yet. Run 'creditscope sync' first.")
			return nil
		}
		if err != nil {
			return err
		}

		upcoming := planning.UpcomingSemesters(v.current, v.local.PartTime, start, durations())
		if len(upcoming) == 0 {
			fmt.Printf("Your regular study time (started %s) has ended, there is nothing left to plan.\n", start)
			return nil
		}

		req := v.program.Requirements()
		for _, sem := range upcoming {
			fmt.Printf("== %s ==\n", sem)

			var planned []module.Module
			for _, m := range v.modules {
				if m.State == module.Planned && m.Semester.Equal(sem) {
					planned = append(planned, m)
				}
			}
			if len(planned) == 0 {
				fmt.Println("No modules planned.")
			} else {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, m := range planned {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", m.ShortName, v.typeOf(m), optionalCredits(m.ECTS), m.FullID)
				}
				w.Flush()
			}

			stat := v.resolver.IncludingPlanned(v.modules, sem, v.viewing, v.program, v.major)
			projected := stat.Projected(sem, v.current)
			if gaps := credits.Gaps(req, projected); len(gaps) > 0 {
				parts := make([]string, 0, len(gaps))
				for _, g := range gaps {
					parts = append(parts, fmt.Sprintf("%s %s", g.Category, utils.FormatCredits(g.Missing())))
				}
				fmt.Printf("Still missing afterwards: %s\n\n", strings.Join(parts, ", "))
			} else {
				fmt.Printf("All credit requirements met after this semester.\n\n")
			}
		}
		return nil
	},
}

var planAddCmd = &cobra.Command{
	Use:   "add SHORTNAME SEMESTER",
	Short: "Plan a module for an upcoming semester",
	Long: `Plan a module for an upcoming semester.

The credits are taken from the catalog unless --ects is given. Plans are
removed automatically once their semester has started.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shortName := strings.ToUpper(strings.TrimSpace(args[0]))
		sem, err := semester.Parse(args[1])
		if err != nil {
			return err
		}
		if !sem.After(semester.Current()) {
			return fmt.Errorf("%s has already started, plans are only kept for future semesters", sem)
		}

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()
		v := a.view()

		patch := module.Patch{
			ShortName: module.Some(shortName),
			State:     module.Some(module.Planned),
			Semester:  module.Some(sem),
		}
		if cmd.Flags().Changed("ects") {
			ects, _ := cmd.Flags().GetFloat64("ects")
			patch.ECTS = module.Some(module.ECTS(ects))
		} else if ects, ok := catalogECTS(a, v, shortName, sem); ok {
			patch.ECTS = module.Some(module.ECTS(ects))
		} else {
			utils.Log.Warnf("%s is not in the catalog for %s, set its credits with --ects", shortName, v.program.Name())
		}

		id := settings.NewManualID()
		if err := a.manager.EditModule(cmd.Context(), settings.ModuleEdit{FullID: id, Edits: patch}); err != nil {
			return err
		}
		utils.Log.Infof("Planned %s for %s (%s)", shortName, sem, id)
		return nil
	},
}

// catalogECTS looks the module up in sem, or in the newest catalog
// semester before it when sem has no data yet.
func catalogECTS(a *app, v view, shortName string, sem semester.Semester) (float64, bool) {
	entry, ok := a.catalog.Lookup(sem, sem, shortName, v.program)
	if !ok {
		if latest, found := a.catalog.Latest(sem); found {
			entry, ok = a.catalog.Lookup(latest, latest, shortName, v.program)
		}
	}
	if !ok || entry.ECTS == nil {
		return 0, false
	}
	return *entry.ECTS, true
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planAddCmd)
	planAddCmd.Flags().Float64("ects", 0, "Credits of the module")
}
