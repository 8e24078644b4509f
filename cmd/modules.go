package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:     "modules",
	Aliases: []string{"ls"},
	Short:   "List your modules with your edits applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		semFilter, _ := cmd.Flags().GetString("semester")
		stateFilter, _ := cmd.Flags().GetString("state")

		var (
			sem   *semester.Semester
			state *module.State
		)
		if semFilter != "" {
			s, err := semester.Parse(semFilter)
			if err != nil {
				return err
			}
			sem = &s
		}
		if stateFilter != "" {
			s, err := module.ParseState(stateFilter)
			if err != nil {
				return err
			}
			state = &s
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		v := a.view()
		if len(v.modules) == 0 {
			fmt.Println("No modules yet. Run 'creditscope sync' or 'creditscope add'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEMESTER\tMODULE\tTYPE\tECTS\tSTATE\tGRADE\tSOURCE\tID")
		for _, m := range v.modules {
			if sem != nil && !m.Semester.Equal(*sem) {
				continue
			}
			if state != nil && m.State != *state {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.Semester, m.ShortName, v.typeOf(m), optionalCredits(m.ECTS), m.State, optionalGrade(m.Grade), source(v, m), m.FullID)
		}
		return w.Flush()
	},
}

func source(v view, m module.Module) string {
	if m.Manual {
		return "manual"
	}
	if _, ok := v.settings.Edit(m.FullID); ok {
		return "edited"
	}
	return "campus"
}

func init() {
	rootCmd.AddCommand(modulesCmd)
	modulesCmd.Flags().String("semester", "", "Only show modules of this semester (e.g. HS24)")
	modulesCmd.Flags().String("state", "", "Only show modules in this state (Ongoing, Planned, Passed, Failed, NotApplicable)")
}
