package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/credits"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints your credits per category against the program requirements.",
	Long: `Prints your credits per category against the program requirements.

DONE counts passed modules, ONGOING additionally counts running modules.
With --planned, modules planned up to that semester are added on top.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plannedFlag, _ := cmd.Flags().GetString("planned")

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		v := a.view()
		req := v.program.Requirements()

		fmt.Printf("Program: %s  Major: %s  Semester: %s\n\n", v.program.Name(), majorName(v.major), v.viewing)

		if plannedFlag != "" {
			planned, err := semester.Parse(plannedFlag)
			if err != nil {
				return err
			}
			stat := v.resolver.IncludingPlanned(v.modules, planned, v.viewing, v.program, v.major)
			printPlannedTable(req, stat, stat.Projected(planned, v.current))
		} else {
			stat := v.resolver.Statistics(v.modules, v.viewing, v.program, v.major)
			printStatsTable(req, stat)
			if credits.Fulfilled(req, stat.Done) {
				fmt.Println("\nAll credit requirements are fulfilled.")
			}
		}

		if missing := credits.MissingMandatory(req, v.modules); len(missing) > 0 {
			fmt.Printf("\nMandatory modules not passed yet: %s\n", strings.Join(missing, ", "))
		}
		return nil
	},
}

func printStatsTable(req program.Requirement, stat credits.Statistic) {
	done := credits.Rows(req, stat.Done)
	ongoing := credits.Rows(req, stat.Ongoing)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tDONE\tONGOING\tREQUIRED\tMISSING\t")
	for i, row := range done {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", row.Category, utils.FormatCredits(row.Actual), utils.FormatCredits(ongoing[i].Actual), optionalCredits(row.Required), missingCredits(ongoing[i]))
	}
	w.Flush()
}

func printPlannedTable(req program.Requirement, stat credits.PlannedStatistic, projected credits.Credits) {
	ongoing := credits.Rows(req, stat.Ongoing)
	planned := credits.Rows(req, stat.Planned)
	total := credits.Rows(req, projected)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tONGOING\tPLANNED\tPROJECTED\tREQUIRED\tMISSING\t")
	for i, row := range total {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", row.Category, utils.FormatCredits(ongoing[i].Actual), utils.FormatCredits(planned[i].Actual), utils.FormatCredits(row.Actual), optionalCredits(row.Required), missingCredits(row))
	}
	w.Flush()
}

func missingCredits(row credits.Row) string {
	if row.Required == nil || row.Actual >= *row.Required {
		return "-"
	}
	return utils.FormatCredits(*row.Required - row.Actual)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().String("planned", "", "Include modules planned up to this semester (e.g. FS26)")
}
