package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the program, major and semester used for calculations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		v := a.view()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Program\t%s\t%s\n", v.program.Name(), origin(v.settings.Program != nil))
		fmt.Fprintf(w, "Major\t%s\t%s\n", majorName(v.major), origin(v.settings.Major != nil))
		fmt.Fprintf(w, "Semester\t%s\t%s\n", v.viewing, origin(v.settings.Semester != nil))
		fmt.Fprintf(w, "Part-time\t%t\tcampus\n", v.local.PartTime)
		fmt.Fprintf(w, "Module edits\t%d\t\n", len(v.settings.ModuleEdits))
		if !v.local.FetchedAt.IsZero() {
			fmt.Fprintf(w, "Last sync\t%s\t\n", v.local.FetchedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func origin(overridden bool) string {
	if overridden {
		return "override"
	}
	return "campus"
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Override program, major or calculation semester",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("program") && !flags.Changed("major") && !flags.Changed("semester") {
			return errors.New("nothing to change, pass --program, --major or --semester")
		}

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		if flags.Changed("program") {
			raw, _ := flags.GetString("program")
			p, err := program.Parse(raw)
			if err != nil {
				return err
			}
			if err := a.manager.UpdateProgram(ctx, &p); err != nil {
				return err
			}
		}
		if flags.Changed("major") {
			raw, _ := flags.GetString("major")
			m, err := program.ParseMajor(raw)
			if err != nil {
				return err
			}
			v := a.view()
			if !v.program.HasMajor(m) {
				utils.Log.Warnf("%s is not a major of %s", m.Name(), v.program.Name())
			}
			if err := a.manager.UpdateMajor(ctx, &m); err != nil {
				return err
			}
		}
		if flags.Changed("semester") {
			raw, _ := flags.GetString("semester")
			sem, err := semester.Parse(raw)
			if err != nil {
				return err
			}
			if err := a.manager.UpdateSemester(ctx, &sem); err != nil {
				return err
			}
		}
		utils.Log.Info("Settings updated")
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Go back to the detected program, major and the current semester",
	RunE: func(cmd *cobra.Command, args []string) error {
		all := !cmd.Flags().Changed("program") && !cmd.Flags().Changed("major") && !cmd.Flags().Changed("semester")
		resetProgram, _ := cmd.Flags().GetBool("program")
		resetMajor, _ := cmd.Flags().GetBool("major")
		resetSemester, _ := cmd.Flags().GetBool("semester")

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		if all || resetProgram {
			if err := a.manager.UpdateProgram(ctx, nil); err != nil {
				return err
			}
		}
		if all || resetMajor {
			if err := a.manager.UpdateMajor(ctx, nil); err != nil {
				return err
			}
		}
		if all || resetSemester {
			if err := a.manager.UpdateSemester(ctx, nil); err != nil {
				return err
			}
		}
		utils.Log.Info("Settings reset")
		return nil
	},
}

var settingsProgramsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the known programs and their majors",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, p := range program.All() {
			fmt.Fprintf(w, "%s\t%s\n", p, p.Name())
			for _, m := range p.Majors() {
				fmt.Fprintf(w, "  %s\t%s\n", m, m.Name())
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsProgramsCmd)

	settingsSetCmd.Flags().String("program", "", "Program identifier, see 'settings programs'")
	settingsSetCmd.Flags().String("major", "", "Major identifier, see 'settings programs'")
	settingsSetCmd.Flags().String("semester", "", "Semester used for catalog lookups, e.g. HS24")

	settingsResetCmd.Flags().Bool("program", false, "Reset only the program")
	settingsResetCmd.Flags().Bool("major", false, "Reset only the major")
	settingsResetCmd.Flags().Bool("semester", false, "Reset only the semester")
}
