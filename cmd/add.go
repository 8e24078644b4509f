package cmd

import (
	"errors"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a module the campus portal does not list",
	Long: `Add a module the campus portal does not list, e.g. credits transferred
from another school.

Example: creditscope add --name EXTERN --ects 3 --semester HS23 --state Passed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if !patch.ShortName.Set {
			return errors.New("--name is required")
		}
		if !patch.State.Set {
			patch.State = module.Some(module.Passed)
		}
		if !patch.Semester.Set {
			patch.Semester = module.Some(semester.Current())
		}

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()

		id := settings.NewManualID()
		if err := a.manager.EditModule(cmd.Context(), settings.ModuleEdit{FullID: id, Edits: patch}); err != nil {
			return err
		}
		utils.Log.Infof("Added %s as %s", patch.ShortName.Value, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addPatchFlags(addCmd.Flags())
}
