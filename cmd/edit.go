package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Correct modules fetched from the campus portal",
}

var editSetCmd = &cobra.Command{
	Use:   "set FULLID",
	Short: "Override fields of a module",
	Long: `Override fields of a module. Only the given fields change; earlier edits
of other fields are kept.

Example: creditscope edit set I.BA_OOP.H2401 --state Passed --grade 5.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if patch.Empty() {
			return errors.New("nothing to change, pass at least one field flag")
		}

		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()

		if !knownModule(a.view(), args[0]) {
			utils.Log.Warnf("%s is not among your modules, it will be added as a manual module", args[0])
		}
		if err := a.manager.EditModule(cmd.Context(), settings.ModuleEdit{FullID: args[0], Edits: patch}); err != nil {
			return err
		}
		utils.Log.Infof("Updated %s", args[0])
		return nil
	},
}

var editDeleteCmd = &cobra.Command{
	Use:     "delete FULLID",
	Aliases: []string{"rm"},
	Short:   "Drop your edits of a module, or remove a manual module",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()

		if _, ok := a.manager.ModuleEdit(args[0]); !ok {
			return fmt.Errorf("no edit stored for %s", args[0])
		}
		if err := a.manager.DeleteModuleEdit(cmd.Context(), args[0]); err != nil {
			return err
		}
		utils.Log.Infof("Removed edit of %s", args[0])
		return nil
	},
}

var editShowCmd = &cobra.Command{
	Use:   "show [FULLID]",
	Short: "Print stored edits as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		var out any = a.manager.Settings().ModuleEdits
		if len(args) == 1 {
			edit, ok := a.manager.ModuleEdit(args[0])
			if !ok {
				return fmt.Errorf("no edit stored for %s", args[0])
			}
			out = edit
		}
		raw, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

func knownModule(v view, fullID string) bool {
	for _, m := range v.modules {
		if m.FullID == fullID {
			return true
		}
	}
	return false
}

// addPatchFlags registers the flags read by patchFromFlags.
func addPatchFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "Short name")
	fs.Float64("ects", 0, "Credits")
	fs.Bool("clear-ects", false, "Remove the credits")
	fs.String("state", "", "State: Ongoing, Planned, Passed, Failed, NotApplicable")
	fs.String("grade", "", "Grade")
	fs.Bool("clear-grade", false, "Remove the grade")
	fs.String("semester", "", "Semester, e.g. HS24")
	fs.String("type", "", "Category: Core, Project, Extension, Misc, Major")
}

// patchFromFlags turns the explicitly given flags into a patch. Flags left
// at their default stay unset.
func patchFromFlags(fs *pflag.FlagSet) (module.Patch, error) {
	var p module.Patch

	if fs.Changed("name") {
		name, _ := fs.GetString("name")
		p.ShortName = module.Some(name)
	}

	if fs.Changed("ects") && fs.Changed("clear-ects") {
		return p, errors.New("--ects and --clear-ects are mutually exclusive")
	}
	if fs.Changed("ects") {
		ects, _ := fs.GetFloat64("ects")
		if ects < 0 {
			return p, fmt.Errorf("credits cannot be negative: %v", ects)
		}
		p.ECTS = module.Some(module.ECTS(ects))
	}
	if clearECTS, _ := fs.GetBool("clear-ects"); clearECTS {
		p.ECTS = module.Some[*float64](nil)
	}

	if fs.Changed("state") {
		raw, _ := fs.GetString("state")
		state, err := module.ParseState(raw)
		if err != nil {
			return p, err
		}
		p.State = module.Some(state)
	}

	if fs.Changed("grade") && fs.Changed("clear-grade") {
		return p, errors.New("--grade and --clear-grade are mutually exclusive")
	}
	if fs.Changed("grade") {
		grade, _ := fs.GetString("grade")
		p.Grade = module.Some(module.Grade(grade))
	}
	if clearGrade, _ := fs.GetBool("clear-grade"); clearGrade {
		p.Grade = module.Some[*string](nil)
	}

	if fs.Changed("semester") {
		raw, _ := fs.GetString("semester")
		sem, err := semester.Parse(raw)
		if err != nil {
			return p, err
		}
		p.Semester = module.Some(sem)
	}

	if fs.Changed("type") {
		raw, _ := fs.GetString("type")
		t, err := module.ParseType(raw)
		if err != nil {
			return p, err
		}
		p.Type = module.Some(t)
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.AddCommand(editSetCmd)
	editCmd.AddCommand(editDeleteCmd)
	editCmd.AddCommand(editShowCmd)
	addPatchFlags(editSetCmd.Flags())
}
