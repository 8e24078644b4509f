package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the module catalog",
}

var catalogSemestersCmd = &cobra.Command{
	Use:   "semesters",
	Short: "List the semesters the catalog covers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, s := range c.Semesters() {
			fmt.Println(s)
		}
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list [SEMESTER]",
	Short: "List the modules offered to your program in a semester",
	Long: `List the modules offered to your program in a semester (default: the
calculation semester). The TYPE column already accounts for your major.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()
		v := a.view()

		sem := v.viewing
		if len(args) == 1 {
			if sem, err = semester.Parse(args[0]); err != nil {
				return err
			}
		}
		p := v.program
		if raw, _ := cmd.Flags().GetString("program"); raw != "" {
			if p, err = program.Parse(raw); err != nil {
				return err
			}
		}

		offerings := v.resolver.Offerings(sem, p, v.major)
		if len(offerings) == 0 {
			fmt.Printf("The catalog has no modules for %s in %s.\n", p.Name(), sem)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODULE\tTYPE\tECTS\tMANDATORY\tMAJORS")
		for _, o := range offerings {
			majors := ""
			for i, m := range o.Entry.Majors {
				if i > 0 {
					majors += ", "
				}
				majors += m.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", o.ShortName, o.Type, optionalCredits(o.Entry.ECTS), o.Entry.Mandatory, majors)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSemestersCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().String("program", "", "Program identifier (default: your program)")
}
