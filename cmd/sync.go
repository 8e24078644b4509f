package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/campus"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/creditscope/creditscope/pkg/whttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// syncCmd implements: creditscope sync
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch your modules and study info from the campus portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		proxy, _ := cmd.Flags().GetString("proxy")
		quiet, _ := cmd.Flags().GetBool("quiet")

		token := viper.GetString("campus.token")
		if token == "" {
			return fmt.Errorf("campus.token is not set. Copy the %s cookie of a logged-in browser session into ~/.creditscope.yaml", viper.GetString("campus.cookie"))
		}

		httpClient := whttp.NewClient(viper.GetInt("campus.retries"))
		if err := whttp.SetupProxy(httpClient, proxy); err != nil {
			return err
		}
		client := campus.NewClient(campus.Config{
			ModulesURL: viper.GetString("campus.modules_url"),
			StudyURL:   viper.GetString("campus.study_url"),
			Token:      token,
			CookieName: viper.GetString("campus.cookie"),
			PerPage:    viper.GetInt("campus.per_page"),
		}, campus.WithHTTPClient(httpClient), campus.WithLogger(utils.Log))

		data, err := fetchLocal(ctx, client)
		if err != nil {
			return err
		}

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		changes, err := a.backend.ReplaceLocal(ctx, data)
		if err != nil {
			return fmt.Errorf("saving sync result: %w", err)
		}
		if err := a.manager.LoadLocal(ctx); err != nil {
			return err
		}

		utils.Log.Infof("Synced %d modules (%s, major: %s, part-time: %t)", len(data.Modules), data.Program.Name(), majorName(data.Major), data.PartTime)
		if !quiet {
			printChanges(changes)
		}
		return nil
	},
}

// fetchLocal requests the module list and the study page concurrently.
func fetchLocal(ctx context.Context, src campus.Source) (settings.LocalData, error) {
	var (
		modules []module.Module
		info    campus.StudyInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modules, err = src.FetchModules(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = src.StudyInfo(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return settings.LocalData{}, err
	}

	return settings.LocalData{
		Modules:   modules,
		Program:   info.Program,
		Major:     info.Major,
		PartTime:  info.PartTime,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolP("quiet", "q", false, "Do not print the changes since the last sync")
}
