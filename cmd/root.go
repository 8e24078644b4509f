package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/campus"
	"github.com/creditscope/creditscope/pkg/planning"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// CREDITSCOPE_CAMPUS_TOKEN overrides campus.token.
var envKeyReplacer = strings.NewReplacer(".", "_")

const (
	LOGO = `                    _ _ _
   ___ _ __ ___  __| (_) |_ ___  ___ ___  _ __   ___
  / __| '__/ _ \/ _' | | __/ __|/ __/ _ \| '_ \ / _ \
 | (__| | |  __/ (_| | | |_\__ \ (_| (_) | |_) |  __/
  \___|_|  \___|\__,_|_|\__|___/\___\___/| .__/ \___|
                                         |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "creditscope",
	Short: "Track your bachelor credits against your program's requirements.",
	Long: LOGO + `creditscope fetches your enrolled modules from the campus portal, lets you
correct and extend them, and shows how far you are from graduating.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.Log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.creditscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/creditscope/creditscope.sqlite)")
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("dbpath"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".creditscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("creditscope")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.creditscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		} else {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

func setDefaults() {
	durations := planning.DefaultDurations()

	viper.SetDefault("campus.modules_url", campus.DefaultModulesURL)
	viper.SetDefault("campus.study_url", campus.DefaultStudyURL)
	viper.SetDefault("campus.cookie", campus.DefaultCookieName)
	viper.SetDefault("campus.token", "")
	viper.SetDefault("campus.per_page", 0)
	viper.SetDefault("campus.retries", 3)
	viper.SetDefault("storage.backend", "sqlite")
	viper.SetDefault("storage.path", "")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "creditscope:")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("planning.fulltime_semesters", durations.FullTime)
	viper.SetDefault("planning.parttime_semesters", durations.PartTime)
}
