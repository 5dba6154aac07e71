package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
	"github.com/tacogips/dottmpl/internal/config"
	"github.com/tacogips/dottmpl/internal/debug"
)

// Global flags
var (
	globalConfigPath string
	globalSettings   string
	globalEngine     string
	globalNoColor    bool
	globalQuiet      bool
	globalDebug      bool
)

// globalConfig is the tool configuration loaded before each command runs.
var globalConfig = config.DefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dottmpl",
	Short: "Render templates at deployment lifecycle events",
	Long: `dottmpl renders template files into configuration files when a
deployment lifecycle event fires.

Jobs are read from the settings file (serverless.yml by default) under
custom.dotTemplate. Each job names a template (input), a destination
(output), the variables exposed to the template as "vars", and optionally
the event that triggers it (package:initialize by default).

Use "dottmpl run" to fire the default event, "dottmpl hooks" to list the
configured events and "dottmpl check" to validate every job without
writing anything.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupGlobals,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, FlagConfig, "c", "", DescConfig)
	rootCmd.PersistentFlags().StringVarP(&globalSettings, FlagSettings, "s", "", DescSettings)
	rootCmd.PersistentFlags().StringVarP(&globalEngine, FlagEngine, "e", "", engineUsage())
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupGlobals configures debug output and colors, then loads the tool
// configuration. An explicit --config must exist; the default path may not.
func setupGlobals(cmd *cobra.Command, args []string) error {
	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor)
	color.NoColor = color.NoColor || globalNoColor

	loader := config.NewLoader()
	var (
		cfg *config.Config
		err error
	)
	if globalConfigPath != "" {
		path, perr := config.ExpandPath(globalConfigPath)
		if perr != nil {
			return perr
		}
		cfg, err = loader.Load(path)
	} else {
		cfg, err = loader.LoadOrDefault(config.DefaultConfigPath())
	}
	if err != nil {
		return err
	}
	if err := loader.Validate(cfg); err != nil {
		return err
	}

	if !cfg.Output.Color {
		color.NoColor = true
	}
	if cfg.Output.Quiet {
		globalQuiet = true
	}
	globalConfig = cfg

	debug.Named("cli").Debug("resolved paths", "config", globalConfigPath, "settings", appOptions().SettingsFile)
	return nil
}

// appOptions builds the shared workflow options from flags and config.
func appOptions() app.Options {
	return app.Options{
		Config:       globalConfig,
		SettingsFile: globalSettings,
		Engine:       globalEngine,
		Log:          hostLog,
	}
}

// printError prints an error message to stderr
func printError(err error) {
	errorColor.Fprintf(stderr, "Error: ")
	writeln(stderr, err.Error())
}
