package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [event...]",
	Short: "Fire lifecycle events and render their templates",
	Long: `Fire one or more lifecycle events. Every job bound to an event renders
its template and writes the output, in configuration order. The first
failing job stops the run.

Without arguments the default event (package:initialize) is fired.

Examples:
  dottmpl run
  dottmpl run before:deploy:deploy
  dottmpl run --all
  dottmpl run --settings deploy/serverless.yml --engine gotemplate`,
	RunE: runRun,
}

// Run command flags
var runAll bool

func init() {
	runCmd.Flags().BoolVarP(&runAll, FlagAll, "a", false, DescAll)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with event names")
	}
	for _, event := range args {
		if err := ValidateEventName(event); err != nil {
			return err
		}
	}

	result, err := app.Run(cmd.Context(), app.RunOptions{
		Options: appOptions(),
		Events:  args,
		All:     runAll,
	})
	if result != nil {
		for _, event := range result.Skipped {
			printWarning(fmt.Sprintf("No templates configured for %s", event))
		}
	}
	if err != nil {
		return err
	}

	for _, event := range result.Fired {
		printVerbose(fmt.Sprintf("Fired %s", event))
	}
	if len(result.Fired) > 0 {
		printSuccess(fmt.Sprintf("Rendered templates for %d event(s)", len(result.Fired)))
	}
	return nil
}
