package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Add a template job to the settings file",
	Long: `Add a template job to the settings file, creating the file if needed.
Existing settings are kept; the new job is appended after any configured
ones.

Without --yes the job is collected interactively, with flag values offered
as defaults.

Examples:
  dottmpl init
  dottmpl init --yes -i templates/config.dot -o config.json --var stage=dev
  dottmpl init --settings serverless.json --event before:deploy:deploy`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

// Init command flags
var (
	initYes    bool
	initName   string
	initEvent  string
	initInput  string
	initOutput string
	initVars   []string
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, FlagYes, "y", false, DescYes)
	initCmd.Flags().StringVarP(&initName, FlagName, "n", "", DescName)
	initCmd.Flags().StringVar(&initEvent, FlagEvent, "", DescEvent)
	initCmd.Flags().StringVarP(&initInput, FlagInput, "i", "", DescInput)
	initCmd.Flags().StringVarP(&initOutput, FlagOutput, "o", "", DescOutput)
	initCmd.Flags().StringArrayVar(&initVars, FlagVar, nil, DescVar)
}

func runInit(cmd *cobra.Command, args []string) error {
	answers := JobAnswers{
		Name:   initName,
		Event:  initEvent,
		Input:  initInput,
		Output: initOutput,
		Vars:   strings.Join(initVars, "\n"),
	}

	if !initYes {
		var err error
		answers, err = PromptForJob(answers)
		if err != nil {
			return err
		}
	}
	if answers.Event != "" {
		if err := ValidateEventName(answers.Event); err != nil {
			return err
		}
	}

	job, err := jobFromAnswers(answers, globalConfig.Templates.DefaultEvent)
	if err != nil {
		return app.NewValidationError("invalid variables", err)
	}

	opts := appOptions()
	settingsFile := opts.SettingsFile
	if settingsFile == "" {
		settingsFile = globalConfig.Settings.File
	}

	result, err := app.Init(cmd.Context(), app.InitOptions{
		SettingsFile: settingsFile,
		Key:          globalConfig.Settings.Key,
		Job:          job,
	})
	if err != nil {
		printErrorMsg(fmt.Sprintf("Initialization failed: %v", err))
		return err
	}

	if result.Created {
		printSuccess(fmt.Sprintf("Created: %s", result.SettingsFile))
	} else {
		printSuccess(fmt.Sprintf("Updated: %s", result.SettingsFile))
	}
	printInfo(fmt.Sprintf("%s now has %d template job(s)", globalConfig.Settings.Key, result.JobCount))
	printInfo("")
	printInfo("Next steps:")
	printInfo("  1. Run: dottmpl check")
	event := job.Event
	if event == "" {
		event = globalConfig.Templates.DefaultEvent
	}
	printInfo(fmt.Sprintf("  2. Run: dottmpl run %s", event))

	return nil
}
