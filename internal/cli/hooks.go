package cli

import (
	"fmt"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
)

// hooksCmd represents the hooks command
var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List configured events and their template jobs",
	Long: `List every lifecycle event that has template jobs, in the order the
events first appear in the settings file, with the jobs each one runs.

Jobs missing a required field are shown with the error they will raise.`,
	Args: cobra.NoArgs,
	RunE: runHooks,
}

func runHooks(cmd *cobra.Command, args []string) error {
	summaries, err := app.List(cmd.Context(), appOptions())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		printInfo(fmt.Sprintf("No templates configured under %s", globalConfig.Settings.Key))
		return nil
	}

	writeln(stdout, formatHooks(summaries))
	return nil
}

// formatHooks renders the event summaries as a table.
func formatHooks(summaries []app.EventSummary) string {
	rows := []string{"Event|#|Label|Input|Output|Vars|Status"}
	for _, s := range summaries {
		for i, j := range s.Jobs {
			status := "ok"
			if j.Problem != "" {
				status = j.Problem
			}
			rows = append(rows, strings.Join([]string{
				s.Event,
				fmt.Sprint(i + 1),
				j.Label,
				orDash(j.Input),
				orDash(j.Output),
				fmt.Sprint(j.VarCount),
				status,
			}, "|"))
		}
	}
	return columnize.SimpleFormat(rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
