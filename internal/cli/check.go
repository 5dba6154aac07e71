package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every template job without writing files",
	Long: `Validate every configured job and render its template in memory.
Nothing is written. Unlike run, check reports every failing job instead of
stopping at the first one, and exits with status 1 if any job fails.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	result, err := app.Check(cmd.Context(), appOptions())
	if err != nil {
		return err
	}

	printHeader("Check Results")
	printInfo(fmt.Sprintf("Engine: %s", result.Engine))
	printInfo(fmt.Sprintf("Jobs checked: %d", result.JobsChecked))
	for _, w := range result.Warnings {
		printWarning(w.String())
	}

	if len(result.Problems) == 0 {
		printSuccess("All templates are valid")
		return nil
	}

	for _, p := range result.Problems {
		printErrorMsg(p.Error())
	}
	return app.NewValidationError(fmt.Sprintf("%d of %d job(s) failed", len(result.Problems), result.JobsChecked), result.Err())
}
