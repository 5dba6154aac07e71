package cli

import (
	"github.com/spf13/cobra"

	"github.com/tacogips/dottmpl/internal/app"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a single template outside the settings file",
	Long: `Render one template with variables given on the command line. The job
is validated, logged and rendered exactly like a configured one.

Values given with --var are parsed as YAML scalars, so numbers and booleans
keep their type. Dotted keys build nested variables and override values
from --vars-file.

Examples:
  dottmpl render -i templates/config.dot -o config.json --var stage=dev
  dottmpl render -i env.dot -o .env --vars-file vars.yml --var db.port=5432`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

// Render command flags
var (
	renderInput    string
	renderOutput   string
	renderName     string
	renderVars     []string
	renderVarsFile string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, FlagInput, "i", "", DescInput)
	renderCmd.Flags().StringVarP(&renderOutput, FlagOutput, "o", "", DescOutput)
	renderCmd.Flags().StringVarP(&renderName, FlagName, "n", "", DescName)
	renderCmd.Flags().StringArrayVar(&renderVars, FlagVar, nil, DescVar)
	renderCmd.Flags().StringVar(&renderVarsFile, FlagVarsFile, "", DescVarsFile)
}

func runRender(cmd *cobra.Command, args []string) error {
	return app.Render(cmd.Context(), app.RenderOptions{
		Options:  appOptions(),
		Name:     renderName,
		Input:    renderInput,
		Output:   renderOutput,
		VarsFile: renderVarsFile,
		Vars:     renderVars,
	})
}
