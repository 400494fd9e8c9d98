package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jscpipeline",
	Short: "Runs the JavaScript-superset compile-pass pipeline",
	Long: `jscpipeline drives the fold/lower/symassign/scopedepth/proppoint/
optimistic/splitter pass pipeline over a FunctionNode tree.

This tool has no parser of its own: the pipeline's input is always an
already-parsed FunctionNode, exactly like the library it wraps. The run
command builds a small demo tree so the full pipeline can be exercised
end to end without a front end.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
