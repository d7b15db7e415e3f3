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
	Use:   "saphyrc",
	Short: "saphyr compiler front end",
	Long: `saphyrc drives the saphyr compiler front end: type checking, name
mangling, overload resolution, and instruction-stream generation for a
small C-family language.

Lexing and parsing are an external collaborator's job (see
internal/frontend.Parser); this binary exercises the front end against
one of the bundled example programs (see "saphyrc compile") until a real
Parser implementation is wired in.`,
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
