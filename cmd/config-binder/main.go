// Package main provides the CLI entrypoint for config-binder.
//
// config-binder reads binding declarations from Go packages and, for every
// configured component:
//   - discovers the consumption sites reachable from the component
//   - merges sites sharing a binding key and validates them
//   - resolves a string-to-type conversion per requested type
//   - generates a provider module, or exports the resolved plan
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "config-binder",
	Short: "Generate typed configuration providers from Go declarations",
	Long: `config-binder resolves environment variables, system properties, parameter
store entries and command-line arguments declared on Go components into a
validated binding plan, and generates the Go code that reads them.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.PersistentFlags().String("config", "", "config file (default: config-binder.{yaml,yml,toml} in the working directory)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log pipeline stages")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().StringArrayP("define", "D", nil, "system property key=value (repeatable)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
