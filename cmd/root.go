package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// releaseVersion is set by main from ldflags
var releaseVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Music theory and jam timing API",
	Long: `maestro resolves scales, chords and tempo grids for jam sessions.

Run "maestro serve" for the HTTP API, or use the scale, export and metronome
commands directly from the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version string) {
	releaseVersion = version
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
