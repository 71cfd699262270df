package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base for every soundlog subcommand.
var rootCmd = &cobra.Command{
	Use:   "soundlog",
	Short: "soundlog inspects and replays VGM register-log files",
	Long:  "soundlog parses, replays, and re-serializes VGM (Video Game Music) register-log files.",
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(redumpCmd)
}

// Execute runs soundlog according to the user's command/subcommand/flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
