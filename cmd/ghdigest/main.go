// Package main provides the ghdigest CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/ghdigest/internal/config"
	"github.com/joss/ghdigest/internal/logging"
)

var version = "0.1.0"

func main() {
	// Same override semantics as the rest of the tooling: .env values
	// win over inherited environment.
	godotenv.Overload()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := newDigestFlags()

	cmd := &cobra.Command{
		Use:   "ghdigest",
		Short: "Digest of a user's public GitHub activity",
		Long: `ghdigest fetches a user's recent public GitHub activity and prints a
compact digest grouped by repository and topic (issue or pull
request), annotated with the kinds of interaction performed.

The digest goes to stdout; everything else goes to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logging.SetVerbose(verbose)

			useColor, _ := cmd.Flags().GetBool("color")
			if !useColor || config.LoadEnv().NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, flags, os.Stdout)
		},
	}

	flags.register(cmd)
	cmd.PersistentFlags().Bool("verbose", false, "Structured diagnostics on stderr")
	cmd.PersistentFlags().Bool("color", true, "Colored output when stdout is a terminal")

	cmd.AddCommand(authCmd())
	cmd.AddCommand(cacheCmd())
	cmd.AddCommand(browseCmd(flags))
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show ghdigest version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ghdigest version %s\n", version)
		},
	}
}
