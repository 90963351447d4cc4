// Command chantalign syllabifies chant texts and aligns them with their
// volpiano melodies.
//
// Subcommands:
//
//	syllabify  print the hyphenated text
//	align      print the text/melody alignment as JSON
//	batch      align a CSV or JSONL file of chants
//	version    print build information
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DDMAL/CantusDB-sub000/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "chantalign",
		Short: "Align chant texts with volpiano melodies",
		Long: `chantalign splits Latin chant texts into syllables and pairs them with
the neume syllables of a volpiano melody, one slot per melody word.

Configuration is read from --config, CONFIG_PATH or ./config.yaml, with
environment variables taking precedence over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.RulesPath, "rules", "", "syllabifier rules file (YAML), overrides syllabifier.rules_path")

	cmd.AddCommand(
		syllabifyCmd(&opts),
		alignCmd(&opts),
		batchCmd(&opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
