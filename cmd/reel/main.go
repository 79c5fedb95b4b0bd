package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		openPath   string
	)

	cmd := &cobra.Command{
		Use:   "reel",
		Short: "Terminal client for a video hosting API",
		Long: `reel browses, plays and uploads videos on a video hosting backend.

Run without arguments to open the interactive browser. The subcommands
perform the same operations non-interactively.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, configPath, openPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (YAML)")
	cmd.Flags().StringVar(&openPath, "open", "/", "screen to open on start, e.g. /videos/12")

	cmd.AddCommand(
		versionCmd(),
		setupCmd(&configPath),
		loginCmd(&configPath),
		logoutCmd(&configPath),
		whoamiCmd(&configPath),
		categoriesCmd(&configPath),
		videosCmd(&configPath),
		featuredCmd(&configPath),
		videoCmd(&configPath),
		playCmd(&configPath),
		uploadCmd(&configPath),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reel %s\n", Version)
		},
	}
}
