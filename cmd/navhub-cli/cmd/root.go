package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
	"navhub/internal/bootstrap"
	"navhub/internal/config"
	"navhub/internal/domain"
)

var (
	configPath string
	verbosity  int
	offline    bool
	ephemeral  bool
	rt         *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "navhub-cli",
	Short: "CLI for the navhub bookmark dashboard",
	Long: `navhub-cli manages the navhub bookmark dashboard from the command line.

It lists and switches data sources, edits sites and categories, imports
browser bookmark exports and synchronizes personal data with a private
GitHub repository.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		ctx := context.Background()
		var err error
		rt, err = bootstrap.Open(ctx, bootstrap.Options{
			ConfigPath: configPath,
			Verbosity:  verbosity,
			Console:    true,
			Ephemeral:  ephemeral,
		})
		if err != nil {
			return err
		}
		if !offline {
			rt.Resume(ctx)
		}
		return nil
	},
}

// Execute runs the root command, then pushes pending changes and closes the state database
func Execute() {
	err := rootCmd.Execute()
	if rt != nil {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "do not contact the sync remote")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep state in memory only")
}

// GetWorkspace returns the initialized workspace
func GetWorkspace() *workspace.Workspace {
	return rt.Workspace
}

// GetSync returns the initialized sync orchestrator
func GetSync() *syncer.Orchestrator {
	return rt.Sync
}

// GetEngines returns the web search engine list
func GetEngines() domain.EngineCatalog {
	return rt.Engines
}
