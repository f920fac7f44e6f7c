package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List data sources",
	Long: `List the built-in catalogs followed by custom sources.

The active source is marked with *.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := commands.NewListSourcesCommand(GetWorkspace()).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, s := range sources {
			marker := " "
			if s.Active {
				marker = "*"
			}
			if s.Builtin {
				fmt.Printf("%s %-28s %s\n", marker, s.Key, s.Name)
			} else {
				fmt.Printf("%s %-28s %d sites\n", marker, s.Name, s.Sites)
			}
		}
		return nil
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <source>",
	Short: "Make a source the active one",
	Long: `Switch to a built-in catalog (by path) or a custom source (by name).

An unknown source falls back to the default catalog.

Examples:
  navhub-cli switch data/02-tools.json
  navhub-cli switch Work`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		res, err := commands.NewSwitchSourceCommand(GetWorkspace(), args[0], !noCache).Execute(context.Background())
		if err != nil {
			return err
		}
		if res.FallbackFrom != "" {
			fmt.Printf("Source %s not found, switched to %s\n", res.FallbackFrom, res.Source.Name)
			return nil
		}
		fmt.Printf("Switched to %s\n", res.Source.Name)
		return nil
	},
}

var deleteSourceCmd = &cobra.Command{
	Use:   "delete-source <name>",
	Short: "Delete a custom source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewDeleteSourceCommand(GetWorkspace(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

func init() {
	switchCmd.Flags().Bool("no-cache", false, "always fetch the catalog")
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(deleteSourceCmd)
}
