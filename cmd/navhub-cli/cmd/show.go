package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var showCmd = &cobra.Command{
	Use:   "show [category-id]",
	Short: "Show the categories and sites of the active source",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := commands.NewShowCommand(GetWorkspace()).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, c := range doc.Categories {
			if len(args) == 1 && c.ID != args[0] {
				continue
			}
			fmt.Printf("%s [%s]\n", c.Name, c.ID)
			for _, s := range c.Sites {
				proxy := ""
				if s.RequiresProxy {
					proxy = " (proxy)"
				}
				fmt.Printf("  %s  %s  %s%s\n", s.ID, s.Title, s.URL, proxy)
			}
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search sites in the active source",
	Long: `Search site titles, URLs and descriptions in the active source.

Results are ranked by relevance using fuzzy matching.

Examples:
  navhub-cli search tube
  navhub-cli search "design system"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		results, err := commands.NewSearchCommand(GetWorkspace(), query).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("[%s] %s %s %s\n", r.CategoryName, r.Site.ID, r.Site.Title, r.Site.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
}
