package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"navhub/internal/adapters/browser"
	"navhub/internal/application/commands"
	"navhub/internal/ports"
)

var (
	webGroup   string
	webEngines []string
	webPrint   bool
	webList    bool
)

var webSearchCmd = &cobra.Command{
	Use:   "websearch [query]",
	Short: "Search the web with one or more engines",
	Long: `Open a web search for the query in each selected engine.

Engines are organized in groups. Without --engine the first engine of the
group is used; without a query the engine's homepage is opened.

Examples:
  navhub-cli websearch golang generics
  navhub-cli websearch -g code -e GitHub -e pkg.go.dev "cobra flags"
  navhub-cli websearch --list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := GetEngines()

		if webList {
			for _, g := range catalog.Categories {
				fmt.Printf("%s [%s]\n", g.Label, g.Value)
				for _, e := range catalog.GroupEngines(g.Value) {
					proxy := ""
					if e.RequiresProxy {
						proxy = " (proxy)"
					}
					fmt.Printf("  %s  %s%s\n", e.Name, e.URL, proxy)
				}
			}
			return nil
		}

		var opener ports.URLOpener
		if !webPrint {
			opener = browser.NewOpener()
		}
		res, err := commands.NewWebSearchCommand(catalog, opener, strings.Join(args, " "), webGroup, webEngines...).Execute(context.Background())
		if res != nil {
			for _, u := range res.URLs {
				fmt.Println(u)
			}
		}
		return err
	},
}

func init() {
	webSearchCmd.Flags().StringVarP(&webGroup, "group", "g", "", "engine group (default: first group)")
	webSearchCmd.Flags().StringSliceVarP(&webEngines, "engine", "e", nil, "engine name, repeatable (default: first engine of the group)")
	webSearchCmd.Flags().BoolVar(&webPrint, "print", false, "print the URLs without opening them")
	webSearchCmd.Flags().BoolVar(&webList, "list", false, "list engine groups and engines")
	rootCmd.AddCommand(webSearchCmd)
}
