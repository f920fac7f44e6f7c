package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Add, edit, move and delete sites",
}

var siteAddCmd = &cobra.Command{
	Use:   "add <title> <url>",
	Short: "Add a site",
	Long: `Add a site at the head of a category. Without --category the site
goes to My Links.

Examples:
  navhub-cli site add "Go Docs" https://go.dev/doc
  navhub-cli site add Tube https://tube.example --category video --proxy`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		site := siteFromFlags(cmd, domain.Site{Title: args[0], URL: args[1]})

		res, err := commands.NewAddSiteCommand(GetWorkspace(), category, site).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", res.Message, res.Site.ID)
		return nil
	},
}

var siteEditCmd = &cobra.Command{
	Use:   "edit <site-id>",
	Short: "Edit a site; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := GetWorkspace()
		current, _, ok := ws.Document().FindSite(args[0])
		if !ok {
			return fmt.Errorf("site %q: %w", args[0], domain.ErrUnknownSite)
		}
		if cmd.Flags().Changed("title") {
			current.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("url") {
			old := current.URL
			current.URL, _ = cmd.Flags().GetString("url")
			// a derived icon follows the new host
			if current.Icon == workspace.DefaultIcon(old) {
				current.Icon = ""
			}
		}
		site := siteFromFlags(cmd, current)

		res, err := commands.NewEditSiteCommand(ws, site).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var siteMoveCmd = &cobra.Command{
	Use:   "move <site-id> <category-id>",
	Short: "Move a site to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		res, err := commands.NewMoveSiteCommand(GetWorkspace(), args[0], args[1], index).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var siteDeleteCmd = &cobra.Command{
	Use:   "delete <site-id>",
	Short: "Delete a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewDeleteSiteCommand(GetWorkspace(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

// siteFromFlags overlays the optional site flags that were set onto s
func siteFromFlags(cmd *cobra.Command, s domain.Site) domain.Site {
	flags := cmd.Flags()
	if flags.Changed("desc") {
		s.Description, _ = flags.GetString("desc")
	}
	if flags.Changed("icon") {
		s.Icon, _ = flags.GetString("icon")
	}
	if flags.Changed("proxy") {
		s.RequiresProxy, _ = flags.GetBool("proxy")
	}
	return s
}

func init() {
	for _, c := range []*cobra.Command{siteAddCmd, siteEditCmd} {
		c.Flags().String("desc", "", "short description")
		c.Flags().String("icon", "", "icon URL (default: the site's /favicon.ico)")
		c.Flags().Bool("proxy", false, "site needs a proxy to load")
	}
	siteAddCmd.Flags().String("category", domain.PersonalCategoryID, "category id")
	siteEditCmd.Flags().String("title", "", "new title")
	siteEditCmd.Flags().String("url", "", "new URL")
	siteMoveCmd.Flags().Int("index", -1, "position in the target category (-1 appends)")

	siteCmd.AddCommand(siteAddCmd, siteEditCmd, siteMoveCmd, siteDeleteCmd)
	rootCmd.AddCommand(siteCmd)
}
