package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := GetWorkspace()
		if len(args) == 0 {
			theme, _ := ws.Preferences()
			fmt.Println(theme)
			return nil
		}
		msg, err := commands.NewSetThemeCommand(ws, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var proxyCmd = &cobra.Command{
	Use:       "proxy [show|hide]",
	Short:     "Show or set whether sites that need a proxy are displayed",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"show", "hide"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws := GetWorkspace()
		if len(args) == 0 {
			_, show := ws.Preferences()
			if show {
				fmt.Println("show")
			} else {
				fmt.Println("hide")
			}
			return nil
		}
		if args[0] != "show" && args[0] != "hide" {
			return fmt.Errorf("expected show or hide, got: %s", args[0])
		}
		msg, err := commands.NewSetProxyDisplayCommand(ws, args[0] == "show").Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(proxyCmd)
}
