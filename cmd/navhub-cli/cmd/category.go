package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Add, rename and reorder categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an empty category",
	Long: `Add an empty category. Its id is derived from the name.

An empty category in a custom source is dropped on the next save unless
a site is added to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewAddCategoryCommand(GetWorkspace(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category-id> <name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewRenameCategoryCommand(GetWorkspace(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var categoryMoveCmd = &cobra.Command{
	Use:   "move <category-id> <index>",
	Short: "Move a category to a position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var index int
		if _, err := fmt.Sscan(args[1], &index); err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}
		res, err := commands.NewMoveCategoryCommand(GetWorkspace(), args[0], index).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryRenameCmd, categoryMoveCmd)
	rootCmd.AddCommand(categoryCmd)
}
