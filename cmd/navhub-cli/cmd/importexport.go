package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bookmarks as a new custom source",
	Long: `Import a browser bookmark export (Netscape HTML) or a navhub JSON
document as a new custom source and switch to it. Use - to read stdin.

Examples:
  navhub-cli import bookmarks.html --name Work
  cat nav.json | navhub-cli import - --name Shared`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		res, err := commands.NewImportCommand(GetWorkspace(), name, data).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the active source as JSON",
	Long: `Export the active source as a navhub JSON document. Without a file
argument a dated file name is used; - writes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewExportCommand(GetWorkspace()).Execute(context.Background())
		if err != nil {
			return err
		}

		path := res.Filename
		if len(args) == 1 {
			path = args[0]
		}
		if path == "-" {
			_, err := os.Stdout.Write(res.Data)
			return err
		}
		if err := os.WriteFile(path, res.Data, 0644); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("name", "n", "", "source name (default: file name)")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
