package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"navhub/internal/application/commands"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize personal data with a private GitHub repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewStatusCommand(GetSync()).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		if !res.State.LastSyncTime.IsZero() {
			fmt.Printf("last sync: %s\n", res.State.LastSyncTime.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var syncLoginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Connect with a GitHub personal access token",
	Long: `Connect with a GitHub personal access token (repo scope). The private
repository is created on first use and the remote data is pulled.

The token is read from the argument, or from NAVHUB_TOKEN when omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := os.Getenv("NAVHUB_TOKEN")
		if len(args) == 1 {
			token = args[0]
		}
		res, err := commands.NewBindCommand(GetWorkspace(), GetSync(), strings.TrimSpace(token)).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Apply the remote data locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewPullCommand(GetWorkspace(), GetSync()).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write local data to the remote now",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewPushCommand(GetSync()).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

var syncLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := commands.NewLogoutCommand(GetSync()).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLoginCmd, syncPullCmd, syncPushCmd, syncLogoutCmd)
	rootCmd.AddCommand(syncCmd)
}
