package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// clientCmd represents the client command
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage registered clients",
	Long:  `Create, delete, verify and watch registered OAuth2 clients.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'client' requires a subcommand (create, delete, verify, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
}
