package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// clientDeleteCmd represents the client delete command
var clientDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Remove a client from the database",
	Long: `Remove a client from the database.

Requires DATABASE_URL and CLIENTAUTHN_DATA_KEY.

Example:
  clientauthnctl client delete my-app`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteClient(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete client: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Deleted client '%s'\n", args[0])
	},
}

func init() {
	clientCmd.AddCommand(clientDeleteCmd)
}

func deleteClient(ctx context.Context, clientID string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	directory, err := openDatabaseDirectory()
	if err != nil {
		return err
	}
	return directory.Delete(ctx, clientID)
}
