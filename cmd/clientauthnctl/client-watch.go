package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/config"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store/file"
)

// clientWatchCmd represents the client watch command
var clientWatchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Watch the clients file and reload it when modified",
	Long: `Watch the clients file and reload it when it changes.

Each reload is validated before it replaces the loaded clients, so a broken
edit leaves the previous clients in place. The file defaults to the
configured clients_file.

Example:
  clientauthnctl client watch
  clientauthnctl client watch /etc/clientauthn/clients.yml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := ""
		if len(args) > 0 {
			filename = args[0]
		}

		if err := watchClients(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch clients: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	clientCmd.AddCommand(clientWatchCmd)
}

func watchClients(filename string) error {
	if filename == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		filename = cfg.ClientsFile
	}

	directory, err := file.Open(filename)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d client(s) from %s", directory.Len(), directory.Path())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Watching %s for changes", directory.Path())
	err = directory.Watch(ctx, func(err error) {
		if err != nil {
			log.Printf("Error reloading clients: %v", err)
			return
		}
		log.Printf("Reloaded %d client(s) from %s", directory.Len(), directory.Path())
	})
	log.Println("Shutting down...")
	return err
}
