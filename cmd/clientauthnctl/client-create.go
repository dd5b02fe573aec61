package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator/clientsecret"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
)

// clientCreateCmd represents the client create command
var clientCreateCmd = &cobra.Command{
	Use:   "create [client-id]",
	Short: "Register a confidential client in the database",
	Long: `Register a confidential client in the database.

A random secret is generated and printed to STDOUT. Only its bcrypt hash is
stored, encrypted with CLIENTAUTHN_DATA_KEY, so the secret cannot be
retrieved again later. A random client id is assigned when none is given.

Requires DATABASE_URL and CLIENTAUTHN_DATA_KEY.

Example:
  clientauthnctl client create my-app --name "My App"
  clientauthnctl client create --name "Batch Job"
  clientauthnctl client create my-app --method client_secret_post --expires-in 2160h`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		clientID := ""
		if len(args) > 0 {
			clientID = args[0]
		}
		name, _ := cmd.Flags().GetString("name")
		methodNames, _ := cmd.Flags().GetStringSlice("method")
		expiresIn, _ := cmd.Flags().GetDuration("expires-in")

		client, secret, err := createClient(cmd.Context(), clientID, name, methodNames, expiresIn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created client '%s'\n", client.ClientID)
		if client.ClientSecretExpiresAt != nil {
			fmt.Fprintf(os.Stderr, "Secret expires %s\n", humanize.Time(*client.ClientSecretExpiresAt))
		}
		fmt.Printf("Client ID: %s\n", client.ClientID)
		fmt.Printf("Client secret: %s\n", secret)
	},
}

func init() {
	clientCmd.AddCommand(clientCreateCmd)
	clientCreateCmd.Flags().StringP("name", "n", "", "Human readable client name")
	clientCreateCmd.Flags().StringSliceP("method", "m", []string{string(model.MethodClientSecretBasic)}, "Permitted authentication methods")
	clientCreateCmd.Flags().Duration("expires-in", 0, "Secret lifetime (0 never expires)")
}

// newClient builds a registered client with a freshly generated secret. It
// returns the client, holding the hashed secret, and the plain secret.
func newClient(clientID, name string, methodNames []string, expiresIn time.Duration, now time.Time) (*model.RegisteredClient, string, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	methods := make([]model.AuthenticationMethod, 0, len(methodNames))
	for _, methodName := range methodNames {
		m, err := model.ParseAuthenticationMethod(methodName)
		if err != nil {
			return nil, "", err
		}
		if m == model.MethodNone {
			return nil, "", fmt.Errorf("method %s is not valid for a confidential client", m)
		}
		methods = append(methods, m)
	}

	secret, err := clientsecret.GenerateSecret()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate secret: %w", err)
	}
	hashed, err := clientsecret.HashSecret(secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash secret: %w", err)
	}

	client := &model.RegisteredClient{
		ClientID:              clientID,
		ClientSecret:          hashed,
		ClientName:            name,
		AuthenticationMethods: methods,
		ClientIDIssuedAt:      now.UTC(),
	}
	if expiresIn > 0 {
		expiresAt := now.Add(expiresIn).UTC()
		client.ClientSecretExpiresAt = &expiresAt
	}
	return client, secret, nil
}

func createClient(ctx context.Context, clientID, name string, methodNames []string, expiresIn time.Duration) (*model.RegisteredClient, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	client, secret, err := newClient(clientID, name, methodNames, expiresIn, time.Now())
	if err != nil {
		return nil, "", err
	}

	directory, err := openDatabaseDirectory()
	if err != nil {
		return nil, "", err
	}
	if err := directory.Save(ctx, client); err != nil {
		return nil, "", err
	}
	return client, secret, nil
}
