package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/audit"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/authenticator/clientsecret"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/model"
	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/store"
)

// clientVerifyCmd represents the client verify command
var clientVerifyCmd = &cobra.Command{
	Use:   "verify <client-id>",
	Short: "Verify a client's credentials",
	Long: `Verify a client's credentials against the configured client directory.

The secret is read from --secret or, when the flag is absent, from the first
line of STDIN. On success the authenticated client is printed as JSON. On
failure the OAuth2 error response is printed and the command exits with
status 1.

Example:
  clientauthnctl client verify my-app --secret "$SECRET"
  echo "$SECRET" | clientauthnctl client verify my-app --method client_secret_post`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		secret, _ := cmd.Flags().GetString("secret")
		if !cmd.Flags().Changed("secret") {
			var err error
			if secret, err = readSecret(cmd.InOrStdin()); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to read secret: %v\n", err)
				os.Exit(1)
			}
		}
		methodName, _ := cmd.Flags().GetString("method")
		clientIP, _ := cmd.Flags().GetString("client-ip")

		method, err := model.ParseAuthenticationMethod(methodName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to verify client: %v\n", err)
			os.Exit(1)
		}

		req := authenticator.Request{
			Method:       method,
			ClientID:     args[0],
			ClientSecret: secret,
			ClientIP:     clientIP,
		}

		ok, err := runVerify(cmd.Context(), req, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to verify client: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	clientCmd.AddCommand(clientVerifyCmd)
	clientVerifyCmd.Flags().StringP("secret", "s", "", "Client secret (read from STDIN when omitted)")
	clientVerifyCmd.Flags().StringP("method", "m", string(model.MethodClientSecretBasic), "Client authentication method")
	clientVerifyCmd.Flags().String("client-ip", "", "Client IP address recorded in the audit event")
}

func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runVerify(ctx context.Context, req authenticator.Request, out io.Writer) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return false, err
	}
	methods, err := cfg.Methods()
	if err != nil {
		return false, err
	}

	directory, err := openDirectory(cfg)
	if err != nil {
		return false, err
	}

	audit.SetEnabled(cfg.IsAuditEnabled())
	auditStore, err := audit.NewStore()
	if err != nil {
		return false, fmt.Errorf("failed to open audit store: %w", err)
	}
	if auditStore != nil {
		defer func() { _ = auditStore.Close() }()
	}

	registry, err := newRegistry(directory, methods, audit.NewSink(nil, auditStore))
	if err != nil {
		return false, err
	}
	return verifyClient(ctx, registry, req, out)
}

// newRegistry wires the client secret authenticator over directory.
func newRegistry(directory store.ClientDirectory, methods []model.AuthenticationMethod, sink authenticator.EventSink) (*authenticator.Registry, error) {
	auth, err := clientsecret.New(directory, clientsecret.WithMethods(methods...))
	if err != nil {
		return nil, err
	}

	registry := authenticator.NewRegistry()
	registry.Register(auth)
	if err := registry.Enable(auth.Name()); err != nil {
		return nil, err
	}
	if sink != nil {
		registry.SetSink(sink)
	}
	return registry, nil
}

type verifiedClient struct {
	ClientID              string   `json:"client_id"`
	ClientName            string   `json:"client_name,omitempty"`
	AuthenticationMethods []string `json:"authentication_methods"`
	ClientSecretExpiresAt int64    `json:"client_secret_expires_at"`
}

// verifyClient authenticates req and writes the outcome to out as JSON.
func verifyClient(ctx context.Context, registry *authenticator.Registry, req authenticator.Request, out io.Writer) (bool, error) {
	res, err := registry.Authenticate(ctx, req)
	if err != nil {
		return false, err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if !res.IsAuthenticated() {
		return false, encoder.Encode(res.Err())
	}

	client := res.Client()
	methods := client.AuthenticationMethods
	if len(methods) == 0 {
		methods = []model.AuthenticationMethod{model.MethodClientSecretBasic}
	}
	verified := verifiedClient{
		ClientID:              res.Principal(),
		ClientName:            client.ClientName,
		AuthenticationMethods: make([]string, 0, len(methods)),
	}
	for _, m := range methods {
		verified.AuthenticationMethods = append(verified.AuthenticationMethods, m.String())
	}
	if client.ClientSecretExpiresAt != nil {
		verified.ClientSecretExpiresAt = client.ClientSecretExpiresAt.Unix()
	}
	return true, encoder.Encode(verified)
}
