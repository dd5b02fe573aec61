package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/oauth2-client-authn/pkg/datakey"
)

// dataKeyGenerateCmd represents the data-key generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `
Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit data encryption key.
It is used to encrypt client secrets stored in the database.

Example:

$ export CLIENTAUTHN_DATA_KEY="$(clientauthnctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := datakey.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate data key: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(key))
	},
}

func init() {
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
