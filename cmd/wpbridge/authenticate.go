// ABOUTME: Cobra command for the OAuth1 three-legged handshake.
// ABOUTME: Discovers endpoints, runs the handshake, prints or saves credentials.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftsmith/wpbridge/internal/auth"
	"github.com/draftsmith/wpbridge/internal/config"
	"github.com/draftsmith/wpbridge/internal/wordpress"
)

var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Obtain resource owner credentials from the site",
	Long: `Run the three-legged OAuth1 handshake: fetch the site's advertised
endpoints, obtain a temporary token, wait for the verification token issued
after you authorize in a browser, and exchange it for long-lived credentials.`,
	RunE: runAuthenticate,
}

var (
	authBaseURL      string
	authClientKey    string
	authClientSecret string
	authSave         bool
)

func init() {
	rootCmd.AddCommand(authenticateCmd)

	authenticateCmd.Flags().StringVar(&authBaseURL, "base-url", "", "The URL to make API calls against")
	authenticateCmd.Flags().StringVar(&authClientKey, "client-key", "", "The client key")
	authenticateCmd.Flags().StringVar(&authClientSecret, "client-secret", "", "The client secret")
	authenticateCmd.Flags().BoolVar(&authSave, "save", false, "Save the credentials to the user-level credentials file")
}

func runAuthenticate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveProject(".", config.Project{
		BaseURL:     authBaseURL,
		Credentials: credentialOverrides(authClientKey, authClientSecret, "", ""),
	})
	if err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if !cfg.Credentials.HasClientPair() {
		return fmt.Errorf("client key and client secret are required")
	}

	endpoints, err := wordpress.Discover(cmd.Context(), cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("endpoint discovery failed: %w", err)
	}

	prompter := &auth.ConsolePrompter{In: os.Stdin, Out: os.Stdout}
	authenticator := auth.New(cfg.ClientKey, cfg.ClientSecret, *endpoints, prompter, globalLog)

	creds, err := authenticator.Authenticate(cmd.Context())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Printf("%-25s%s\n", "Client key", creds.ClientKey)
	fmt.Printf("%-25s%s\n", "Client secret", creds.ClientSecret)
	fmt.Printf("%-25s%s\n", "Resource owner key", creds.ResourceOwnerKey)
	fmt.Printf("%-25s%s\n", "Resource owner secret", creds.ResourceOwnerSecret)

	if authSave {
		if err := config.SaveUserCredentials(*creds); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		path, _ := config.UserCredentialsPath()
		fmt.Printf("Credentials saved to %s\n", path)
	}
	return nil
}
