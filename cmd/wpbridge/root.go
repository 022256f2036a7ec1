// ABOUTME: Root Cobra command and global flags for the wpbridge CLI.
// ABOUTME: Builds the zerolog logger handed down to every command.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/draftsmith/wpbridge/internal/config"
	"github.com/draftsmith/wpbridge/internal/models"
)

var (
	logLevel  string
	verbosity int

	globalLog zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wpbridge",
	Short: "Publish a local markdown document to a remote site",
	Long: `wpbridge binds one local markdown document to one remote post and keeps
them in sync: first publish creates a draft to obtain a durable post id,
subsequent publishes update the same post and upload only the images the
remote media library is missing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		for i := 0; i < verbosity && level > zerolog.TraceLevel; i++ {
			level--
		}
		globalLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase the verbosity of the output")
}

// resolveProject builds the effective configuration for a command: user-level
// credentials, then the project document, then flag overrides. Explicit
// values always win; empty overrides never clear stored values.
func resolveProject(dir string, overrides config.Project) (*config.Project, error) {
	userCreds, err := config.LoadUserCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to load user credentials: %w", err)
	}
	cfg := config.Project{Credentials: userCreds}

	if config.Initialized(dir) {
		proj, err := config.LoadProject(dir)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(*proj)
	}

	cfg = cfg.Merge(overrides)
	return &cfg, nil
}

// credentialOverrides collects the credential flags shared by publish and
// authenticate.
func credentialOverrides(clientKey, clientSecret, ownerKey, ownerSecret string) models.Credentials {
	return models.Credentials{
		ClientKey:           clientKey,
		ClientSecret:        clientSecret,
		ResourceOwnerKey:    ownerKey,
		ResourceOwnerSecret: ownerSecret,
	}
}
