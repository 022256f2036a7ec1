// ABOUTME: Cobra command for publishing the bound document to its remote post.
// ABOUTME: Merges config layers, wires the client and orchestrator, reports status.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftsmith/wpbridge/internal/config"
	"github.com/draftsmith/wpbridge/internal/publish"
	"github.com/draftsmith/wpbridge/internal/wordpress"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the document to the remote post",
	Long: `Publish the configured markdown document. The first publish creates a
draft to obtain a post id; every later publish updates that same post.
Embedded images are uploaded only if the remote media library is missing them.`,
	RunE: runPublish,
}

var (
	publishFile         string
	publishBaseURL      string
	publishAPIVersion   string
	publishClientKey    string
	publishClientSecret string
	publishOwnerKey     string
	publishOwnerSecret  string
)

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "The file to publish")
	publishCmd.Flags().StringVar(&publishBaseURL, "base-url", "", "The URL to make API calls against")
	publishCmd.Flags().StringVar(&publishAPIVersion, "api-version", "", "The version of the site's API to use")
	publishCmd.Flags().StringVar(&publishClientKey, "client-key", "", "The client key")
	publishCmd.Flags().StringVar(&publishClientSecret, "client-secret", "", "The client secret")
	publishCmd.Flags().StringVar(&publishOwnerKey, "resource-owner-key", "", "The resource owner key")
	publishCmd.Flags().StringVar(&publishOwnerSecret, "resource-owner-secret", "", "The resource owner secret")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if !config.Initialized(".") {
		return fmt.Errorf("project not initialised - run 'wpbridge init' first")
	}

	cfg, err := resolveProject(".", config.Project{
		BaseURL:     publishBaseURL,
		APIVersion:  publishAPIVersion,
		File:        publishFile,
		Credentials: credentialOverrides(publishClientKey, publishClientSecret, publishOwnerKey, publishOwnerSecret),
	})
	if err != nil {
		return err
	}

	if cfg.BaseURL == "" || cfg.APIVersion == "" || cfg.File == "" {
		return fmt.Errorf("base URL, API version, and file are all required")
	}
	if !cfg.Credentials.Complete() {
		return fmt.Errorf("missing credentials - run 'wpbridge authenticate' first")
	}

	client := wordpress.NewClient(cfg.BaseURL, cfg.APIVersion, cfg.Credentials, globalLog)
	store := config.NewMetadataStore(".")
	orch := publish.New(client, store, cfg.File, globalLog)

	status, err := orch.Publish(cmd.Context())
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Printf("Published with status %d\n", status)
	if meta, err := store.Load(); err == nil && meta.ID != nil {
		fmt.Printf("Post id: %d\n", *meta.ID)
		if meta.Slug != "" {
			fmt.Printf("Slug: %s\n", meta.Slug)
		}
	}
	return nil
}
