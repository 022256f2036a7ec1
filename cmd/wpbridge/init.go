// ABOUTME: Cobra command for initializing a project state directory.
// ABOUTME: Runs the TUI wizard and writes the default config and metadata documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/draftsmith/wpbridge/internal/auth"
	"github.com/draftsmith/wpbridge/internal/config"
	"github.com/draftsmith/wpbridge/internal/models"
	"github.com/draftsmith/wpbridge/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise this directory for publishing",
	Long: `Create the project state directory with a configuration document and a
default metadata document. Re-running asks before resetting an existing
configuration.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var existing config.Project
	if config.Initialized(".") {
		prompter := &auth.ConsolePrompter{In: os.Stdin, Out: os.Stdout}
		answer, err := prompter.Prompt("This project has already been initialised! Reset your configuration and start again? (y/[n]): ")
		if err != nil {
			return err
		}
		if answer != "y" && answer != "yes" {
			return nil
		}
		if proj, err := config.LoadProject("."); err == nil {
			existing = *proj
		}
	}

	model := tui.NewInitModel(existing.BaseURL, existing.APIVersion, existing.File)
	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.InitModel)
	if !final.ShouldSave() {
		fmt.Println("Init cancelled.")
		return nil
	}

	baseURL, apiVersion, file := final.Result()
	proj := existing
	proj = proj.Merge(config.Project{BaseURL: baseURL, APIVersion: apiVersion, File: file})

	if err := config.SaveProject(".", &proj); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	fmt.Printf("Configuration file created at %s\n", filepath.Join(config.DeployDir, config.ConfigFile))

	store := config.NewMetadataStore(".")
	if err := store.Save(models.DefaultMetadata()); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	fmt.Printf("Metadata file created at %s\n", filepath.Join(config.DeployDir, config.MetadataFile))
	return nil
}
