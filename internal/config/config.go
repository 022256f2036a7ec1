// ABOUTME: Project state directory handling and configuration documents.
// ABOUTME: Loads/saves .deploy JSON documents and the user-level credentials file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/draftsmith/wpbridge/internal/models"
)

const (
	// DeployDir is the project-local state directory.
	DeployDir = ".deploy"
	// ConfigFile is the project configuration document inside DeployDir.
	ConfigFile = "config.json"
	// MetadataFile is the post metadata document inside DeployDir.
	MetadataFile = "metadata.json"

	// DefaultAPIVersion is the API namespace used when init is not told otherwise.
	DefaultAPIVersion = "wp/v2"
	// DefaultFile is the document published when init is not told otherwise.
	DefaultFile = "README.md"
)

// Project is the per-project configuration document. Credential fields are
// optional here; they more commonly live in the user-level credentials file.
type Project struct {
	BaseURL    string `json:"base_url"`
	APIVersion string `json:"api_version"`
	File       string `json:"file"`
	models.Credentials
}

// Merge overlays o onto p. An override value wins only when it is non-empty;
// an empty or absent override never clears a stored value.
func (p Project) Merge(o Project) Project {
	if o.BaseURL != "" {
		p.BaseURL = o.BaseURL
	}
	if o.APIVersion != "" {
		p.APIVersion = o.APIVersion
	}
	if o.File != "" {
		p.File = o.File
	}
	p.Credentials = p.Credentials.Merge(o.Credentials)
	return p
}

// Initialized returns true if dir contains a project state directory.
func Initialized(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, DeployDir))
	return err == nil && info.IsDir()
}

// LoadProject reads the project configuration document from dir.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, DeployDir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}
	return &p, nil
}

// SaveProject writes the project configuration document into dir, creating the
// state directory if needed.
func SaveProject(dir string, p *Project) error {
	deploy := filepath.Join(dir, DeployDir)
	if err := os.MkdirAll(deploy, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	return os.WriteFile(filepath.Join(deploy, ConfigFile), append(data, '\n'), 0600)
}

// MetadataStore persists the post metadata document for one project directory.
type MetadataStore struct {
	Dir string
}

// NewMetadataStore returns a store rooted at the given project directory.
func NewMetadataStore(dir string) *MetadataStore {
	return &MetadataStore{Dir: dir}
}

func (s *MetadataStore) path() string {
	return filepath.Join(s.Dir, DeployDir, MetadataFile)
}

// Load reads the metadata document.
func (s *MetadataStore) Load() (*models.Metadata, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var m models.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &m, nil
}

// Save writes the metadata document. Callers invoke this immediately after a
// post id is assigned, before any further network call, so a later failure
// cannot leave a draft id unrecorded.
func (s *MetadataStore) Save(m *models.Metadata) error {
	if err := os.MkdirAll(filepath.Join(s.Dir, DeployDir), 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(s.path(), append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// UserCredentialsPath returns the user-level credentials file path,
// honoring XDG_CONFIG_HOME.
func UserCredentialsPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "wpbridge", "credentials.yaml"), nil
}

// LoadUserCredentials reads the user-level credentials file. Returns empty
// credentials if the file doesn't exist.
func LoadUserCredentials() (models.Credentials, error) {
	var creds models.Credentials
	path, err := UserCredentialsPath()
	if err != nil {
		return creds, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, err
	}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return creds, nil
}

// SaveUserCredentials writes the user-level credentials file.
func SaveUserCredentials(creds models.Credentials) error {
	path, err := UserCredentialsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
