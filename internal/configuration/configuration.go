package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/assisitant-dever/docgen/internal/file"
)

var defaultConfig = Config{
	ServerURL:         "http://127.0.0.1:8000",
	RequestTimeout:    60,
	GenerateTimeout:   300,
	DefaultDocType:    "通知",
	SessionFile:       "~/.config/docgen/session.json",
	CacheFile:         "~/.config/docgen/conversations.db",
	DownloadDirectory: "~/Downloads",
}

// Config holds configuration for the docgen tool.
type Config struct {
	// Base URL of the document-generation service.
	ServerURL string `json:"server_url"`
	// Timeout in seconds for regular API calls.
	RequestTimeout int `json:"request_timeout"`
	// Timeout in seconds for generation calls, which run a remote model.
	GenerateTimeout int `json:"generate_timeout"`
	// Document type sent with generation requests when none is specified.
	DefaultDocType string `json:"default_doc_type"`
	// Where we persist the session credential.
	SessionFile string `json:"session_file"`
	// Where we persist the local conversation snapshot.
	CacheFile string `json:"cache_file"`
	// Where downloaded documents are saved.
	DownloadDirectory string `json:"download_directory"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	for _, p := range []*string{&config.SessionFile, &config.CacheFile, &config.DownloadDirectory} {
		expanded, err := file.ExpandPath(*p)
		if err != nil {
			return nil, errors.Wrap(err, "expanding path")
		}
		*p = expanded
	}
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
