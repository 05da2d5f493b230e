package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// Loader defines the interface for loading deployment configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Actions, error)
	// Validate validates the configuration.
	Validate(cfg *Actions) error
}

// FileLoader implements the Loader interface for file-based configuration
// loading. JSON is the default format; files ending in .yaml or .yml are
// parsed as YAML.
type FileLoader struct{}

// NewLoader creates a new FileLoader instance.
func NewLoader() Loader {
	return &FileLoader{}
}

// Load loads configuration from the specified file path.
func (l *FileLoader) Load(path string) (*Actions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path, err)
		}
		return nil, NewConfigInvalidError(path, "failed to read configuration file", err)
	}

	var cfg Actions

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, NewConfigInvalidError(path, "invalid YAML syntax", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, NewConfigInvalidError(path, "invalid JSON syntax", err)
		}
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (l *FileLoader) Validate(cfg *Actions) error {
	if cfg.Root == "" {
		return NewValidationError("root must not be empty")
	}

	for i, action := range cfg.Actions {
		set := 0
		if action.CompileFile != nil {
			set++
		}
		if action.CompileDirectory != nil {
			set++
		}
		if action.CopyFile != nil {
			set++
		}
		if action.CopyDirectory != nil {
			set++
		}

		if set != 1 {
			return NewValidationError(fmt.Sprintf(
				"action %d must set exactly one of compile_file, compile_directory, copy_file, copy_directory", i))
		}
	}

	return nil
}
