package sqlconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath holds an explicit path set by a command-line flag, the
// same override slot the teacher's FindConfigFile checks first.
var ConfigFilePath string

// FindConfigFile searches standard locations for a sqlshield config file,
// mirroring the teacher's internal/config.FindConfigFile precedence:
// explicit path, env var, working directory, user config dir, system
// config dir.
func FindConfigFile() string {
	if ConfigFilePath != "" {
		return ConfigFilePath
	}
	if envPath := os.Getenv("SQLSHIELD_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{"sqlshield.yaml", "sqlshield.yml", "sqlshield.json"}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
			path := filepath.Join(homeDir, ".config", "sqlshield", name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		path := filepath.Join("/etc/sqlshield", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// LoadFile loads a FileConfig from path (YAML or JSON by extension; if the
// extension is unrecognized, YAML is tried first and JSON second).
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sqlconfig: failed to read config file: %w", err)
	}

	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("sqlconfig: failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("sqlconfig: failed to parse JSON config: %w", err)
		}
	default:
		var yamlCfg FileConfig
		if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
			var jsonCfg FileConfig
			if err := json.Unmarshal(data, &jsonCfg); err != nil {
				return nil, fmt.Errorf("sqlconfig: failed to parse config file (tried YAML and JSON): %w", err)
			}
			cfg = jsonCfg
		} else {
			cfg = yamlCfg
		}
	}

	return &cfg, nil
}

// Load finds and loads the effective config file, applying the
// SQLSHIELD_STRATEGY and SQLSHIELD_DEDUP_ENABLED env var overrides the
// ambient stack promises on top of whatever the file specifies. Returns a
// Resolved built from DefaultOptions alone (i.e. spec.md's defaults) if no
// config file is found anywhere.
func Load() (*Resolved, error) {
	path := FindConfigFile()
	var fc FileConfig
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fc = *loaded
	}
	resolved := fc.ToResolved()

	if v := os.Getenv("SQLSHIELD_STRATEGY"); v != "" {
		resolved.ActiveStrategy = v
	}
	if v := os.Getenv("SQLSHIELD_DEDUP_ENABLED"); v != "" {
		resolved.DeduplicationEnabled = v != "false" && v != "0"
	}
	return resolved, nil
}
