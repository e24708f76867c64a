package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBalance loads the balance configuration.
// Search order: customPath -> ~/.loopy/configs/balance.yaml -> ./configs/balance.yaml -> embedded default
// Documents may be partial: missing keys keep their default values.
func LoadBalance(customPath string) (Balance, error) {
	cfg := DefaultBalance()
	found, err := loadYAML("balance.yaml", customPath, defaultBalanceYAML, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return DefaultBalance(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadLevels loads the level catalogue and validates it.
// Search order: customPath -> ~/.loopy/configs/levels.yaml -> ./configs/levels.yaml -> embedded default
func LoadLevels(customPath string) (Catalog, error) {
	var cat Catalog
	found, err := loadYAML("levels.yaml", customPath, defaultLevelsYAML, &cat)
	if err != nil {
		return cat, err
	}
	if !found {
		return cat, fmt.Errorf("config: no level catalogue available")
	}
	if err := cat.Validate(); err != nil {
		return cat, err
	}
	return cat, nil
}

// MustDefaultLevels returns the embedded catalogue, panicking if it is broken.
// Intended for tests and tools that cannot proceed without levels.
func MustDefaultLevels() Catalog {
	var cat Catalog
	if err := yaml.Unmarshal(defaultLevelsYAML, &cat); err != nil {
		panic(fmt.Sprintf("config: embedded levels: %v", err))
	}
	if err := cat.Validate(); err != nil {
		panic(fmt.Sprintf("config: embedded levels: %v", err))
	}
	return cat
}

// loadYAML walks the search order and decodes the first readable document.
// A custom path that cannot be read or parsed is an error; the other
// locations are optional and skipped on failure.
func loadYAML(name, customPath string, embedded []byte, out any) (bool, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return false, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return true, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(name); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, out); err == nil {
				return true, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", name)); err == nil {
		if err := yaml.Unmarshal(data, out); err == nil {
			return true, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(embedded, out); err != nil {
		return false, nil
	}
	return true, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".loopy", "configs", filename)
}
