package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// validFormats mirrors output.Formats; config does not import output
var validFormats = map[string]bool{
	"jsonl": true, "json": true, "csv": true, "table": true,
	"yaml": true, "html": true, "text": true,
}

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and returns
// Defaults() when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, err
	}
	cfg.BaseDir = filepath.Dir(absPath)
	cfg.resolvePaths()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of Defaults(). Paths are left as
// written.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = map[string]string{}
	}
	return cfg, nil
}

// resolvePaths makes relative file paths relative to the config directory
func (c *Config) resolvePaths() {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.BaseDir, p)
	}

	c.LogFile = resolve(c.LogFile)
	c.HistoryFile = resolve(c.HistoryFile)
	for name, p := range c.Bindings {
		c.Bindings[name] = resolve(p)
	}
}

// Validate checks the configuration for errors. Call it again after
// applying command line overrides.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Format != "" && !validFormats[cfg.Format] {
		errs = append(errs, fmt.Sprintf("invalid format: %s", cfg.Format))
	}
	if cfg.BatchSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid batch_size: %d (must be at least 1)", cfg.BatchSize))
	}
	if cfg.Limit < 0 {
		errs = append(errs, fmt.Sprintf("invalid limit: %d (must not be negative)", cfg.Limit))
	}

	names := make([]string, 0, len(cfg.Bindings))
	for name := range cfg.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !validBindingName(name) {
			errs = append(errs, fmt.Sprintf("bindings: invalid variable name %q", name))
		}
		if cfg.Bindings[name] == "" {
			errs = append(errs, fmt.Sprintf("bindings.%s: path is required", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// validBindingName reports whether name can be referenced as $name
func validBindingName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return false
		}
	}
	return true
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > STARQL_CONFIG env > ./starql.yaml > ~/.config/starql/starql.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("STARQL_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("STARQL_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat("starql.yaml"); err == nil {
		return "starql.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "starql", "starql.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
