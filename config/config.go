// Package config loads starql settings from a YAML file.
package config

// Config holds settings shared by the command line tool and the REPL.
// Command line flags override the values loaded here.
type Config struct {
	// Format is the default output format (see output.Formats).
	// Empty means pick by terminal: table for a TTY, jsonl otherwise.
	Format string `yaml:"format"`

	// BatchSize is the number of rows operators pull at a time
	BatchSize int `yaml:"batch_size"`

	// Limit caps the number of result rows printed; 0 means no limit
	Limit int `yaml:"limit"`

	// LogFile receives debug logs; empty disables logging
	LogFile string `yaml:"log_file"`

	// HistoryFile is the bbolt database holding REPL history
	HistoryFile string `yaml:"history_file"`

	// Bindings maps variable names to data files loaded before every query
	Bindings map[string]string `yaml:"bindings"`

	// BaseDir is the directory of the loaded config file, used to resolve
	// relative paths. Empty when no file was loaded.
	BaseDir string `yaml:"-"`
}

// Defaults returns the configuration used when no file sets a value
func Defaults() *Config {
	return &Config{
		BatchSize: 64,
		Bindings:  map[string]string{},
	}
}
