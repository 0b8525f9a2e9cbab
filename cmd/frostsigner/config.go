package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds settings shared by every subcommand. Flags override it.
type Config struct {
	LogLevel    string `json:"log_level"`
	OutputDir   string `json:"output_dir"`
	SecretShare string `json:"secret_share"`
}

func defaultConfig() *Config {
	return &Config{LogLevel: "info", OutputDir: "."}
}

// loadConfig reads a JSON configuration file. An empty path yields the
// defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	absPath, err := securePath(path)
	if err != nil {
		return nil, fmt.Errorf("secure path: %w", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by securePath
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if _, err := securePath(c.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	if c.SecretShare != "" {
		if _, err := securePath(c.SecretShare); err != nil {
			return fmt.Errorf("secret_share: %w", err)
		}
	}
	return nil
}

// securePath validates that a file path doesn't escape the working directory.
func securePath(path string) (string, error) {
	clean := filepath.Clean(path)
	absPath, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	rel, err := filepath.Rel(base, absPath)
	if err != nil {
		return "", fmt.Errorf("relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return absPath, nil
}

func readJSON(path string, v any) error {
	absPath, err := securePath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by securePath
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v into dir/name. Files are private to the user since
// several of them hold secrets.
func writeJSON(dir, name string, v any) (string, error) {
	absDir, err := securePath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(absDir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(absDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
