// Package config loads lain's TOML configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appDir = "lain"

	// sidebar width bounds, in terminal cells
	MinSidebarWidth     = 20
	MaxSidebarWidth     = 60
	DefaultSidebarWidth = 32
)

type Config struct {
	API APIConfig `toml:"api"`
	UI  UIConfig  `toml:"ui"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type UIConfig struct {
	SidebarWidth int `toml:"sidebar_width"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			SidebarWidth: DefaultSidebarWidth,
		},
	}
}

// Timeout is the request timeout. Zero or negative disables it.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ClampSidebarWidth keeps w within the sidebar bounds.
func ClampSidebarWidth(w int) int {
	if w < MinSidebarWidth {
		return MinSidebarWidth
	}
	if w > MaxSidebarWidth {
		return MaxSidebarWidth
	}
	return w
}

// Dir is lain's configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDir)
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.UI.SidebarWidth = ClampSidebarWidth(cfg.UI.SidebarWidth)
	return cfg, nil
}

func Save(cfg Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return WriteFileAtomic(path, buf.Bytes(), 0600)
}

// WriteFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path. Readers see either the old or the new file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	ok = true
	return nil
}
