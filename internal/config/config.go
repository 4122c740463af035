// Package config reads and writes the persisted viewer state.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dirview/internal/history"
)

// Window size constants
const (
	DefaultWidth  = 800
	DefaultHeight = 800
	MinWidth      = 400
	MinHeight     = 300
)

// Subfolder policies
const (
	SubfoldersAsk    = "ask"
	SubfoldersAlways = "always"
	SubfoldersNever  = "never"
)

const (
	defaultCacheSize = 8
	maxCacheSize     = 64
	defaultFontSize  = 20.0
	minFontSize      = 10.0
)

// ErrMalformed is returned when the config file exists but cannot be parsed.
var ErrMalformed = errors.New("malformed config")

// Load statuses
const (
	StatusOK      = "OK"
	StatusDefault = "Default"
	StatusWarning = "Warning"
)

type Config struct {
	History                    History             `json:"history"`
	Position                   [2]int              `json:"position"`
	Size                       [2]int              `json:"size"`
	SuppressMissingFileWarning bool                `json:"suppress_missing_file_warning"`
	Subfolders                 string              `json:"subfolders"`
	CacheSize                  int                 `json:"cache_size"`
	FontSize                   float64             `json:"font_size"`
	Keybindings                map[string][]string `json:"keybindings,omitempty"`
	Mousebindings              map[string][]string `json:"mousebindings,omitempty"`
}

// LoadResult contains the result of loading configuration
type LoadResult struct {
	Config   Config
	Status   string // StatusOK, StatusDefault or StatusWarning
	Warnings []string
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		History:    History{},
		Position:   [2]int{0, 0},
		Size:       [2]int{DefaultWidth, DefaultHeight},
		Subfolders: SubfoldersAsk,
		CacheSize:  defaultCacheSize,
		FontSize:   defaultFontSize,
	}
}

// DefaultPath returns ~/.dirview.json, or dirview.json when there is no home.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "dirview.json"
	}
	return filepath.Join(homeDir, ".dirview.json")
}

// Load reads the config at path. A missing file or missing keys fall back to
// defaults; content that is not valid JSON of the right shape fails with
// ErrMalformed.
func Load(path string) (LoadResult, error) {
	cfg := Default()
	result := LoadResult{
		Config:   cfg,
		Status:   StatusOK,
		Warnings: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Status = StatusDefault
			return result, nil
		}
		return result, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return result, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	warn := func(format string, args ...any) {
		result.Status = StatusWarning
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	if cfg.History == nil {
		cfg.History = History{}
	}
	if len(cfg.History) > history.Capacity {
		warn("history has %d entries, keeping the latest %d", len(cfg.History), history.Capacity)
		cfg.History = cfg.History[len(cfg.History)-history.Capacity:]
	}

	// Validate minimum size
	if cfg.Size[0] < MinWidth || cfg.Size[1] < MinHeight {
		warn("window size %dx%d is too small, using %dx%d", cfg.Size[0], cfg.Size[1], DefaultWidth, DefaultHeight)
		cfg.Size = [2]int{DefaultWidth, DefaultHeight}
	}

	switch cfg.Subfolders {
	case SubfoldersAsk, SubfoldersAlways, SubfoldersNever:
	default:
		warn("unknown subfolders policy %q, using %q", cfg.Subfolders, SubfoldersAsk)
		cfg.Subfolders = SubfoldersAsk
	}

	// Validate cache size (minimum 1, maximum 64)
	if cfg.CacheSize < 1 {
		cfg.CacheSize = defaultCacheSize
	} else if cfg.CacheSize > maxCacheSize {
		cfg.CacheSize = maxCacheSize
	}

	if cfg.FontSize < minFontSize {
		cfg.FontSize = defaultFontSize
	}

	result.Config = cfg
	return result, nil
}

// Save writes cfg to path as indented JSON.
func Save(cfg Config, path string) error {
	if cfg.Size[0] < MinWidth || cfg.Size[1] < MinHeight {
		return fmt.Errorf("not saving config with invalid window size %dx%d", cfg.Size[0], cfg.Size[1])
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving config to %s: %w", path, err)
	}
	return nil
}
