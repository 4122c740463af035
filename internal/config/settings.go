package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings are read from DIRVIEW_* environment variables.
type Settings struct {
	ConfigPath string `envconfig:"CONFIG"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"console"`
	LogOutput  string `envconfig:"LOG_OUTPUT" default:"stderr"`
	LogFile    string `envconfig:"LOG_FILE" default:"dirview.log"`
}

// LoadSettings processes the environment. ConfigPath defaults to DefaultPath().
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("dirview", &s); err != nil {
		return s, fmt.Errorf("error processing environment configuration: %v", err)
	}
	if s.ConfigPath == "" {
		s.ConfigPath = DefaultPath()
	}
	return s, nil
}
