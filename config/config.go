// Package config loads user settings from a YAML file overlaid with
// CLAWVOICE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix     = "CLAWVOICE"
	DefaultHotkey = "Ctrl+Shift+Space"
)

type Config struct {
	// MicrophoneDeviceID is a device ID or name; empty means the OS default.
	MicrophoneDeviceID string `mapstructure:"microphone_device_id" yaml:"microphone_device_id"`
	PushToTalkHotkey   string `mapstructure:"push_to_talk_hotkey" yaml:"push_to_talk_hotkey"`
	RecordingsDir      string `mapstructure:"recordings_dir" yaml:"recordings_dir"`
	ArchiveFLAC        bool   `mapstructure:"archive_flac" yaml:"archive_flac"`
	CopyFinalResponse  bool   `mapstructure:"copy_final_response" yaml:"copy_final_response"`
	LogPath            string `mapstructure:"log_path" yaml:"log_path"`
}

func Default() Config {
	return Config{
		PushToTalkHotkey: DefaultHotkey,
		RecordingsDir:    ".",
	}
}

// DefaultPath is config.yaml under the user config directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "clawvoice", "config.yaml"), nil
}

// Load reads path if it exists. A missing file yields defaults plus any
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("microphone_device_id", def.MicrophoneDeviceID)
	v.SetDefault("push_to_talk_hotkey", def.PushToTalkHotkey)
	v.SetDefault("recordings_dir", def.RecordingsDir)
	v.SetDefault("archive_flac", def.ArchiveFLAC)
	v.SetDefault("copy_final_response", def.CopyFinalResponse)
	v.SetDefault("log_path", def.LogPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
