package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"loxremote/internal/command"
	"loxremote/internal/gesture"
)

type Config struct {
	Miniserver MiniserverConfig `yaml:"miniserver"`
	Remote     RemoteConfig     `yaml:"remote"`
	Timing     TimingConfig     `yaml:"timing"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Logging    LoggingConfig    `yaml:"logging"`
	Mappings   []Mapping        `yaml:"mappings"`
}

type MiniserverConfig struct {
	BaseURL   string `yaml:"base_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type RemoteConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name,omitempty"`
}

type TimingConfig struct {
	DoublePressWindowMs  int `yaml:"double_press_window_ms"`
	LongPressThresholdMs int `yaml:"long_press_threshold_ms"`
}

type DispatchConfig struct {
	RetryDelayMs    int `yaml:"retry_delay_ms"`
	ShutdownGraceMs int `yaml:"shutdown_grace_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

type Mapping struct {
	Button   string   `yaml:"button"`
	Action   string   `yaml:"action"`
	Commands []string `yaml:"commands"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Miniserver.BaseURL == "" {
		return fmt.Errorf("miniserver.base_url is required")
	}
	if c.Miniserver.Username == "" {
		return fmt.Errorf("miniserver.username is required")
	}
	if c.Miniserver.Password == "" {
		return fmt.Errorf("miniserver.password is required")
	}
	if c.Remote.URL == "" {
		return fmt.Errorf("remote.url is required")
	}

	// Duplicate (button, action) pairs would silently shadow each other
	// in the mapping table; reject them here instead.
	type key struct {
		button string
		action string
	}
	seen := make(map[key]bool)
	for i, m := range c.Mappings {
		if m.Button == "" {
			return fmt.Errorf("mapping %d: button is required", i)
		}
		if _, err := gesture.ParseAction(m.Action); err != nil {
			return fmt.Errorf("mapping %d (%s): %w", i, m.Button, err)
		}
		if len(m.Commands) == 0 {
			return fmt.Errorf("mapping %d (%s/%s): at least one command is required", i, m.Button, m.Action)
		}
		k := key{m.Button, m.Action}
		if seen[k] {
			return fmt.Errorf("duplicate mapping for button %q action %q", m.Button, m.Action)
		}
		seen[k] = true

		// Command grammar is checked eagerly so a bad mapping is
		// reported at startup, not when the button is first pressed.
		for _, raw := range m.Commands {
			if _, err := command.Parse(raw); err != nil {
				return fmt.Errorf("mapping %d (%s/%s): %w", i, m.Button, m.Action, err)
			}
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Miniserver.TimeoutMs == 0 {
		c.Miniserver.TimeoutMs = 5000
	}
	if c.Timing.DoublePressWindowMs == 0 {
		c.Timing.DoublePressWindowMs = 300
	}
	if c.Timing.LongPressThresholdMs == 0 {
		c.Timing.LongPressThresholdMs = 500
	}
	if c.Dispatch.RetryDelayMs == 0 {
		c.Dispatch.RetryDelayMs = 250
	}
	if c.Dispatch.ShutdownGraceMs == 0 {
		c.Dispatch.ShutdownGraceMs = 5000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// CreateDefaultConfig creates a new config file with placeholder miniserver
// settings and an example mapping.
func CreateDefaultConfig(path string) error {
	content := `# loxremote configuration

miniserver:
  base_url: "http://miniserver.local"
  username: "remote"
  password: "secret"
  timeout_ms: 5000

remote:
  url: "ws://remote.local:8765/events"
  name: "Remote 3"

timing:
  double_press_window_ms: 300
  long_press_threshold_ms: 500

dispatch:
  retry_delay_ms: 250
  shutdown_grace_ms: 5000

logging:
  level: info

# Button mappings: each (button, action) pair resolves to an ordered list
# of miniserver commands. Actions: single_press, double_press, long_press.
mappings:
  - button: top
    action: single_press
    commands:
      - "dev/sps/io/0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0/on"
  - button: top
    action: long_press
    commands:
      - "virtual_input:0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0:off"
`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
