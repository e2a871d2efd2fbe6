package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return configPath
}

func TestLoad(t *testing.T) {
	content := `
miniserver:
  base_url: "http://loxone.local"
  username: "user"
  password: "pass"
  timeout_ms: 3000

remote:
  url: "ws://remote.local:8765/events"
  name: "Remote 3"

timing:
  double_press_window_ms: 250
  long_press_threshold_ms: 400

dispatch:
  retry_delay_ms: 100
  shutdown_grace_ms: 2000

logging:
  level: debug

mappings:
  - button: top
    action: single_press
    commands:
      - "dev/sps/io/uuid/on"
      - "virtual_input:another-uuid:toggle"
  - button: top
    action: long_press
    commands:
      - "dev/sps/io/uuid/off"
`

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Miniserver.BaseURL != "http://loxone.local" {
		t.Errorf("BaseURL = %q, want http://loxone.local", cfg.Miniserver.BaseURL)
	}
	if cfg.Miniserver.Username != "user" || cfg.Miniserver.Password != "pass" {
		t.Errorf("credentials = %q/%q, want user/pass", cfg.Miniserver.Username, cfg.Miniserver.Password)
	}
	if cfg.Miniserver.TimeoutMs != 3000 {
		t.Errorf("TimeoutMs = %d, want 3000", cfg.Miniserver.TimeoutMs)
	}
	if cfg.Remote.URL != "ws://remote.local:8765/events" {
		t.Errorf("Remote.URL = %q", cfg.Remote.URL)
	}
	if cfg.Remote.Name != "Remote 3" {
		t.Errorf("Remote.Name = %q, want Remote 3", cfg.Remote.Name)
	}
	if cfg.Timing.DoublePressWindowMs != 250 {
		t.Errorf("DoublePressWindowMs = %d, want 250", cfg.Timing.DoublePressWindowMs)
	}
	if cfg.Timing.LongPressThresholdMs != 400 {
		t.Errorf("LongPressThresholdMs = %d, want 400", cfg.Timing.LongPressThresholdMs)
	}
	if cfg.Dispatch.RetryDelayMs != 100 {
		t.Errorf("RetryDelayMs = %d, want 100", cfg.Dispatch.RetryDelayMs)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Mappings) != 2 {
		t.Fatalf("len(Mappings) = %d, want 2", len(cfg.Mappings))
	}
	if len(cfg.Mappings[0].Commands) != 2 || cfg.Mappings[0].Commands[0] != "dev/sps/io/uuid/on" {
		t.Errorf("Mappings[0].Commands = %v", cfg.Mappings[0].Commands)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `
miniserver:
  base_url: "http://loxone.local"
  username: "user"
  password: "pass"

remote:
  url: "ws://remote.local:8765/events"
`

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Miniserver.TimeoutMs != 5000 {
		t.Errorf("default TimeoutMs = %d, want 5000", cfg.Miniserver.TimeoutMs)
	}
	if cfg.Timing.DoublePressWindowMs != 300 {
		t.Errorf("default DoublePressWindowMs = %d, want 300", cfg.Timing.DoublePressWindowMs)
	}
	if cfg.Timing.LongPressThresholdMs != 500 {
		t.Errorf("default LongPressThresholdMs = %d, want 500", cfg.Timing.LongPressThresholdMs)
	}
	if cfg.Dispatch.RetryDelayMs != 250 {
		t.Errorf("default RetryDelayMs = %d, want 250", cfg.Dispatch.RetryDelayMs)
	}
	if cfg.Dispatch.ShutdownGraceMs != 5000 {
		t.Errorf("default ShutdownGraceMs = %d, want 5000", cfg.Dispatch.ShutdownGraceMs)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	base := `
miniserver:
  base_url: "http://loxone.local"
  username: "user"
  password: "pass"

remote:
  url: "ws://remote.local:8765/events"
`

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "missing base url",
			content: `
miniserver:
  username: "user"
  password: "pass"
remote:
  url: "ws://remote.local:8765/events"
`,
			wantMsg: "base_url",
		},
		{
			name: "missing remote url",
			content: `
miniserver:
  base_url: "http://loxone.local"
  username: "user"
  password: "pass"
`,
			wantMsg: "remote.url",
		},
		{
			name: "unknown action",
			content: base + `
mappings:
  - button: top
    action: triple_press
    commands: ["dev/sps/io/x/on"]
`,
			wantMsg: "unsupported button action",
		},
		{
			name: "duplicate mapping key",
			content: base + `
mappings:
  - button: top
    action: single_press
    commands: ["dev/sps/io/x/on"]
  - button: top
    action: single_press
    commands: ["dev/sps/io/x/off"]
`,
			wantMsg: "duplicate mapping",
		},
		{
			name: "empty command list",
			content: base + `
mappings:
  - button: top
    action: single_press
    commands: []
`,
			wantMsg: "at least one command",
		},
		{
			name: "malformed virtual input command",
			content: base + `
mappings:
  - button: top
    action: single_press
    commands: ["virtual_input:bad"]
`,
			wantMsg: "malformed command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if Exists(path) {
		t.Fatal("Exists() = true before creation")
	}

	if err := CreateDefaultConfig(path); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	if !Exists(path) {
		t.Fatal("Exists() = false after creation")
	}

	// The generated file must load cleanly
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if len(cfg.Mappings) == 0 {
		t.Error("generated config has no example mappings")
	}
}
