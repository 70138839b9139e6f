package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadShippedLabConfig(t *testing.T) {
	cfg, err := LoadLabConfig(filepath.Join("..", "..", "data", "lab.yaml"))
	if err != nil {
		t.Fatalf("LoadLabConfig failed: %v", err)
	}
	if len(cfg.Avatars) != 3 {
		t.Errorf("expected 3 avatars, got %d", len(cfg.Avatars))
	}
	players := 0
	for _, a := range cfg.Avatars {
		if a.Player {
			players++
		}
	}
	if players != 1 {
		t.Errorf("expected exactly one player, got %d", players)
	}
}

func TestParseLabConfigDefaults(t *testing.T) {
	cfg, err := ParseLabConfig([]byte(`
avatars:
  - name: solo
    body_type: male
    look_at:
      target: {x: 0, y: 1.6, z: 2}
`))
	if err != nil {
		t.Fatalf("ParseLabConfig failed: %v", err)
	}
	if cfg.Window.Width != LabWindowWidth || cfg.Window.Height != LabWindowHeight {
		t.Errorf("window defaults not applied: %+v", cfg.Window)
	}
	if cfg.Camera.Zoom <= 0 {
		t.Errorf("camera zoom default not applied: %v", cfg.Camera.Zoom)
	}
	if cfg.Avatars[0].LookAt.Intensity != 1.0 {
		t.Errorf("look_at intensity default: got %v, want 1.0", cfg.Avatars[0].LookAt.Intensity)
	}
}

func TestLabConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		errContains string
	}{
		{"no avatars", "avatars: []\n", "at least one avatar"},
		{"missing name", "avatars:\n  - body_type: male\n", "missing 'name'"},
		{"duplicate name", "avatars:\n  - name: a\n  - name: a\n", "duplicate avatar name"},
		{"two players", "avatars:\n  - name: a\n    player: true\n  - name: b\n    player: true\n", "at most one player"},
		{
			"short patrol",
			"avatars:\n  - name: a\n    patrol:\n      speed: 1\n      arrive_radius: 0.2\n      waypoints:\n        - {x: 0, z: 0}\n",
			"at least 2 waypoints",
		},
		{
			"player patrol",
			"avatars:\n  - name: a\n    player: true\n    patrol:\n      speed: 1\n      arrive_radius: 0.2\n      waypoints:\n        - {x: 0, z: 0}\n        - {x: 1, z: 0}\n",
			"cannot patrol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLabConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}
