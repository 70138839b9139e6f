package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestShippedMotionMatchesDefaults(t *testing.T) {
	cfg, err := LoadMotionConfig(filepath.Join("..", "..", "data", "avatar", "motion.yaml"))
	if err != nil {
		t.Fatalf("LoadMotionConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultMotionConfig()) {
		t.Errorf("shipped motion.yaml differs from DefaultMotionConfig()\n got: %+v\nwant: %+v", cfg, DefaultMotionConfig())
	}
}

func TestMotionConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*MotionConfig)
		errContains string
	}{
		{"zero breathe frequency", func(c *MotionConfig) { c.Idle.BreatheFrequency = 0 }, "breathe_frequency"},
		{"elbow breathe exceeds flex", func(c *MotionConfig) { c.Idle.ElbowBreathe = c.Idle.ElbowFlex + 0.1 }, "elbow_breathe"},
		{"zero cadence", func(c *MotionConfig) { c.Walk.Cadence = 0 }, "walk.cadence"},
		{"straight elbow baseline", func(c *MotionConfig) { c.Walk.ElbowBase = 0 }, "walk.elbow_base"},
		{"negative knee range", func(c *MotionConfig) { c.Walk.KneeRange = -0.1 }, "knee_range"},
		{"negative head yaw", func(c *MotionConfig) { c.LookAt.HeadMaxYaw = -1 }, "look_at.head_max_yaw"},
		{"zero reference speed", func(c *MotionConfig) { c.Locomotion.ReferenceSpeed = 0 }, "reference_speed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMotionConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestParseMotionConfigPartialOverride(t *testing.T) {
	// 省略的段落为零值，校验应当拒绝
	_, err := ParseMotionConfig([]byte("walk:\n  cadence: 2.0\n"))
	if err == nil {
		t.Fatal("partial motion config should fail validation")
	}
	if !strings.Contains(err.Error(), "invalid motion config") {
		t.Errorf("unexpected error: %v", err)
	}
}
