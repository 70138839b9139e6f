package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/avatarlab/pkg/config"
)

func readFromRepo(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join("..", "..", path))
}

// TestValidateShipped 测试随仓库发布的配置通过校验
func TestValidateShipped(t *testing.T) {
	var buf bytes.Buffer
	if err := validate(readFromRepo, &buf); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, name := range []string{"player", "greeter", "patrol"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("Expected report to mention avatar %q:\n%s", name, buf.String())
		}
	}
}

// TestValidateBadAvatar 测试非法化身颜色被报告
func TestValidateBadAvatar(t *testing.T) {
	read := func(path string) ([]byte, error) {
		if path == config.LabConfigPath {
			return []byte(`
avatars:
  - name: broken
    body_type: male
    skin_tone: "not-a-color"
    primary_color: "#2a2f38"
    position: {x: 0, z: 0}
`), nil
		}
		return readFromRepo(path)
	}

	var buf bytes.Buffer
	err := validate(read, &buf)
	if err == nil {
		t.Fatal("Expected error for invalid skin tone")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("Expected error to name the avatar, got %v", err)
	}
}

// TestValidateMissingFile 测试缺失文件
func TestValidateMissingFile(t *testing.T) {
	read := func(path string) ([]byte, error) {
		if path == config.MotionConfigPath {
			return nil, fmt.Errorf("not found")
		}
		return readFromRepo(path)
	}
	var buf bytes.Buffer
	if err := validate(read, &buf); err == nil || !strings.Contains(err.Error(), config.MotionConfigPath) {
		t.Errorf("Expected error naming %s, got %v", config.MotionConfigPath, err)
	}
}
