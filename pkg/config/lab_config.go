package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 实验室窗口默认尺寸
const (
	LabWindowWidth  = 960
	LabWindowHeight = 640
)

// LabConfig 化身实验室的场景布局
//
// 配置文件位置: data/lab.yaml
type LabConfig struct {
	Window  WindowConfig `yaml:"window"`
	Camera  CameraConfig `yaml:"camera"`
	Avatars []LabAvatar  `yaml:"avatars"`
}

// WindowConfig 窗口参数
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// CameraConfig 正交环绕相机的初始参数
type CameraConfig struct {
	Yaw    float64 `yaml:"yaw"`
	Pitch  float64 `yaml:"pitch"`
	Zoom   float64 `yaml:"zoom"` // 像素/米
	Target Point3  `yaml:"target"`
}

// Point2 地面坐标（X/Z）
type Point2 struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// Point3 世界坐标
type Point3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LabAvatar 场景中的一个化身
type LabAvatar struct {
	Name         string `yaml:"name"`
	BodyType     string `yaml:"body_type"`
	SkinTone     string `yaml:"skin_tone"`
	PrimaryColor string `yaml:"primary_color"`
	Hair         bool   `yaml:"hair"`

	Position Point2  `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`

	// Player 为 true 时由键盘驱动（最多一个）
	Player bool `yaml:"player,omitempty"`

	Patrol *PatrolDef `yaml:"patrol,omitempty"`
	LookAt *LookAtDef `yaml:"look_at,omitempty"`
}

// PatrolDef 巡逻路径
type PatrolDef struct {
	Speed        float64  `yaml:"speed"`
	ArriveRadius float64  `yaml:"arrive_radius"`
	Waypoints    []Point2 `yaml:"waypoints"`
}

// LookAtDef 注视目标；FollowPlayer 为 true 时忽略 Target，改为注视玩家头部
type LookAtDef struct {
	Target       Point3  `yaml:"target"`
	Intensity    float64 `yaml:"intensity"`
	FollowPlayer bool    `yaml:"follow_player,omitempty"`
}

// LoadLabConfig 从 YAML 文件加载实验室布局
func LoadLabConfig(path string) (*LabConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lab config %s: %w", path, err)
	}
	return ParseLabConfig(data)
}

// ParseLabConfig 从 YAML 字节解析实验室布局，缺省的窗口与相机参数会被补齐
func ParseLabConfig(data []byte) (*LabConfig, error) {
	var cfg LabConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse lab config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lab config: %w", err)
	}
	return &cfg, nil
}

func (c *LabConfig) applyDefaults() {
	if c.Window.Width == 0 {
		c.Window.Width = LabWindowWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = LabWindowHeight
	}
	if c.Window.Title == "" {
		c.Window.Title = "Avatar Lab"
	}
	if c.Camera.Zoom == 0 {
		c.Camera.Zoom = 220
	}
	for i := range c.Avatars {
		if c.Avatars[i].LookAt != nil && c.Avatars[i].LookAt.Intensity == 0 {
			c.Avatars[i].LookAt.Intensity = 1.0
		}
	}
}

// Validate 校验布局
//
// 体型与颜色的合法性由骨架构建器负责，这里只检查布局本身。
func (c *LabConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be > 0, got %.2f", c.Camera.Zoom)
	}
	if len(c.Avatars) == 0 {
		return fmt.Errorf("at least one avatar is required")
	}
	players := 0
	names := make(map[string]bool)
	for i, a := range c.Avatars {
		if a.Name == "" {
			return fmt.Errorf("avatar #%d is missing 'name'", i)
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate avatar name '%s'", a.Name)
		}
		names[a.Name] = true
		if a.Player {
			players++
		}
		if a.Patrol != nil {
			if a.Player {
				return fmt.Errorf("avatar '%s': player avatars cannot patrol", a.Name)
			}
			if len(a.Patrol.Waypoints) < 2 {
				return fmt.Errorf("avatar '%s': patrol needs at least 2 waypoints", a.Name)
			}
			if a.Patrol.Speed <= 0 || a.Patrol.ArriveRadius <= 0 {
				return fmt.Errorf("avatar '%s': patrol speed and arrive_radius must be > 0", a.Name)
			}
		}
		if a.LookAt != nil && a.LookAt.Intensity < 0 {
			return fmt.Errorf("avatar '%s': look_at.intensity must be >= 0", a.Name)
		}
	}
	if players > 1 {
		return fmt.Errorf("at most one player avatar is allowed, got %d", players)
	}
	return nil
}
