package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MotionConfig 姿态动画与宿主运动的常量表
//
// 配置文件位置: data/avatar/motion.yaml
type MotionConfig struct {
	Idle       IdleMotion       `yaml:"idle"`
	Walk       WalkMotion       `yaml:"walk"`
	LookAt     LookAtLimits     `yaml:"look_at"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
}

// IdleMotion 待机呼吸参数
//
// 呼吸相位 s = sin(t × BreatheFrequency)，左右两侧共用同一相位。
type IdleMotion struct {
	BreatheFrequency float64 `yaml:"breathe_frequency"` // 弧度/秒
	ChestBob         float64 `yaml:"chest_bob"`         // 胸腔竖直起伏幅度（米）
	HeadBob          float64 `yaml:"head_bob"`          // 头部额外起伏幅度（米）
	ArmAbduction     float64 `yaml:"arm_abduction"`     // 手臂外展基线（弧度）
	ArmBreathe       float64 `yaml:"arm_breathe"`       // 外展随呼吸的变化幅度
	ElbowFlex        float64 `yaml:"elbow_flex"`        // 肘部固定微屈
	ElbowBreathe     float64 `yaml:"elbow_breathe"`     // 肘部随呼吸的变化幅度
	KneeFlex         float64 `yaml:"knee_flex"`         // 膝部固定微屈
	HairSway         float64 `yaml:"hair_sway"`         // 头发随呼吸的摆动幅度
}

// WalkMotion 步行循环参数
//
// 步态相位 w = t × 2π × Cadence。
type WalkMotion struct {
	Cadence      float64 `yaml:"cadence"`       // 步频（周期/秒）
	HipSwing     float64 `yaml:"hip_swing"`     // 大腿前后摆幅
	KneeRange    float64 `yaml:"knee_range"`    // 膝部屈曲上限
	ArmSwing     float64 `yaml:"arm_swing"`     // 手臂前后摆幅
	ElbowBase    float64 `yaml:"elbow_base"`    // 肘部基线屈曲（>0，肘部从不完全伸直）
	ElbowRange   float64 `yaml:"elbow_range"`   // 前摆时额外屈曲
	ArmAbduction float64 `yaml:"arm_abduction"` // 步行时手臂外展（固定）
	BobAmplitude float64 `yaml:"bob_amplitude"` // 根节点竖直起伏（|cos 2w| × 幅度）
	TorsoTwist   float64 `yaml:"torso_twist"`   // 腰部偏航扭转
	MaxIntensity float64 `yaml:"max_intensity"` // 强度上限
}

// LookAtLimits 注视跟踪的角度锥（弧度，乘以强度后使用）
type LookAtLimits struct {
	ChestMaxPitch float64 `yaml:"chest_max_pitch"`
	ChestMaxYaw   float64 `yaml:"chest_max_yaw"`
	HeadMaxPitch  float64 `yaml:"head_max_pitch"`
	HeadMaxYaw    float64 `yaml:"head_max_yaw"`
}

// LocomotionConfig 宿主侧速度测量与模式选择参数
type LocomotionConfig struct {
	// WalkThreshold 速度(米/秒)高于此值切换到 walk，否则 idle（硬切换）
	WalkThreshold float64 `yaml:"walk_threshold"`
	// ReferenceSpeed 强度 = 速度 / ReferenceSpeed
	ReferenceSpeed float64 `yaml:"reference_speed"`
	// MaxWalkSpeed 玩家化身的最大步行速度
	MaxWalkSpeed float64 `yaml:"max_walk_speed"`
	// AccelLambda 速度指数阻尼系数
	AccelLambda float64 `yaml:"accel_lambda"`
	// TurnLambda 朝向指数阻尼系数
	TurnLambda float64 `yaml:"turn_lambda"`
}

// DefaultMotionConfig 返回内置的规范动画常量（与 data/avatar/motion.yaml 一致）
func DefaultMotionConfig() *MotionConfig {
	return &MotionConfig{
		Idle: IdleMotion{
			BreatheFrequency: 1.6,
			ChestBob:         0.012,
			HeadBob:          0.006,
			ArmAbduction:     0.18,
			ArmBreathe:       0.02,
			ElbowFlex:        0.20,
			ElbowBreathe:     0.02,
			KneeFlex:         0.10,
			HairSway:         0.03,
		},
		Walk: WalkMotion{
			Cadence:      1.7,
			HipSwing:     0.55,
			KneeRange:    0.85,
			ArmSwing:     0.35,
			ElbowBase:    0.15,
			ElbowRange:   0.35,
			ArmAbduction: 0.08,
			BobAmplitude: 0.01,
			TorsoTwist:   0.06,
			MaxIntensity: 1.5,
		},
		LookAt: LookAtLimits{
			ChestMaxPitch: 0.25,
			ChestMaxYaw:   0.55,
			HeadMaxPitch:  0.35,
			HeadMaxYaw:    0.80,
		},
		Locomotion: LocomotionConfig{
			WalkThreshold:  0.05,
			ReferenceSpeed: 1.0,
			MaxWalkSpeed:   1.6,
			AccelLambda:    10,
			TurnLambda:     14,
		},
	}
}

// LoadMotionConfig 从 YAML 文件加载动画常量
func LoadMotionConfig(path string) (*MotionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read motion config %s: %w", path, err)
	}
	return ParseMotionConfig(data)
}

// ParseMotionConfig 从 YAML 字节解析动画常量
func ParseMotionConfig(data []byte) (*MotionConfig, error) {
	var cfg MotionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse motion config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid motion config: %w", err)
	}
	return &cfg, nil
}

// Validate 校验动画常量
//
// 屈曲类常量必须非负，且待机肘部的呼吸幅度不能超过基线，
// 否则肘部会在呼吸低点反向弯曲。
func (c *MotionConfig) Validate() error {
	if c.Idle.BreatheFrequency <= 0 {
		return fmt.Errorf("idle.breathe_frequency must be > 0, got %.3f", c.Idle.BreatheFrequency)
	}
	if c.Idle.ElbowFlex < 0 || c.Idle.KneeFlex < 0 {
		return fmt.Errorf("idle flexion constants must be >= 0")
	}
	if c.Idle.ElbowBreathe < 0 || c.Idle.ElbowBreathe > c.Idle.ElbowFlex {
		return fmt.Errorf("idle.elbow_breathe (%.3f) must be within [0, elbow_flex=%.3f]",
			c.Idle.ElbowBreathe, c.Idle.ElbowFlex)
	}
	if c.Walk.Cadence <= 0 {
		return fmt.Errorf("walk.cadence must be > 0, got %.3f", c.Walk.Cadence)
	}
	if c.Walk.KneeRange < 0 || c.Walk.ElbowRange < 0 || c.Walk.BobAmplitude < 0 {
		return fmt.Errorf("walk knee_range, elbow_range and bob_amplitude must be >= 0")
	}
	if c.Walk.ElbowBase <= 0 {
		return fmt.Errorf("walk.elbow_base must be > 0, got %.3f", c.Walk.ElbowBase)
	}
	if c.Walk.MaxIntensity <= 0 {
		return fmt.Errorf("walk.max_intensity must be > 0, got %.3f", c.Walk.MaxIntensity)
	}
	limits := []struct {
		name  string
		value float64
	}{
		{"look_at.chest_max_pitch", c.LookAt.ChestMaxPitch},
		{"look_at.chest_max_yaw", c.LookAt.ChestMaxYaw},
		{"look_at.head_max_pitch", c.LookAt.HeadMaxPitch},
		{"look_at.head_max_yaw", c.LookAt.HeadMaxYaw},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %.3f", l.name, l.value)
		}
	}
	if c.Locomotion.ReferenceSpeed <= 0 {
		return fmt.Errorf("locomotion.reference_speed must be > 0, got %.3f", c.Locomotion.ReferenceSpeed)
	}
	if c.Locomotion.WalkThreshold < 0 {
		return fmt.Errorf("locomotion.walk_threshold must be >= 0, got %.3f", c.Locomotion.WalkThreshold)
	}
	if c.Locomotion.AccelLambda <= 0 || c.Locomotion.TurnLambda <= 0 {
		return fmt.Errorf("locomotion accel_lambda and turn_lambda must be > 0")
	}
	return nil
}
