package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// 体型键名（与 rig.BodyType 的字符串值一致）
const (
	BodyTypeMale   = "male"
	BodyTypeFemale = "female"
)

// RigConfig 程序化骨架的比例配置
//
// 这是骨架构建唯一的常量表：不同体型只改变比例，不改变拓扑。
//
// 配置文件位置: data/avatar/proportions.yaml
type RigConfig struct {
	// BodyTypes 体型 -> 比例，必须同时包含 male 和 female
	BodyTypes map[string]BodyProportions `yaml:"body_types"`

	// Hair 可选头发的参数（所有体型共用）
	Hair HairProportions `yaml:"hair"`

	// Materials 非肤色/主色的固定材质参数
	Materials MaterialTable `yaml:"materials"`
}

// BodyProportions 单一体型的比例
// 所有长度单位为米，偏移均为局部坐标中的幅值，方向由构建代码决定
type BodyProportions struct {
	// 脊柱链：骨盆基准高度 + 逐级向上的局部 Y 偏移
	PelvisHeight float64 `yaml:"pelvis_height"`
	WaistOffset  float64 `yaml:"waist_offset"`
	ChestOffset  float64 `yaml:"chest_offset"`
	NeckOffset   float64 `yaml:"neck_offset"`
	HeadOffset   float64 `yaml:"head_offset"`

	// 肩关节挂在胸腔上：侧向偏移幅值、高度、前后偏移
	ShoulderWidth  float64 `yaml:"shoulder_width"`
	ShoulderHeight float64 `yaml:"shoulder_height"`
	ShoulderDepth  float64 `yaml:"shoulder_depth"`

	// 髋关节挂在骨盆上：侧向偏移幅值与向下偏移
	HipWidth float64 `yaml:"hip_width"`
	HipDrop  float64 `yaml:"hip_drop"`

	Arm   LimbProportions  `yaml:"arm"`
	Leg   LimbProportions  `yaml:"leg"`
	Torso TorsoProportions `yaml:"torso"`
	Head  HeadProportions  `yaml:"head"`

	// Breasts 胸部体积（仅女性体型，纯装饰，不影响拓扑）
	Breasts *BreastProportions `yaml:"breasts,omitempty"`
}

// LimbProportions 肢体（上段 -> 中间关节 -> 下段 -> 末端）
type LimbProportions struct {
	UpperLength float64 `yaml:"upper_length"`
	LowerLength float64 `yaml:"lower_length"`
	UpperRadius float64 `yaml:"upper_radius"`
	// LowerRatio 下段半径 = UpperRadius × LowerRatio
	LowerRatio float64 `yaml:"lower_ratio"`
	// JointRatio 关节球半径 = UpperRadius × JointRatio
	JointRatio float64 `yaml:"joint_ratio"`
}

// TorsoProportions 躯干体积的横向/纵深缩放
type TorsoProportions struct {
	PelvisScaleX float64 `yaml:"pelvis_scale_x"`
	WaistScaleX  float64 `yaml:"waist_scale_x"`
	ChestScaleX  float64 `yaml:"chest_scale_x"`
	Depth        float64 `yaml:"depth"`
}

// HeadProportions 头部体积
type HeadProportions struct {
	SkullRadius float64 `yaml:"skull_radius"`
	SkullScaleY float64 `yaml:"skull_scale_y"`
}

// BreastProportions 胸部体积参数
type BreastProportions struct {
	Radius  float64 `yaml:"radius"`
	Lateral float64 `yaml:"lateral"`
	Height  float64 `yaml:"height"`
	Forward float64 `yaml:"forward"`
}

// HairProportions 头发：一个发帽 + 固定数量的发丝
// 发丝位置按索引确定，不使用随机数
type HairProportions struct {
	CapRadius     float64 `yaml:"cap_radius"`
	CapHeight     float64 `yaml:"cap_height"`
	StrandCount   int     `yaml:"strand_count"`
	StrandSpacing float64 `yaml:"strand_spacing"`
	StrandLength  float64 `yaml:"strand_length"`
	StrandRadius  float64 `yaml:"strand_radius"`
	StrandTilt    float64 `yaml:"strand_tilt"`
	Color         string  `yaml:"color"`
}

// MaterialTable 材质参数表
type MaterialTable struct {
	Skin  MaterialParams `yaml:"skin"`
	Cloth MaterialParams `yaml:"cloth"`
	Hair  MaterialParams `yaml:"hair"`
	Visor MaterialParams `yaml:"visor"`
}

// MaterialParams 单个材质参数；Color 为空表示由预设提供颜色
type MaterialParams struct {
	Color     string  `yaml:"color,omitempty"`
	Roughness float64 `yaml:"roughness"`
	Metalness float64 `yaml:"metalness"`
}

// DefaultRigConfig 返回内置的规范比例表（与 data/avatar/proportions.yaml 一致）
func DefaultRigConfig() *RigConfig {
	return &RigConfig{
		BodyTypes: map[string]BodyProportions{
			BodyTypeMale: {
				PelvisHeight: 0.97, WaistOffset: 0.14, ChestOffset: 0.26, NeckOffset: 0.28, HeadOffset: 0.12,
				ShoulderWidth: 0.21, ShoulderHeight: 0.22, ShoulderDepth: 0.02,
				HipWidth: 0.095, HipDrop: 0.02,
				Arm:   LimbProportions{UpperLength: 0.30, LowerLength: 0.28, UpperRadius: 0.058, LowerRatio: 0.86, JointRatio: 1.08},
				Leg:   LimbProportions{UpperLength: 0.46, LowerLength: 0.46, UpperRadius: 0.092, LowerRatio: 0.88, JointRatio: 1.08},
				Torso: TorsoProportions{PelvisScaleX: 1.0, WaistScaleX: 1.15, ChestScaleX: 1.38, Depth: 0.90},
				Head:  HeadProportions{SkullRadius: 0.12, SkullScaleY: 1.22},
			},
			BodyTypeFemale: {
				PelvisHeight: 0.93, WaistOffset: 0.13, ChestOffset: 0.24, NeckOffset: 0.26, HeadOffset: 0.11,
				ShoulderWidth: 0.18, ShoulderHeight: 0.20, ShoulderDepth: 0.02,
				HipWidth: 0.115, HipDrop: 0.02,
				Arm:     LimbProportions{UpperLength: 0.28, LowerLength: 0.26, UpperRadius: 0.050, LowerRatio: 0.86, JointRatio: 1.08},
				Leg:     LimbProportions{UpperLength: 0.44, LowerLength: 0.44, UpperRadius: 0.082, LowerRatio: 0.88, JointRatio: 1.08},
				Torso:   TorsoProportions{PelvisScaleX: 1.15, WaistScaleX: 1.08, ChestScaleX: 1.20, Depth: 0.86},
				Head:    HeadProportions{SkullRadius: 0.12, SkullScaleY: 1.18},
				Breasts: &BreastProportions{Radius: 0.075, Lateral: 0.10, Height: 0.14, Forward: 0.12},
			},
		},
		Hair: HairProportions{
			CapRadius: 0.125, CapHeight: 0.10,
			StrandCount: 6, StrandSpacing: 0.018, StrandLength: 0.08, StrandRadius: 0.012, StrandTilt: 0.9,
			Color: "#1a1412",
		},
		Materials: MaterialTable{
			Skin:  MaterialParams{Roughness: 0.55, Metalness: 0.03},
			Cloth: MaterialParams{Roughness: 0.85, Metalness: 0.02},
			Hair:  MaterialParams{Roughness: 0.80, Metalness: 0.0},
			Visor: MaterialParams{Color: "#111111", Roughness: 0.15, Metalness: 0.5},
		},
	}
}

// LoadRigConfig 从 YAML 文件加载比例配置
//
// 参数:
//   - path: 配置文件路径（如 "data/avatar/proportions.yaml"）
//
// 返回:
//   - *RigConfig: 校验通过的配置
//   - error: 读取、解析或校验失败
func LoadRigConfig(path string) (*RigConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rig config %s: %w", path, err)
	}
	return ParseRigConfig(data)
}

// ParseRigConfig 从 YAML 字节解析比例配置（用于嵌入资源）
func ParseRigConfig(data []byte) (*RigConfig, error) {
	var cfg RigConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rig config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rig config: %w", err)
	}
	return &cfg, nil
}

// Validate 校验比例配置
//
// 除了正长度检查外，还强制两个跨体型关系（调参也不能打破）：
//   - 女性肩宽偏移 < 男性
//   - 女性髋宽偏移 > 男性
func (c *RigConfig) Validate() error {
	male, ok := c.BodyTypes[BodyTypeMale]
	if !ok {
		return fmt.Errorf("missing body type '%s'", BodyTypeMale)
	}
	female, ok := c.BodyTypes[BodyTypeFemale]
	if !ok {
		return fmt.Errorf("missing body type '%s'", BodyTypeFemale)
	}
	for name, bp := range c.BodyTypes {
		if name != BodyTypeMale && name != BodyTypeFemale {
			return fmt.Errorf("unknown body type '%s'", name)
		}
		if err := bp.validate(); err != nil {
			return fmt.Errorf("body type '%s': %w", name, err)
		}
	}
	if female.Breasts == nil {
		return fmt.Errorf("body type '%s' must define breasts", BodyTypeFemale)
	}
	if female.ShoulderWidth >= male.ShoulderWidth {
		return fmt.Errorf("female shoulder_width (%.3f) must be smaller than male (%.3f)",
			female.ShoulderWidth, male.ShoulderWidth)
	}
	if female.HipWidth <= male.HipWidth {
		return fmt.Errorf("female hip_width (%.3f) must be larger than male (%.3f)",
			female.HipWidth, male.HipWidth)
	}
	if err := c.Hair.validate(); err != nil {
		return fmt.Errorf("hair: %w", err)
	}
	if c.Materials.Visor.Color != "" {
		if _, err := ParseHexColor(c.Materials.Visor.Color); err != nil {
			return fmt.Errorf("materials.visor: %w", err)
		}
	}
	return nil
}

func (bp *BodyProportions) validate() error {
	positives := []struct {
		name  string
		value float64
	}{
		{"pelvis_height", bp.PelvisHeight},
		{"waist_offset", bp.WaistOffset},
		{"chest_offset", bp.ChestOffset},
		{"neck_offset", bp.NeckOffset},
		{"head_offset", bp.HeadOffset},
		{"shoulder_width", bp.ShoulderWidth},
		{"hip_width", bp.HipWidth},
		{"arm.upper_length", bp.Arm.UpperLength},
		{"arm.lower_length", bp.Arm.LowerLength},
		{"arm.upper_radius", bp.Arm.UpperRadius},
		{"arm.lower_ratio", bp.Arm.LowerRatio},
		{"arm.joint_ratio", bp.Arm.JointRatio},
		{"leg.upper_length", bp.Leg.UpperLength},
		{"leg.lower_length", bp.Leg.LowerLength},
		{"leg.upper_radius", bp.Leg.UpperRadius},
		{"leg.lower_ratio", bp.Leg.LowerRatio},
		{"leg.joint_ratio", bp.Leg.JointRatio},
		{"torso.pelvis_scale_x", bp.Torso.PelvisScaleX},
		{"torso.waist_scale_x", bp.Torso.WaistScaleX},
		{"torso.chest_scale_x", bp.Torso.ChestScaleX},
		{"torso.depth", bp.Torso.Depth},
		{"head.skull_radius", bp.Head.SkullRadius},
		{"head.skull_scale_y", bp.Head.SkullScaleY},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %.3f", p.name, p.value)
		}
	}
	if bp.Breasts != nil && bp.Breasts.Radius <= 0 {
		return fmt.Errorf("breasts.radius must be > 0, got %.3f", bp.Breasts.Radius)
	}
	return nil
}

func (h *HairProportions) validate() error {
	if h.CapRadius <= 0 {
		return fmt.Errorf("cap_radius must be > 0, got %.3f", h.CapRadius)
	}
	if h.StrandCount < 0 {
		return fmt.Errorf("strand_count must be >= 0, got %d", h.StrandCount)
	}
	if h.StrandCount > 0 && (h.StrandLength <= 0 || h.StrandRadius <= 0) {
		return fmt.Errorf("strand_length and strand_radius must be > 0 when strands are enabled")
	}
	if _, err := ParseHexColor(h.Color); err != nil {
		return err
	}
	return nil
}

// Proportions 返回指定体型的比例
func (c *RigConfig) Proportions(bodyType string) (BodyProportions, bool) {
	bp, ok := c.BodyTypes[bodyType]
	return bp, ok
}

// ParseHexColor 解析 "#rrggbb" 或 "#rrggbbaa" 颜色字符串
func ParseHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	a := uint8(0xff)
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
