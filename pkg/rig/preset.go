package rig

import (
	"fmt"
	"image/color"

	"github.com/gonewx/avatarlab/pkg/config"
)

// BodyType 体型预设，决定比例但不决定拓扑
type BodyType string

const (
	BodyMale   BodyType = config.BodyTypeMale
	BodyFemale BodyType = config.BodyTypeFemale
)

// ParseBodyType 解析体型字符串，未知值返回 *InvalidPresetError
func ParseBodyType(s string) (BodyType, error) {
	switch BodyType(s) {
	case BodyMale, BodyFemale:
		return BodyType(s), nil
	}
	return "", &InvalidPresetError{Field: "bodyType", Value: s, Reason: "must be 'male' or 'female'"}
}

// Preset 骨架构建参数
type Preset struct {
	BodyType     BodyType
	SkinTone     color.RGBA
	PrimaryColor color.RGBA
	IncludeHair  bool
}

// Validate 检查预设字段
//
// 颜色的 alpha 为 0 视为未设置（零值 color.RGBA），同样报错。
func (p Preset) Validate() error {
	if _, err := ParseBodyType(string(p.BodyType)); err != nil {
		return err
	}
	if p.SkinTone.A == 0 {
		return &InvalidPresetError{Field: "skinTone", Value: formatRGBA(p.SkinTone), Reason: "color is unset or fully transparent"}
	}
	if p.PrimaryColor.A == 0 {
		return &InvalidPresetError{Field: "primaryColor", Value: formatRGBA(p.PrimaryColor), Reason: "color is unset or fully transparent"}
	}
	return nil
}

// ParsePreset 从字符串字段构造预设（用于配置文件和命令行）
func ParsePreset(bodyType, skinTone, primaryColor string, includeHair bool) (Preset, error) {
	bt, err := ParseBodyType(bodyType)
	if err != nil {
		return Preset{}, err
	}
	skin, err := config.ParseHexColor(skinTone)
	if err != nil {
		return Preset{}, &InvalidPresetError{Field: "skinTone", Value: skinTone, Reason: err.Error()}
	}
	primary, err := config.ParseHexColor(primaryColor)
	if err != nil {
		return Preset{}, &InvalidPresetError{Field: "primaryColor", Value: primaryColor, Reason: err.Error()}
	}
	p := Preset{BodyType: bt, SkinTone: skin, PrimaryColor: primary, IncludeHair: includeHair}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func formatRGBA(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
