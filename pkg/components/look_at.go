package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

// LookAtComponent 注视跟踪目标
type LookAtComponent struct {
	// Target 世界坐标目标（Follow 为 0 时使用）
	Target mgl64.Vec3

	// Follow 非 0 时注视该实体化身的头部
	Follow ecs.EntityID

	// Intensity 角度锥的缩放（0~1）
	Intensity float64

	// Enabled 关闭时跳过注视，胸腔与头部保持运动姿态
	Enabled bool
}
