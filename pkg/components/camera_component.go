package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

// CameraComponent 实验室相机的对焦状态
//
// 相机本身（utils.Camera）由场景持有；此组件只记录对焦过渡：
// 从 From 缓动到 To，完成后持续跟随 Follow 实体。
type CameraComponent struct {
	// Follow 对焦的化身实体（0 表示不跟随）
	Follow ecs.EntityID

	// From/To 当前过渡的起止目标点（世界坐标）
	From mgl64.Vec3
	To   mgl64.Vec3

	// Elapsed/Duration 过渡进度（秒）
	Elapsed  float64
	Duration float64

	// IsAnimating 是否正在过渡中
	IsAnimating bool

	// Height 对焦点离地高度（米），跟随时保持不变
	Height float64
}
