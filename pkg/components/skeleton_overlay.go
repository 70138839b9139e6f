package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/rig"
)

// SkeletonOverlayComponent 调试叠加层的骨骼线段缓存
type SkeletonOverlayComponent struct {
	// Segments 本帧姿态下的世界坐标线段
	Segments []rig.Segment

	// Joints 保证节点的世界坐标
	Joints map[rig.PivotID]mgl64.Vec3
}
