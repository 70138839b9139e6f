package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/rig"
)

// SkeletonOverlaySystem 收集调试叠加层所需的世界坐标骨骼线段
//
// 只通过骨架的标识符表读取节点，必须在 PoseSystem 之后运行。
type SkeletonOverlaySystem struct {
	entityManager *ecs.EntityManager
	enabled       bool
}

// NewSkeletonOverlaySystem 创建叠加层系统（默认开启）
func NewSkeletonOverlaySystem(em *ecs.EntityManager) *SkeletonOverlaySystem {
	return &SkeletonOverlaySystem{entityManager: em, enabled: true}
}

// SetEnabled 开关叠加层；关闭时缓存被清空
func (s *SkeletonOverlaySystem) SetEnabled(enabled bool) {
	s.enabled = enabled
	if enabled {
		return
	}
	for _, id := range ecs.GetEntitiesWith1[*components.SkeletonOverlayComponent](s.entityManager) {
		ov, _ := ecs.GetComponent[*components.SkeletonOverlayComponent](s.entityManager, id)
		ov.Segments = nil
		ov.Joints = nil
	}
}

// Enabled 叠加层是否开启
func (s *SkeletonOverlaySystem) Enabled() bool {
	return s.enabled
}

// Update 刷新所有化身的叠加层缓存
func (s *SkeletonOverlaySystem) Update(deltaTime float64) {
	if !s.enabled {
		return
	}

	entities := ecs.GetEntitiesWith2[
		*components.AvatarComponent,
		*components.SkeletonOverlayComponent,
	](s.entityManager)

	for _, id := range entities {
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		ov, _ := ecs.GetComponent[*components.SkeletonOverlayComponent](s.entityManager, id)

		ov.Segments = rig.Skeleton(avatar.Rig)
		if ov.Joints == nil {
			ov.Joints = make(map[rig.PivotID]mgl64.Vec3)
		}
		// 每帧重建，已不可解析的节点不留旧坐标
		clear(ov.Joints)
		for _, pid := range rig.GuaranteedIDs() {
			if p, ok := avatar.Rig.WorldPosition(pid); ok {
				ov.Joints[pid] = p
			}
		}
	}
}
