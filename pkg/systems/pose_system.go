package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/pose"
)

// PoseSystem 每帧驱动所有化身骨架
//
// 更新顺序：
//  1. 根节点摆放（宿主拥有的水平位置与偏航）
//  2. 运动姿态（idle 或 walk）
//  3. 注视跟踪
//
// 所有化身完成 1、2 之后才开始 3，注视其他化身时读到的是
// 对方本帧运动姿态下的头部位置，与实体处理顺序无关。
type PoseSystem struct {
	entityManager *ecs.EntityManager
	animator      *pose.Animator

	// elapsed 实验室时钟（秒），所有化身共享
	elapsed float64
}

// NewPoseSystem 创建姿态系统
// 参数:
//   - em: EntityManager 实例
//   - animator: 姿态动画器（nil 时使用内置常量表）
func NewPoseSystem(em *ecs.EntityManager, animator *pose.Animator) *PoseSystem {
	if animator == nil {
		animator = pose.DefaultAnimator()
	}
	return &PoseSystem{entityManager: em, animator: animator}
}

// Elapsed 返回累计时钟
func (s *PoseSystem) Elapsed() float64 {
	return s.elapsed
}

// Update 推进时钟并写入所有化身的姿态
func (s *PoseSystem) Update(deltaTime float64) {
	if deltaTime > 0 {
		s.elapsed += deltaTime
	}

	entities := ecs.GetEntitiesWith2[
		*components.AvatarComponent,
		*components.TransformComponent,
	](s.entityManager)

	// 第一遍：摆放 + 运动姿态
	heads := make(map[ecs.EntityID]mgl64.Vec3, len(entities))
	for _, id := range entities {
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		r := avatar.Rig
		r.Root.Position[0] = tr.X
		r.Root.Position[2] = tr.Z
		r.Root.Rotation = mgl64.Vec3{0, tr.Yaw, 0}

		t := s.elapsed + avatar.PhaseOffset
		switch avatar.Mode {
		case pose.ModeWalk:
			s.animator.ApplyWalkPose(r, t, avatar.Intensity)
		default:
			s.animator.ApplyIdlePose(r, t)
		}
		heads[id] = r.Head.WorldPosition()
	}

	// 第二遍：注视跟踪
	for _, id := range entities {
		look, ok := ecs.GetComponent[*components.LookAtComponent](s.entityManager, id)
		if !ok || !look.Enabled {
			continue
		}
		target, ok := s.resolveTarget(id, look, heads)
		if !ok {
			continue
		}
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		s.animator.UpdateLookAt(avatar.Rig, target, look.Intensity)
	}
}

// resolveTarget 解析注视目标
// Follow 指向自身或已不存在的化身时跳过本帧注视
func (s *PoseSystem) resolveTarget(self ecs.EntityID, look *components.LookAtComponent, heads map[ecs.EntityID]mgl64.Vec3) (mgl64.Vec3, bool) {
	if look.Follow == 0 {
		return look.Target, true
	}
	if look.Follow == self {
		return mgl64.Vec3{}, false
	}
	head, ok := heads[look.Follow]
	return head, ok
}
