package systems

import (
	"math"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

// PlayerControlSystem 将键盘意图换算为玩家化身的期望速度
//
// 输入方向由场景每帧写入 PlayerControlComponent；
// 本系统只负责归一化与缩放，平滑与积分交给 LocomotionSystem。
type PlayerControlSystem struct {
	entityManager *ecs.EntityManager
	maxSpeed      float64
}

// NewPlayerControlSystem 创建玩家控制系统
// 参数:
//   - em: EntityManager 实例
//   - cfg: 宿主运动常量（使用 MaxWalkSpeed）
func NewPlayerControlSystem(em *ecs.EntityManager, cfg config.LocomotionConfig) *PlayerControlSystem {
	return &PlayerControlSystem{
		entityManager: em,
		maxSpeed:      cfg.MaxWalkSpeed,
	}
}

// Update 更新玩家化身的期望速度
func (s *PlayerControlSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[
		*components.PlayerControlComponent,
		*components.LocomotionComponent,
		*components.TransformComponent,
	](s.entityManager)

	for _, id := range entities {
		ctrl, _ := ecs.GetComponent[*components.PlayerControlComponent](s.entityManager, id)
		loco, _ := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		dx, dz := ctrl.MoveX, ctrl.MoveZ
		if dx == 0 && dz == 0 && ctrl.AutoWalk {
			// 自动行走：沿当前朝向前进
			dx, dz = math.Sin(tr.Yaw), math.Cos(tr.Yaw)
		}

		// 斜向输入不应比单轴更快
		if l := math.Hypot(dx, dz); l > 1 {
			dx, dz = dx/l, dz/l
		}
		loco.DesiredVX = dx * s.maxSpeed
		loco.DesiredVZ = dz * s.maxSpeed
	}
}
