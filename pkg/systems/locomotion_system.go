package systems

import (
	"log"
	"math"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/pose"
	"github.com/gonewx/avatarlab/pkg/utils"
)

// LocomotionSystem 速度平滑、位置积分与运动模式选择
//
// 每帧：
//  1. 实际速度以指数阻尼逼近期望速度
//  2. 积分地面位置，朝向沿最短弧转向行进方向
//  3. 测得速度高于阈值时切换到 walk，否则 idle（硬切换，无混合）
//  4. 步行强度 = 速度 / 参考速度
type LocomotionSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.LocomotionConfig
}

// NewLocomotionSystem 创建运动系统
func NewLocomotionSystem(em *ecs.EntityManager, cfg config.LocomotionConfig) *LocomotionSystem {
	return &LocomotionSystem{entityManager: em, cfg: cfg}
}

// Update 更新所有化身的速度、摆放与运动模式
// 参数:
//   - deltaTime: 自上次更新以来的时间（秒），<= 0 时不做任何事
func (s *LocomotionSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	entities := ecs.GetEntitiesWith2[
		*components.LocomotionComponent,
		*components.TransformComponent,
	](s.entityManager)

	for _, id := range entities {
		loco, _ := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		loco.VX = utils.Damp(loco.VX, loco.DesiredVX, s.cfg.AccelLambda, deltaTime)
		loco.VZ = utils.Damp(loco.VZ, loco.DesiredVZ, s.cfg.AccelLambda, deltaTime)
		tr.X += loco.VX * deltaTime
		tr.Z += loco.VZ * deltaTime

		loco.Speed = math.Hypot(loco.VX, loco.VZ)
		walking := loco.Speed > s.cfg.WalkThreshold
		if walking {
			// Yaw 为 0 时面向 +Z
			heading := math.Atan2(loco.VX, loco.VZ)
			tr.Yaw = utils.DampAngle(tr.Yaw, heading, s.cfg.TurnLambda, deltaTime)
		}

		avatar, ok := ecs.GetComponent[*components.AvatarComponent](s.entityManager, id)
		if !ok {
			continue
		}
		mode := pose.ModeIdle
		intensity := 0.0
		if walking {
			mode = pose.ModeWalk
			intensity = loco.Speed / s.cfg.ReferenceSpeed
		}
		if mode != avatar.Mode {
			log.Printf("[LocomotionSystem] %s: %s -> %s (speed=%.3f)", avatar.Name, avatar.Mode, mode, loco.Speed)
		}
		avatar.Mode = mode
		avatar.Intensity = intensity
	}
}
