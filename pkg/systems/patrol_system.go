package systems

import (
	"log"
	"math"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

// PatrolSystem 驱动非玩家化身沿巡逻点循环行走
// 职责：
// - 朝当前巡逻点写入期望速度
// - 进入到达半径后切换到下一个点
// - 回到第一个点时累计圈数
type PatrolSystem struct {
	entityManager *ecs.EntityManager
}

// NewPatrolSystem 创建巡逻系统
func NewPatrolSystem(em *ecs.EntityManager) *PatrolSystem {
	return &PatrolSystem{entityManager: em}
}

// Update 更新所有巡逻化身的期望速度
// 参数:
//   - deltaTime: 自上次更新以来的时间（秒）
func (s *PatrolSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith3[
		*components.PatrolComponent,
		*components.LocomotionComponent,
		*components.TransformComponent,
	](s.entityManager)

	for _, id := range entities {
		patrol, _ := ecs.GetComponent[*components.PatrolComponent](s.entityManager, id)
		loco, _ := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		if len(patrol.Waypoints) == 0 {
			loco.DesiredVX, loco.DesiredVZ = 0, 0
			continue
		}
		if patrol.Current < 0 || patrol.Current >= len(patrol.Waypoints) {
			patrol.Current = 0
		}

		dx, dz, dist := s.offsetTo(patrol, tr)
		if dist <= patrol.ArriveRadius {
			s.advance(id, patrol)
			dx, dz, dist = s.offsetTo(patrol, tr)
		}

		if dist < 1e-9 {
			loco.DesiredVX, loco.DesiredVZ = 0, 0
			continue
		}
		loco.DesiredVX = dx / dist * patrol.Speed
		loco.DesiredVZ = dz / dist * patrol.Speed
	}
}

// offsetTo 返回到当前巡逻点的水平偏移与距离
func (s *PatrolSystem) offsetTo(p *components.PatrolComponent, tr *components.TransformComponent) (dx, dz, dist float64) {
	wp := p.Waypoints[p.Current]
	dx, dz = wp.X-tr.X, wp.Z-tr.Z
	return dx, dz, math.Hypot(dx, dz)
}

// advance 切换到下一个巡逻点
func (s *PatrolSystem) advance(id ecs.EntityID, p *components.PatrolComponent) {
	p.Current = (p.Current + 1) % len(p.Waypoints)
	if p.Current == 0 {
		p.Laps++
		log.Printf("[PatrolSystem] Entity %d completed lap %d", id, p.Laps)
	}
}
