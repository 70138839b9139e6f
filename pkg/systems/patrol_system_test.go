package systems

import (
	"math"
	"testing"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

func addPatrol(em *ecs.EntityManager, id ecs.EntityID, speed float64, wps ...components.Waypoint) *components.PatrolComponent {
	p := &components.PatrolComponent{Waypoints: wps, Speed: speed, ArriveRadius: 0.1}
	ecs.AddComponent(em, id, p)
	return p
}

// TestPatrolSystemSteersTowardWaypoint 测试期望速度指向当前巡逻点
func TestPatrolSystemSteersTowardWaypoint(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestAvatar(t, em, "npc", 0, 0, 0)
	addPatrol(em, id, 0.8, components.Waypoint{X: 3, Z: 4}, components.Waypoint{X: 0, Z: 0})

	NewPatrolSystem(em).Update(1.0 / 60)

	loco := locomotionOf(em, id)
	if math.Abs(loco.DesiredVX-0.48) > eps || math.Abs(loco.DesiredVZ-0.64) > eps {
		t.Errorf("Expected desired velocity (0.48, 0.64), got (%.3f, %.3f)", loco.DesiredVX, loco.DesiredVZ)
	}
}

// TestPatrolSystemAdvancesAndCountsLaps 测试到达后切换巡逻点并计圈
func TestPatrolSystemAdvancesAndCountsLaps(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestAvatar(t, em, "npc", 0, 0, 0)
	patrol := addPatrol(em, id, 1, components.Waypoint{X: 0, Z: 0.05}, components.Waypoint{X: 2, Z: 0})
	ps := NewPatrolSystem(em)

	// 起点已在第一个点的到达半径内
	ps.Update(0.1)
	if patrol.Current != 1 {
		t.Fatalf("Expected to advance to waypoint 1, got %d", patrol.Current)
	}
	if loco := locomotionOf(em, id); loco.DesiredVX <= 0 {
		t.Errorf("Expected to head toward +X, got %.3f", loco.DesiredVX)
	}

	tr := transformOf(em, id)
	tr.X = 1.95
	ps.Update(0.1)
	if patrol.Current != 0 || patrol.Laps != 1 {
		t.Errorf("Expected wrap to waypoint 0 with 1 lap, got current=%d laps=%d", patrol.Current, patrol.Laps)
	}
}

// TestPatrolSystemWalksLoop 测试与运动系统联动时完整走完一圈
func TestPatrolSystemWalksLoop(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestAvatar(t, em, "npc", 0, 0, 0)
	patrol := addPatrol(em, id, 1.2,
		components.Waypoint{X: 0, Z: 0},
		components.Waypoint{X: 1.5, Z: 0},
		components.Waypoint{X: 1.5, Z: 1.5},
	)
	ps := NewPatrolSystem(em)
	ls := NewLocomotionSystem(em, config.DefaultMotionConfig().Locomotion)

	runFrames(60*20, 1.0/60, ps.Update, ls.Update)
	if patrol.Laps < 1 {
		t.Errorf("Expected at least one lap after 20s, got %d", patrol.Laps)
	}
}

// TestPatrolSystemEmpty 测试没有巡逻点时保持静止
func TestPatrolSystemEmpty(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestAvatar(t, em, "npc", 0, 0, 0)
	addPatrol(em, id, 1)
	loco := locomotionOf(em, id)
	loco.DesiredVX = 3

	NewPatrolSystem(em).Update(0.1)
	if loco.DesiredVX != 0 || loco.DesiredVZ != 0 {
		t.Errorf("Expected zero desired velocity, got (%.2f, %.2f)", loco.DesiredVX, loco.DesiredVZ)
	}
}
