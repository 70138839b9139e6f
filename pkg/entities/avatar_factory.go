package entities

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/pose"
	"github.com/gonewx/avatarlab/pkg/rig"
)

// phaseStep 相邻化身的呼吸/步态相位差（秒）
const phaseStep = 0.9

// NewAvatarEntity 创建化身实体
//
// 骨架先于实体构建：预设非法或构建失败时不会留下半成品实体。
//
// 参数:
//   - em: 实体管理器
//   - builder: 骨架构建器（nil 时使用内置比例表）
//   - def: 布局文件中的化身定义
//   - phaseOffset: 该化身的时钟相位偏移（秒）
//
// 返回:
//   - ecs.EntityID: 创建的化身实体ID，失败返回 0
//   - error: 预设非法或骨架构建失败
//
// 注意：def.LookAt.FollowPlayer 需要玩家实体ID，由 NewLabAvatars 统一连接
func NewAvatarEntity(em *ecs.EntityManager, builder *rig.Builder, def config.LabAvatar, phaseOffset float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if builder == nil {
		builder = rig.DefaultBuilder()
	}

	preset, err := rig.ParsePreset(def.BodyType, def.SkinTone, def.PrimaryColor, def.Hair)
	if err != nil {
		return 0, fmt.Errorf("avatar '%s': %w", def.Name, err)
	}
	r, err := builder.Build(preset)
	if err != nil {
		return 0, fmt.Errorf("avatar '%s': %w", def.Name, err)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.AvatarComponent{
		Name:        def.Name,
		Rig:         r,
		Mode:        pose.ModeIdle,
		PhaseOffset: phaseOffset,
	})
	ecs.AddComponent(em, id, &components.TransformComponent{
		X:   def.Position.X,
		Z:   def.Position.Z,
		Yaw: def.Yaw,
	})
	ecs.AddComponent(em, id, &components.LocomotionComponent{})
	ecs.AddComponent(em, id, &components.SkeletonOverlayComponent{})

	if def.Player {
		ecs.AddComponent(em, id, &components.PlayerControlComponent{})
	}

	if def.Patrol != nil {
		waypoints := make([]components.Waypoint, len(def.Patrol.Waypoints))
		for i, wp := range def.Patrol.Waypoints {
			waypoints[i] = components.Waypoint{X: wp.X, Z: wp.Z}
		}
		ecs.AddComponent(em, id, &components.PatrolComponent{
			Waypoints:    waypoints,
			Speed:        def.Patrol.Speed,
			ArriveRadius: def.Patrol.ArriveRadius,
		})
	}

	if def.LookAt != nil {
		ecs.AddComponent(em, id, &components.LookAtComponent{
			Target:    mgl64.Vec3{def.LookAt.Target.X, def.LookAt.Target.Y, def.LookAt.Target.Z},
			Intensity: def.LookAt.Intensity,
			Enabled:   true,
		})
	}

	log.Printf("[AvatarFactory] Created avatar '%s' (entity %d, %s, player=%v)", def.Name, id, preset.BodyType, def.Player)
	return id, nil
}

// LabAvatars 布局加载后的实体索引
type LabAvatars struct {
	// IDs 按布局文件顺序排列的化身实体
	IDs []ecs.EntityID
	// Player 玩家化身（0 表示布局中没有玩家）
	Player ecs.EntityID
	// ByName 名称 → 实体
	ByName map[string]ecs.EntityID
}

// NewLabAvatars 按布局创建全部化身，并连接注视玩家的化身
//
// 任何一个化身创建失败时，已创建的实体会被立即清理，返回错误。
func NewLabAvatars(em *ecs.EntityManager, builder *rig.Builder, cfg *config.LabConfig) (*LabAvatars, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lab config cannot be nil")
	}

	lab := &LabAvatars{ByName: make(map[string]ecs.EntityID, len(cfg.Avatars))}
	var followers []ecs.EntityID
	for i, def := range cfg.Avatars {
		id, err := NewAvatarEntity(em, builder, def, float64(i)*phaseStep)
		if err != nil {
			for _, created := range lab.IDs {
				em.DestroyEntity(created)
			}
			em.RemoveMarkedEntities()
			return nil, fmt.Errorf("failed to create lab avatars: %w", err)
		}
		lab.IDs = append(lab.IDs, id)
		lab.ByName[def.Name] = id
		if def.Player {
			lab.Player = id
		}
		if def.LookAt != nil && def.LookAt.FollowPlayer {
			followers = append(followers, id)
		}
	}

	for _, id := range followers {
		look, _ := ecs.GetComponent[*components.LookAtComponent](em, id)
		if lab.Player == 0 {
			log.Printf("[AvatarFactory] Entity %d follows the player but the layout has none; look-at disabled", id)
			look.Enabled = false
			continue
		}
		look.Follow = lab.Player
	}
	return lab, nil
}
