package systems

import (
	"testing"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/entities"
)

const eps = 1e-9

// newTestAvatar 创建一个带完整组件组合的化身实体
func newTestAvatar(t *testing.T, em *ecs.EntityManager, name string, x, z, yaw float64) ecs.EntityID {
	t.Helper()
	id, err := entities.NewAvatarEntity(em, nil, config.LabAvatar{
		Name:         name,
		BodyType:     "male",
		SkinTone:     "#d8b59a",
		PrimaryColor: "#2a2f38",
		Hair:         true,
		Position:     config.Point2{X: x, Z: z},
		Yaw:          yaw,
	}, 0)
	if err != nil {
		t.Fatalf("failed to create avatar: %v", err)
	}
	return id
}

func locomotionOf(em *ecs.EntityManager, id ecs.EntityID) *components.LocomotionComponent {
	c, _ := ecs.GetComponent[*components.LocomotionComponent](em, id)
	return c
}

func transformOf(em *ecs.EntityManager, id ecs.EntityID) *components.TransformComponent {
	c, _ := ecs.GetComponent[*components.TransformComponent](em, id)
	return c
}

func avatarOf(em *ecs.EntityManager, id ecs.EntityID) *components.AvatarComponent {
	c, _ := ecs.GetComponent[*components.AvatarComponent](em, id)
	return c
}

// runFrames 以固定步长推进 n 帧
func runFrames(n int, dt float64, update ...func(float64)) {
	for i := 0; i < n; i++ {
		for _, u := range update {
			u(dt)
		}
	}
}
