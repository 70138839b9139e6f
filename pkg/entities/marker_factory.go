package entities

import (
	"image/color"

	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
)

// 点击行走标记的外观
const (
	markerLifetime = 0.8  // 秒
	markerRadius   = 0.15 // 米
)

var markerColor = color.RGBA{120, 220, 255, 255}

// NewGroundMarker 在地面 (x, z) 处创建一个限时圆环标记
func NewGroundMarker(em *ecs.EntityManager, x, z float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.GroundMarkerComponent{
		X:      x,
		Z:      z,
		Radius: markerRadius,
		Color:  markerColor,
	})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: markerLifetime})
	return id
}
