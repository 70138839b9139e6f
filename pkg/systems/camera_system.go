package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/utils"
)

// DefaultFocusDuration 对焦过渡的默认时长（秒）
const DefaultFocusDuration = 0.6

// CameraSystem 管理相机对焦与跟随
// 负责把相机目标点从当前位置平滑移动到被对焦的化身，之后持续跟随。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	camera        *utils.Camera
	cameraEntity  ecs.EntityID // 相机实体ID
}

// NewCameraSystem 创建相机系统
// 参数:
//   - em: EntityManager 实例
//   - camera: 场景持有的相机；对焦高度取其初始目标点的 Y
func NewCameraSystem(em *ecs.EntityManager, camera *utils.Camera) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		camera:        camera,
	}

	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		Height: camera.Target.Y(),
	})
	return cs
}

// Camera 返回被控制的相机
func (cs *CameraSystem) Camera() *utils.Camera {
	return cs.camera
}

// FocusOn 开始对焦到实体；duration <= 0 时立即到位
func (cs *CameraSystem) FocusOn(id ecs.EntityID, duration float64) {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return
	}
	dest, ok := cs.focusPoint(id, comp.Height)
	if !ok {
		log.Printf("[CameraSystem] Cannot focus entity %d: no transform", id)
		return
	}

	comp.Follow = id
	comp.From = cs.camera.Target
	comp.To = dest
	comp.Elapsed = 0
	comp.Duration = duration
	comp.IsAnimating = duration > 0
	if !comp.IsAnimating {
		cs.camera.Target = dest
	}
}

// Release 停止跟随，相机停在当前位置
func (cs *CameraSystem) Release() {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return
	}
	comp.Follow = 0
	comp.IsAnimating = false
}

// Following 返回当前跟随的实体（0 表示无）
func (cs *CameraSystem) Following() ecs.EntityID {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return 0
	}
	return comp.Follow
}

// IsAnimating 返回相机是否正在过渡中
func (cs *CameraSystem) IsAnimating() bool {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return ok && comp.IsAnimating
}

// Update 推进对焦过渡或跟随目标
func (cs *CameraSystem) Update(dt float64) {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok || comp.Follow == 0 {
		return
	}

	dest, ok := cs.focusPoint(comp.Follow, comp.Height)
	if !ok {
		// 被跟随的实体已销毁
		comp.Follow = 0
		comp.IsAnimating = false
		return
	}
	comp.To = dest

	if !comp.IsAnimating {
		cs.camera.Target = dest
		return
	}

	comp.Elapsed += dt
	progress := utils.Clamp(comp.Elapsed/comp.Duration, 0, 1)
	eased := utils.EaseInOutCubic(progress)
	cs.camera.Target = comp.From.Add(comp.To.Sub(comp.From).Mul(eased))
	if progress >= 1 {
		comp.IsAnimating = false
	}
}

// focusPoint 实体在地面上的位置抬高到对焦高度
func (cs *CameraSystem) focusPoint(id ecs.EntityID, height float64) (mgl64.Vec3, bool) {
	tr, ok := ecs.GetComponent[*components.TransformComponent](cs.entityManager, id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{tr.X, height, tr.Z}, true
}
