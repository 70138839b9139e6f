package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/components"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/entities"
	"github.com/gonewx/avatarlab/pkg/game"
	"github.com/gonewx/avatarlab/pkg/pose"
	"github.com/gonewx/avatarlab/pkg/rig"
	"github.com/gonewx/avatarlab/pkg/systems"
	"github.com/gonewx/avatarlab/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// LabSceneName 场景工厂使用的名称
const LabSceneName = "lab"

var backgroundColor = color.RGBA{32, 36, 44, 255}

const (
	// cursorTargetHeight 光标注视点的高度（米）
	cursorTargetHeight = 1.4
	// walkTargetRadius 点击行走的到达半径（米）
	walkTargetRadius = 0.1
)

// LookAtMode 非玩家化身的注视方式，按 T 循环切换
type LookAtMode int

const (
	// LookAtLayout 使用布局文件中的注视设定
	LookAtLayout LookAtMode = iota
	// LookAtCursor 所有化身注视光标下的地面点
	LookAtCursor
	// LookAtOff 关闭注视
	LookAtOff

	lookAtModeCount
)

// String 返回模式名称
func (m LookAtMode) String() string {
	switch m {
	case LookAtLayout:
		return "layout"
	case LookAtCursor:
		return "cursor"
	case LookAtOff:
		return "off"
	}
	return "unknown"
}

// LabScene 化身实验室
//
// 持有 EntityManager 与全部系统，每帧依次执行：
// 玩家控制 → 巡逻 → 运动 → 姿态 → 骨骼叠加层 → 相机 → 生命周期。
type LabScene struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	bundle       *config.Bundle

	entityManager *ecs.EntityManager
	avatars       *entities.LabAvatars
	camera        *utils.Camera

	playerControlSystem   *systems.PlayerControlSystem
	patrolSystem          *systems.PatrolSystem
	locomotionSystem      *systems.LocomotionSystem
	poseSystem            *systems.PoseSystem
	skeletonOverlaySystem *systems.SkeletonOverlaySystem
	cameraSystem          *systems.CameraSystem
	lifetimeSystem        *systems.LifetimeSystem
	renderSystem          *systems.AvatarRenderSystem

	// layoutLookAt 布局文件中的注视设定（切换模式后用于恢复）
	layoutLookAt map[ecs.EntityID]components.LookAtComponent

	lookAtMode  LookAtMode
	cursorPoint mgl64.Vec3
	focusIndex  int // -1 表示自由相机
	paused      bool
	showHelp    bool

	drag       *utils.DragTracker
	walkTarget *mgl64.Vec2 // 点击行走的目标（世界 X/Z）
}

// NewLabScene 创建实验室场景
//
// 参数:
//   - sm: 场景管理器（可为 nil）
//   - settings: 查看器偏好（nil 时使用内存中的默认值）
//   - bundle: 已加载的配置
func NewLabScene(sm *game.SceneManager, settings *game.SettingsManager, bundle *config.Bundle) (*LabScene, error) {
	if bundle == nil || bundle.Rig == nil || bundle.Motion == nil || bundle.Lab == nil {
		return nil, fmt.Errorf("lab scene requires rig, motion and lab configs")
	}
	if settings == nil {
		settings, _ = game.NewSettingsManager(nil)
	}

	builder, err := rig.NewBuilder(bundle.Rig)
	if err != nil {
		return nil, fmt.Errorf("invalid rig config: %w", err)
	}
	animator, err := pose.NewAnimator(bundle.Motion)
	if err != nil {
		return nil, fmt.Errorf("invalid motion config: %w", err)
	}

	em := ecs.NewEntityManager()
	avatars, err := entities.NewLabAvatars(em, builder, bundle.Lab)
	if err != nil {
		return nil, err
	}

	lab := bundle.Lab
	prefs := settings.GetSettings()
	zoom := lab.Camera.Zoom
	if prefs.Zoom > 0 {
		zoom = prefs.Zoom
	}
	camera := utils.NewCamera(prefs.CameraYaw, prefs.CameraPitch, zoom,
		mgl64.Vec3{lab.Camera.Target.X, lab.Camera.Target.Y, lab.Camera.Target.Z},
		lab.Window.Width, lab.Window.Height)

	loco := bundle.Motion.Locomotion
	s := &LabScene{
		sceneManager:          sm,
		settings:              settings,
		bundle:                bundle,
		entityManager:         em,
		avatars:               avatars,
		camera:                camera,
		playerControlSystem:   systems.NewPlayerControlSystem(em, loco),
		patrolSystem:          systems.NewPatrolSystem(em),
		locomotionSystem:      systems.NewLocomotionSystem(em, loco),
		poseSystem:            systems.NewPoseSystem(em, animator),
		skeletonOverlaySystem: systems.NewSkeletonOverlaySystem(em),
		cameraSystem:          systems.NewCameraSystem(em, camera),
		lifetimeSystem:        systems.NewLifetimeSystem(em),
		renderSystem:          systems.NewAvatarRenderSystem(em, camera),
		layoutLookAt:          make(map[ecs.EntityID]components.LookAtComponent),
		focusIndex:            -1,
		showHelp:              true,
		drag:                  utils.NewDragTracker(ebiten.MouseButtonRight),
	}

	for _, id := range ecs.GetEntitiesWith1[*components.LookAtComponent](em) {
		look, _ := ecs.GetComponent[*components.LookAtComponent](em, id)
		s.layoutLookAt[id] = *look
	}

	s.SetShowSkeleton(prefs.ShowSkeleton)
	s.SetShowVolumes(prefs.ShowVolumes)
	s.renderSystem.ShowLabels = prefs.ShowLabels

	if avatars.Player != 0 {
		s.focusIndex = s.indexOf(avatars.Player)
		s.cameraSystem.FocusOn(avatars.Player, 0)
	}

	// 先求一次姿态，第一帧绘制时骨架已就位
	s.step(0)

	log.Printf("[LabScene] Lab ready: %d avatars, player=%d", len(avatars.IDs), avatars.Player)
	return s, nil
}

// Update 处理输入并推进一帧
func (s *LabScene) Update(deltaTime float64) {
	s.handleInput()
	if s.paused {
		deltaTime = 0
	}
	s.step(deltaTime)
}

// step 按固定顺序执行所有系统
func (s *LabScene) step(dt float64) {
	s.playerControlSystem.Update(dt)
	s.patrolSystem.Update(dt)
	s.locomotionSystem.Update(dt)
	s.poseSystem.Update(dt)
	s.skeletonOverlaySystem.Update(dt)
	s.cameraSystem.Update(dt)
	s.lifetimeSystem.Update(dt)
	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制场景
func (s *LabScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.renderSystem.Draw(screen)
	s.drawHUD(screen)
}

func (s *LabScene) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("TPS %.0f  t=%.2fs  look-at: %s", ebiten.ActualTPS(), s.poseSystem.Elapsed(), s.lookAtMode),
	}
	if s.paused {
		lines = append(lines, "PAUSED")
	}
	if s.avatars.Player != 0 {
		avatar, _ := ecs.GetComponent[*components.AvatarComponent](s.entityManager, s.avatars.Player)
		loco, _ := ecs.GetComponent[*components.LocomotionComponent](s.entityManager, s.avatars.Player)
		lines = append(lines, fmt.Sprintf("%s: %s  speed %.2f m/s  intensity %.2f",
			avatar.Name, avatar.Mode, loco.Speed, avatar.Intensity))
	}
	if s.showHelp {
		lines = append(lines,
			"WASD move  Space auto-walk  Tab focus  Esc free camera",
			"Q/E orbit  R/F pitch  wheel/+/- zoom  T look-at mode",
			"K skeleton  V volumes  L labels  P pause  H help",
		)
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}
}

// SaveOnExit 保存查看器偏好
func (s *LabScene) SaveOnExit() bool {
	s.settings.CaptureCamera(s.camera)
	if err := s.settings.Save(); err != nil {
		log.Printf("[LabScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

// EntityManager 返回场景的实体管理器
func (s *LabScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Avatars 返回布局索引
func (s *LabScene) Avatars() *entities.LabAvatars {
	return s.avatars
}

// Camera 返回场景相机
func (s *LabScene) Camera() *utils.Camera {
	return s.camera
}

// SetShowSkeleton 开关骨骼叠加层
func (s *LabScene) SetShowSkeleton(show bool) {
	s.renderSystem.ShowSkeleton = show
	s.skeletonOverlaySystem.SetEnabled(show)
	s.settings.SetShowSkeleton(show)
}

// SetShowVolumes 开关体积显示
func (s *LabScene) SetShowVolumes(show bool) {
	s.renderSystem.ShowVolumes = show
	s.settings.SetShowVolumes(show)
}

// SetShowLabels 开关名称标签
func (s *LabScene) SetShowLabels(show bool) {
	s.renderSystem.ShowLabels = show
	s.settings.SetShowLabels(show)
}

// SetPaused 暂停或继续时钟
func (s *LabScene) SetPaused(paused bool) {
	s.paused = paused
}

// ToggleAutoWalk 切换玩家化身的自动行走
func (s *LabScene) ToggleAutoWalk() {
	ctrl, ok := ecs.GetComponent[*components.PlayerControlComponent](s.entityManager, s.avatars.Player)
	if !ok {
		return
	}
	ctrl.AutoWalk = !ctrl.AutoWalk
	log.Printf("[LabScene] Auto-walk: %v", ctrl.AutoWalk)
}

// SetPlayerIntent 写入玩家的屏幕空间移动意图（right/forward ∈ [-1, 1]）
// 意图按相机偏航换算为世界方向，W 总是远离相机。
// 有键盘输入时取消点击行走；没有时朝点击目标前进。
func (s *LabScene) SetPlayerIntent(right, forward float64) {
	ctrl, ok := ecs.GetComponent[*components.PlayerControlComponent](s.entityManager, s.avatars.Player)
	if !ok {
		return
	}
	if right != 0 || forward != 0 {
		s.walkTarget = nil
		ctrl.MoveX, ctrl.MoveZ = CameraRelative(s.camera.Yaw, right, forward)
		return
	}
	ctrl.MoveX, ctrl.MoveZ = 0, 0
	if s.walkTarget == nil {
		return
	}
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.avatars.Player)
	if !ok {
		return
	}
	dx, dz := s.walkTarget.X()-tr.X, s.walkTarget.Y()-tr.Z
	dist := math.Hypot(dx, dz)
	if dist <= walkTargetRadius {
		s.walkTarget = nil
		return
	}
	ctrl.MoveX, ctrl.MoveZ = dx/dist, dz/dist
}

// WalkPlayerTo 让玩家化身走向地面上的一点
func (s *LabScene) WalkPlayerTo(x, z float64) {
	if s.avatars.Player == 0 {
		return
	}
	s.walkTarget = &mgl64.Vec2{x, z}
	entities.NewGroundMarker(s.entityManager, x, z)
}

// WalkTarget 返回当前点击行走目标
func (s *LabScene) WalkTarget() (mgl64.Vec2, bool) {
	if s.walkTarget == nil {
		return mgl64.Vec2{}, false
	}
	return *s.walkTarget, true
}

// CameraRelative 把屏幕空间的 (right, forward) 换算为世界 X/Z
func CameraRelative(cameraYaw, right, forward float64) (x, z float64) {
	sy, cy := math.Sincos(cameraYaw)
	// 屏幕右方 = (cos, -sin)，远离相机 = (-sin, -cos)
	x = right*cy - forward*sy
	z = -right*sy - forward*cy
	return x, z
}

// CycleFocus 相机依次对焦下一个化身
func (s *LabScene) CycleFocus() {
	if len(s.avatars.IDs) == 0 {
		return
	}
	s.focusIndex = (s.focusIndex + 1) % len(s.avatars.IDs)
	s.cameraSystem.FocusOn(s.avatars.IDs[s.focusIndex], systems.DefaultFocusDuration)
}

// FreeCamera 停止跟随
func (s *LabScene) FreeCamera() {
	s.focusIndex = -1
	s.cameraSystem.Release()
}

// CycleLookAt 切换注视模式：布局 → 光标 → 关闭
func (s *LabScene) CycleLookAt() {
	s.SetLookAtMode((s.lookAtMode + 1) % lookAtModeCount)
}

// SetLookAtMode 设置注视模式
func (s *LabScene) SetLookAtMode(mode LookAtMode) {
	s.lookAtMode = mode
	log.Printf("[LabScene] Look-at mode: %s", mode)

	switch mode {
	case LookAtLayout:
		for _, id := range s.avatars.IDs {
			if layout, ok := s.layoutLookAt[id]; ok {
				restored := layout
				ecs.AddComponent(s.entityManager, id, &restored)
			} else {
				ecs.RemoveComponent[*components.LookAtComponent](s.entityManager, id)
			}
		}
	case LookAtCursor:
		for _, id := range s.avatars.IDs {
			ecs.AddComponent(s.entityManager, id, &components.LookAtComponent{
				Target:    s.cursorPoint,
				Intensity: 1,
				Enabled:   true,
			})
		}
	case LookAtOff:
		for _, id := range s.avatars.IDs {
			ecs.RemoveComponent[*components.LookAtComponent](s.entityManager, id)
		}
	}
}

// SetCursorTarget 更新光标注视点（仅在光标模式下生效）
func (s *LabScene) SetCursorTarget(p mgl64.Vec3) {
	s.cursorPoint = p
	if s.lookAtMode != LookAtCursor {
		return
	}
	for _, id := range ecs.GetEntitiesWith1[*components.LookAtComponent](s.entityManager) {
		look, _ := ecs.GetComponent[*components.LookAtComponent](s.entityManager, id)
		look.Target = p
	}
}

func (s *LabScene) indexOf(id ecs.EntityID) int {
	for i, e := range s.avatars.IDs {
		if e == id {
			return i
		}
	}
	return -1
}
