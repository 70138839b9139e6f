package scenes

import (
	"github.com/gonewx/avatarlab/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 相机操作速率
const (
	orbitKeySpeed  = 1.6   // 弧度/秒
	orbitDragScale = 0.008 // 弧度/像素
	zoomStep       = 1.1
)

// handleInput 读取键盘、鼠标与触摸输入
func (s *LabScene) handleInput() {
	const dt = 1.0 / 60.0

	var right, forward float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		right++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		right--
	}
	s.SetPlayerIntent(right, forward)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.ToggleAutoWalk()
	}

	// 显示开关
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		s.SetShowSkeleton(!s.renderSystem.ShowSkeleton)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		s.SetShowVolumes(!s.renderSystem.ShowVolumes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		s.SetShowLabels(!s.renderSystem.ShowLabels)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.showHelp = !s.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.SetPaused(!s.paused)
	}

	// 相机
	var dYaw, dPitch float64
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		dYaw -= orbitKeySpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		dYaw += orbitKeySpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyR) {
		dPitch += orbitKeySpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyF) {
		dPitch -= orbitKeySpeed * dt
	}
	s.drag.Update()
	if s.drag.IsDragging() {
		dx, dy := s.drag.Delta()
		dYaw -= float64(dx) * orbitDragScale
		dPitch += float64(dy) * orbitDragScale
	}
	if dYaw != 0 || dPitch != 0 {
		s.camera.Orbit(dYaw, dPitch)
	}

	_, wheel := ebiten.Wheel()
	switch {
	case wheel > 0 || inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		s.camera.SetZoom(s.camera.Zoom * zoomStep)
	case wheel < 0 || inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		s.camera.SetZoom(s.camera.Zoom / zoomStep)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.CycleFocus()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.FreeCamera()
	}

	// 注视
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.CycleLookAt()
	}
	if s.lookAtMode == LookAtCursor {
		x, y := utils.GetPointerPosition()
		if p, ok := s.camera.Unproject(float64(x), float64(y)); ok {
			// 注视点抬到头部高度附近
			p[1] = cursorTargetHeight
			s.SetCursorTarget(p)
		}
	}
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		if p, ok := s.camera.Unproject(float64(x), float64(y)); ok {
			s.WalkPlayerTo(p[0], p[2])
		}
	}
}
