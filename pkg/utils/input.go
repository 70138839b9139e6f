package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置
	CurrentX, CurrentY int
	// DeltaX, DeltaY 相对上一帧的位移
	DeltaX, DeltaY int
}

// DragTracker 跟踪指针拖拽，用于鼠标/触摸环绕相机
//
// Update 读取 ebiten 输入；Step 是不依赖输入设备的状态机本体。
type DragTracker struct {
	// Button 参与拖拽的鼠标按键
	Button ebiten.MouseButton

	info DragInfo
}

// NewDragTracker 创建拖拽跟踪器
func NewDragTracker(button ebiten.MouseButton) *DragTracker {
	return &DragTracker{Button: button}
}

// Update 每帧调用一次
func (d *DragTracker) Update() {
	pressed, x, y := d.pointer()
	d.Step(pressed, x, y)
}

// pointer 当前指针状态，单指触摸优先于鼠标
func (d *DragTracker) pointer() (pressed bool, x, y int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y = ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}
	x, y = ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(d.Button), x, y
}

// Step 推进一帧
func (d *DragTracker) Step(pressed bool, x, y int) {
	d.info.DeltaX, d.info.DeltaY = 0, 0

	switch d.info.State {
	case DragStateNone:
		if pressed {
			d.info = DragInfo{State: DragStateStarted, StartX: x, StartY: y, CurrentX: x, CurrentY: y}
		}

	case DragStateStarted, DragStateDragging:
		if !pressed {
			d.info.State = DragStateEnded
			return
		}
		d.info.State = DragStateDragging
		d.info.DeltaX, d.info.DeltaY = x-d.info.CurrentX, y-d.info.CurrentY
		d.info.CurrentX, d.info.CurrentY = x, y

	case DragStateEnded:
		// 结束状态只持续一帧
		d.Reset()
		if pressed {
			d.info = DragInfo{State: DragStateStarted, StartX: x, StartY: y, CurrentX: x, CurrentY: y}
		}
	}
}

// Reset 重置拖拽状态
func (d *DragTracker) Reset() {
	d.info = DragInfo{}
}

// GetState 获取当前拖拽状态
func (d *DragTracker) GetState() DragState {
	return d.info.State
}

// GetInfo 获取完整拖拽信息
func (d *DragTracker) GetInfo() DragInfo {
	return d.info
}

// IsDragging 是否正在拖拽
func (d *DragTracker) IsDragging() bool {
	return d.info.State == DragStateDragging
}

// Delta 本帧位移
func (d *DragTracker) Delta() (dx, dy int) {
	return d.info.DeltaX, d.info.DeltaY
}

// GetDragDistance 从起点到当前位置的距离
func (d *DragTracker) GetDragDistance() (dx, dy int) {
	return d.info.CurrentX - d.info.StartX, d.info.CurrentY - d.info.StartY
}

// IsJustTouchedOrClicked 检查是否刚刚发生左键点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// GetPointerPosition 获取当前指针位置（触摸优先）
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}
