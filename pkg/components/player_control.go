package components

// PlayerControlComponent 键盘驱动的化身
//
// 场景每帧写入输入方向，PlayerControlSystem 将其换算为期望速度。
type PlayerControlComponent struct {
	// MoveX/MoveZ 输入方向（世界坐标，未归一化）
	MoveX float64
	MoveZ float64

	// AutoWalk 为 true 时沿当前朝向持续前进
	AutoWalk bool
}
