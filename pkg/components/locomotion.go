package components

// LocomotionComponent 速度测量与平滑
type LocomotionComponent struct {
	// DesiredVX/DesiredVZ 期望速度（米/秒），由巡逻或玩家控制写入
	DesiredVX float64
	DesiredVZ float64

	// VX/VZ 平滑后的实际速度
	VX float64
	VZ float64

	// Speed 测得的水平速度
	Speed float64
}
