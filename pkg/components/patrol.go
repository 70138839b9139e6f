package components

// Waypoint 地面上的巡逻点
type Waypoint struct {
	X, Z float64
}

// PatrolComponent 按顺序循环走过一组巡逻点
type PatrolComponent struct {
	Waypoints []Waypoint

	// Current 当前目标点索引
	Current int

	// Speed 巡逻速度（米/秒）
	Speed float64

	// ArriveRadius 距目标点小于此值即视为到达
	ArriveRadius float64

	// Laps 已完成的完整圈数
	Laps int
}
