package components

// TransformComponent 化身在地面上的摆放
//
// 只有水平位置和偏航由宿主控制；根节点的竖直起伏属于步行姿态。
// Yaw 为 0 时化身面向 +Z，正值向 +X 转。
type TransformComponent struct {
	X   float64
	Z   float64
	Yaw float64
}
