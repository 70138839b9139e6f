package components

import "image/color"

// GroundMarkerComponent 地面上的圆环标记
// 随 LifetimeComponent 的进度扩散并淡出
type GroundMarkerComponent struct {
	X, Z   float64
	Radius float64 // 初始半径（米）
	Color  color.RGBA
}
