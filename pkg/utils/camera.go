package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 相机俯仰范围（弧度），超出后正交投影会退化
const (
	MinCameraPitch = -0.2
	MaxCameraPitch = 1.3
	MinCameraZoom  = 40.0
	MaxCameraZoom  = 600.0
)

// Camera 环绕目标点的正交相机
//
// 视图空间：x 向右，y 向上，z 朝向相机（越大越近）。
// Yaw 为 0、Pitch 为 0 时相机位于 +Z 方向看向 -Z，即正对化身正面。
type Camera struct {
	Yaw    float64
	Pitch  float64
	Zoom   float64 // 像素/米
	Target mgl64.Vec3

	ScreenWidth  int
	ScreenHeight int
}

// NewCamera 创建相机，俯仰与缩放会被限制在合法范围内
func NewCamera(yaw, pitch, zoom float64, target mgl64.Vec3, w, h int) *Camera {
	c := &Camera{Yaw: yaw, Target: target, ScreenWidth: w, ScreenHeight: h}
	c.SetPitch(pitch)
	c.SetZoom(zoom)
	return c
}

// SetPitch 设置俯仰
func (c *Camera) SetPitch(p float64) {
	c.Pitch = Clamp(p, MinCameraPitch, MaxCameraPitch)
}

// SetZoom 设置缩放
func (c *Camera) SetZoom(z float64) {
	c.Zoom = Clamp(z, MinCameraZoom, MaxCameraZoom)
}

// Orbit 绕目标旋转
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = WrapAngle(c.Yaw + dYaw)
	c.SetPitch(c.Pitch + dPitch)
}

// View 返回世界 → 视图空间的旋转平移矩阵
func (c *Camera) View() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(c.Pitch).Mul4(mgl64.HomogRotate3DY(-c.Yaw))
	return rot.Mul4(mgl64.Translate3D(-c.Target.X(), -c.Target.Y(), -c.Target.Z()))
}

// ToView 将世界坐标变换到视图空间
func (c *Camera) ToView(p mgl64.Vec3) mgl64.Vec3 {
	return c.View().Mul4x1(p.Vec4(1)).Vec3()
}

// Project 世界坐标 → 屏幕像素，depth 越大越靠近相机
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64) {
	v := c.ToView(p)
	x = float64(c.ScreenWidth)/2 + v.X()*c.Zoom
	y = float64(c.ScreenHeight)/2 - v.Y()*c.Zoom
	return x, y, v.Z()
}

// ProjectLength 世界长度 → 屏幕像素（正交投影下与位置无关）
func (c *Camera) ProjectLength(l float64) float64 {
	return math.Abs(l) * c.Zoom
}

// Unproject 屏幕像素 → 地面（y=0）上的世界坐标
// 相机几乎水平时地面不可见，返回 ok=false
func (c *Camera) Unproject(sx, sy float64) (p mgl64.Vec3, ok bool) {
	if math.Abs(math.Sin(c.Pitch)) < 1e-3 {
		return mgl64.Vec3{}, false
	}
	inv := c.View().Inv()
	vx := (sx - float64(c.ScreenWidth)/2) / c.Zoom
	vy := -(sy - float64(c.ScreenHeight)/2) / c.Zoom

	// 视图空间中的射线 (vx, vy, t)·沿 -z 方向，求与世界 y=0 的交点
	origin := inv.Mul4x1(mgl64.Vec4{vx, vy, 0, 1}).Vec3()
	dir := inv.Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3()
	if math.Abs(dir.Y()) < 1e-9 {
		return mgl64.Vec3{}, false
	}
	t := -origin.Y() / dir.Y()
	return origin.Add(dir.Mul(t)), true
}
