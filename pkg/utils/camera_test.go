package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestCameraProjectFront 测试正面视角下的轴向
func TestCameraProjectFront(t *testing.T) {
	c := NewCamera(0, 0, 100, mgl64.Vec3{0, 1, 0}, 800, 600)

	tests := []struct {
		name       string
		world      mgl64.Vec3
		x, y, dpth float64
	}{
		{"目标点在屏幕中心", mgl64.Vec3{0, 1, 0}, 400, 300, 0},
		{"+X 在右侧", mgl64.Vec3{1, 1, 0}, 500, 300, 0},
		{"+Y 在上方", mgl64.Vec3{0, 2, 0}, 400, 200, 0},
		{"+Z 朝向相机", mgl64.Vec3{0, 1, 1}, 400, 300, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, d := c.Project(tt.world)
			if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 || math.Abs(d-tt.dpth) > 1e-9 {
				t.Errorf("Project(%v) = (%.3f, %.3f, %.3f), 期望 (%.3f, %.3f, %.3f)",
					tt.world, x, y, d, tt.x, tt.y, tt.dpth)
			}
		})
	}
}

// TestCameraYawOrbit 测试相机绕到化身右侧
func TestCameraYawOrbit(t *testing.T) {
	c := NewCamera(math.Pi/2, 0, 100, mgl64.Vec3{}, 800, 600)
	// 相机位于 +X 方向：+X 的点最靠近相机
	_, _, d := c.Project(mgl64.Vec3{1, 0, 0})
	if math.Abs(d-1) > 1e-9 {
		t.Errorf("Expected +X to face the camera, depth=%.3f", d)
	}
}

// TestCameraPitchFromAbove 测试俯视时近处地面在屏幕下方
func TestCameraPitchFromAbove(t *testing.T) {
	c := NewCamera(0, 0.5, 100, mgl64.Vec3{}, 800, 600)
	_, yNear, _ := c.Project(mgl64.Vec3{0, 0, 1})
	_, yFar, _ := c.Project(mgl64.Vec3{0, 0, -1})
	if !(yNear > yFar) {
		t.Errorf("Expected near ground below far ground, got near=%.2f far=%.2f", yNear, yFar)
	}
}

// TestCameraUnprojectRoundTrip 测试屏幕坐标反投影到地面
func TestCameraUnprojectRoundTrip(t *testing.T) {
	c := NewCamera(0.7, 0.6, 150, mgl64.Vec3{0.5, 0.9, -0.3}, 960, 640)
	for _, p := range []mgl64.Vec3{{0, 0, 0}, {1.5, 0, -2}, {-3, 0, 1}} {
		x, y, _ := c.Project(p)
		got, ok := c.Unproject(x, y)
		if !ok {
			t.Fatalf("Unproject(%.1f, %.1f) failed", x, y)
		}
		if got.Sub(p).Len() > 1e-9 {
			t.Errorf("Unproject(Project(%v)) = %v", p, got)
		}
	}

	flat := NewCamera(0, 0, 100, mgl64.Vec3{}, 800, 600)
	if _, ok := flat.Unproject(400, 300); ok {
		t.Error("Expected no ground intersection for a horizontal camera")
	}
}

// TestCameraClamp 测试俯仰与缩放限制
func TestCameraClamp(t *testing.T) {
	c := NewCamera(0, 5, 1, mgl64.Vec3{}, 100, 100)
	if c.Pitch != MaxCameraPitch || c.Zoom != MinCameraZoom {
		t.Errorf("Expected clamped pitch/zoom, got %.2f/%.2f", c.Pitch, c.Zoom)
	}
	c.Orbit(2*math.Pi+0.1, -10)
	if math.Abs(c.Yaw-0.1) > 1e-9 || c.Pitch != MinCameraPitch {
		t.Errorf("Orbit produced yaw=%.3f pitch=%.3f", c.Yaw, c.Pitch)
	}
	if got := c.ProjectLength(-0.5); got != 0.5*MinCameraZoom {
		t.Errorf("ProjectLength(-0.5) = %.2f", got)
	}
}
