package systems

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/ecs"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// countVolumes 统计骨架上的体积数量
func countVolumes(root *scene.Pivot) int {
	n := 0
	root.Walk(func(p *scene.Pivot) bool {
		n += len(p.Volumes)
		return true
	})
	return n
}

// TestAvatarRenderSystemCollect 测试投影图元数量与画家算法排序
func TestAvatarRenderSystemCollect(t *testing.T) {
	em := ecs.NewEntityManager()
	a := newTestAvatar(t, em, "a", 0, 0, 0)
	b := newTestAvatar(t, em, "b", 1, -1, 1.2)
	NewPoseSystem(em, nil).Update(0.2)

	rs := NewAvatarRenderSystem(em, newTestCamera())
	prims := rs.Collect()

	want := countVolumes(avatarOf(em, a).Rig.Root) + countVolumes(avatarOf(em, b).Rig.Root)
	if len(prims) != want {
		t.Fatalf("Expected %d primitives, got %d", want, len(prims))
	}
	for i := 1; i < len(prims); i++ {
		if prims[i].Depth < prims[i-1].Depth {
			t.Fatalf("Primitives not sorted far-to-near at %d: %.4f < %.4f", i, prims[i].Depth, prims[i-1].Depth)
		}
	}
	for _, p := range prims {
		if p.Width <= 0 {
			t.Errorf("%s: expected positive width, got %.3f", p.Volume, p.Width)
		}
		if p.Color.A == 0 {
			t.Errorf("%s: expected an opaque material colour", p.Volume)
		}
	}
}

// TestAvatarRenderSystemHiddenVolumes 测试关闭体积显示时不产生图元
func TestAvatarRenderSystemHiddenVolumes(t *testing.T) {
	em := ecs.NewEntityManager()
	newTestAvatar(t, em, "a", 0, 0, 0)

	rs := NewAvatarRenderSystem(em, newTestCamera())
	rs.ShowVolumes = false
	if prims := rs.Collect(); len(prims) != 0 {
		t.Errorf("Expected no primitives, got %d", len(prims))
	}
}

// TestAvatarRenderSystemSphereProjection 测试球体投影为以中心为圆心的圆盘
func TestAvatarRenderSystemSphereProjection(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestAvatar(t, em, "a", 0, 0, 0)
	cam := newTestCamera()
	rs := NewAvatarRenderSystem(em, cam)

	r := avatarOf(em, id).Rig
	var skull *scene.Volume
	for _, v := range r.Head.Volumes {
		if v.Shape == scene.ShapeSphere {
			skull = v
			break
		}
	}
	if skull == nil {
		t.Fatal("Expected a sphere on the head")
	}

	for _, p := range rs.Collect() {
		if p.Volume != skull.Name {
			continue
		}
		if p.Kind != PrimitiveDisc {
			t.Errorf("Expected disc for sphere, got %v", p.Kind)
		}
		center := scene.TransformPoint(r.Head.WorldMatrix().Mul4(skull.LocalMatrix()), mgl64.Vec3{})
		x, y, _ := cam.Project(center)
		if abs(p.X0-x) > 1e-6 || abs(p.Y0-y) > 1e-6 {
			t.Errorf("Expected disc at (%.2f, %.2f), got (%.2f, %.2f)", x, y, p.X0, p.Y0)
		}
		return
	}
	t.Errorf("Primitive for %s not found", skull.Name)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// TestPremultiply 测试淡出颜色的预乘
func TestPremultiply(t *testing.T) {
	tests := []struct {
		in, want color.RGBA
	}{
		{color.RGBA{200, 100, 50, 255}, color.RGBA{200, 100, 50, 255}},
		{color.RGBA{200, 100, 50, 0}, color.RGBA{0, 0, 0, 0}},
		{color.RGBA{255, 255, 255, 51}, color.RGBA{51, 51, 51, 51}},
	}
	for _, tt := range tests {
		if got := premultiply(tt.in); got != tt.want {
			t.Errorf("premultiply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
