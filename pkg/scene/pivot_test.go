package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func vecNear(a, b mgl64.Vec3) bool {
	return NearlyEqual(a, b, eps)
}

func TestAddRejectsReparenting(t *testing.T) {
	a := NewPivot("a", mgl64.Vec3{})
	b := NewPivot("b", mgl64.Vec3{})
	c := NewPivot("c", mgl64.Vec3{})

	if err := a.Add(c); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := b.Add(c); err == nil {
		t.Error("re-parenting should be rejected")
	}
	if c.Parent() != a {
		t.Errorf("parent changed after rejected Add: got %v", c.Parent().Name)
	}
}

func TestAddRejectsCycles(t *testing.T) {
	a := NewPivot("a", mgl64.Vec3{})
	b := NewPivot("b", mgl64.Vec3{})
	if err := a.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(a); err == nil {
		// a 没有父节点，但 b 是 a 的子节点，挂上去会成环
		t.Error("cycle should be rejected")
	}
	if err := a.Add(a); err == nil {
		t.Error("self-parenting should be rejected")
	}
	if err := a.Add(nil); err == nil {
		t.Error("nil child should be rejected")
	}
}

func TestWorldPositionComposesFromRoot(t *testing.T) {
	root := NewPivot("root", mgl64.Vec3{1, 0, 0})
	mid := NewPivot("mid", mgl64.Vec3{0, 2, 0})
	leaf := NewPivot("leaf", mgl64.Vec3{0, -1, 0})
	_ = root.Add(mid)
	_ = mid.Add(leaf)

	if got := leaf.WorldPosition(); !vecNear(got, mgl64.Vec3{1, 1, 0}) {
		t.Errorf("leaf world position: got %v, want (1,1,0)", got)
	}

	// 旋转中间节点后叶子节点应随之移动，无需手动刷新
	mid.Rotation = mgl64.Vec3{math.Pi / 2, 0, 0}
	if got := leaf.WorldPosition(); !vecNear(got, mgl64.Vec3{1, 2, -1}) {
		t.Errorf("leaf after rotating mid: got %v, want (1,2,-1)", got)
	}

	if got := leaf.Path(); got != "root/mid/leaf" {
		t.Errorf("Path: got %q", got)
	}
}

func TestRestOrientationPrecedesEuler(t *testing.T) {
	p := NewPivot("p", mgl64.Vec3{})
	child := NewPivot("c", mgl64.Vec3{0, -1, 0})
	_ = p.Add(child)

	p.Rotation = mgl64.Vec3{0.5, 0, 0}
	plain := child.WorldPosition()

	p.RestOrientation = mgl64.QuatRotate(math.Pi, AxisY)
	flipped := child.WorldPosition()

	if math.Abs(plain.Z()+flipped.Z()) > eps || plain.Z() >= 0 {
		t.Errorf("rest yaw of pi should mirror Z: plain=%v flipped=%v", plain, flipped)
	}
}

func TestWorldToParentInvertsParentTransform(t *testing.T) {
	root := NewPivot("root", mgl64.Vec3{0, 1, 0})
	root.Rotation = mgl64.Vec3{0, math.Pi / 2, 0}
	child := NewPivot("child", mgl64.Vec3{0, 0.5, 0})
	_ = root.Add(child)

	world := mgl64.Vec3{3, 1, 0}
	local := child.WorldToParent(world)
	back := TransformPoint(child.ParentWorldMatrix(), local)
	if !vecNear(back, world) {
		t.Errorf("round trip: got %v, want %v", back, world)
	}
	if !vecNear(local, mgl64.Vec3{0, 0, 3}) {
		t.Errorf("world +X under yaw pi/2 should map to local +Z: got %v", local)
	}
}

func TestEulerYXZForwardDirection(t *testing.T) {
	tests := []struct {
		name  string
		euler mgl64.Vec3
		want  mgl64.Vec3
	}{
		{"identity", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}},
		{"positive pitch looks down", mgl64.Vec3{math.Pi / 2, 0, 0}, mgl64.Vec3{0, -1, 0}},
		{"positive yaw turns to +X", mgl64.Vec3{0, math.Pi / 2, 0}, mgl64.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EulerYXZ(tt.euler).Rotate(AxisZ)
			if !vecNear(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResetPoseAndWalk(t *testing.T) {
	root := NewPivot("root", mgl64.Vec3{0, 1, 0})
	child := NewPivot("child", mgl64.Vec3{})
	_ = root.Add(child)
	root.Position = mgl64.Vec3{5, 5, 5}
	root.Rotation = mgl64.Vec3{1, 2, 3}

	root.ResetPose()
	if root.Position != root.RestPosition || root.Rotation != (mgl64.Vec3{}) {
		t.Errorf("ResetPose did not restore rest values: %v %v", root.Position, root.Rotation)
	}

	var names []string
	root.Walk(func(p *Pivot) bool {
		names = append(names, p.Name)
		return true
	})
	if len(names) != 2 || names[0] != "root" || names[1] != "child" {
		t.Errorf("Walk order: got %v", names)
	}
}

// TestNearlyEqual 测试按分量的绝对误差比较
func TestNearlyEqual(t *testing.T) {
	tests := []struct {
		a, b mgl64.Vec3
		want bool
	}{
		{mgl64.Vec3{0, -1, 2.22e-16}, mgl64.Vec3{0, -1, 0}, true},
		{mgl64.Vec3{6.66e-16, 0, 3}, mgl64.Vec3{0, 0, 3}, true},
		{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 1e-6, 0}, false},
		{mgl64.Vec3{math.NaN(), 0, 0}, mgl64.Vec3{math.NaN(), 0, 0}, false},
	}
	for _, tt := range tests {
		if got := NearlyEqual(tt.a, tt.b, eps); got != tt.want {
			t.Errorf("NearlyEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	// 四元数旋转带来的噪声不影响比较
	if got := EulerYXZ(mgl64.Vec3{0, math.Pi / 2, 0}).Rotate(AxisZ); !NearlyEqual(got, AxisX, eps) {
		t.Errorf("Expected +Z yawed by pi/2 to be +X, got %v", got)
	}
}
