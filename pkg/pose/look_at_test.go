package pose

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/rig"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// forwardAlignment 返回节点 +Z 与指向目标方向的夹角余弦
func forwardAlignment(p *scene.Pivot, target mgl64.Vec3) float64 {
	origin := p.WorldPosition()
	fwd := p.LocalToWorld(scene.AxisZ).Sub(origin).Normalize()
	return fwd.Dot(target.Sub(origin).Normalize())
}

// TestLookAtClamped 测试极端目标下角度不超出锥体且横滚为 0
func TestLookAtClamped(t *testing.T) {
	l := config.DefaultMotionConfig().LookAt
	targets := []mgl64.Vec3{
		{0, 12, -10},  // 身后上方
		{0, -5, -0.5}, // 身后下方
		{0, 40, 0.01}, // 正上方
		{25, 1.5, 0},  // 正侧方
		{-3, 0, 2},
	}
	for _, intensity := range []float64{1, 0.5, 3} {
		k := math.Min(intensity, 1)
		for _, target := range targets {
			r := newRig(t, rig.BodyMale, false)
			ApplyWalkPose(r, 0.37, 1)
			UpdateLookAt(r, target, intensity)

			checks := []struct {
				name     string
				rot      mgl64.Vec3
				maxPitch float64
				maxYaw   float64
			}{
				{"chest", r.Chest.Rotation, l.ChestMaxPitch * k, l.ChestMaxYaw * k},
				{"head", r.Head.Rotation, l.HeadMaxPitch * k, l.HeadMaxYaw * k},
			}
			for _, c := range checks {
				if math.Abs(c.rot.X()) > c.maxPitch+eps {
					t.Errorf("target %v intensity %.1f: %s pitch %.4f exceeds %.4f", target, intensity, c.name, c.rot.X(), c.maxPitch)
				}
				if math.Abs(c.rot.Y()) > c.maxYaw+eps {
					t.Errorf("target %v intensity %.1f: %s yaw %.4f exceeds %.4f", target, intensity, c.name, c.rot.Y(), c.maxYaw)
				}
				if c.rot.Z() != 0 {
					t.Errorf("target %v: %s roll must be exactly 0, got %v", target, c.name, c.rot.Z())
				}
			}
		}
	}
}

// TestLookAtBehindSaturates 测试身后目标使偏航饱和
func TestLookAtBehindSaturates(t *testing.T) {
	l := config.DefaultMotionConfig().LookAt
	r := newRig(t, rig.BodyFemale, false)
	ApplyIdlePose(r, 0)

	// 右后方（+X 一侧）：偏航为正并饱和到上限
	UpdateLookAt(r, mgl64.Vec3{0.5, 2.5, -4}, 1)
	if got := r.Chest.Rotation.Y(); math.Abs(got-l.ChestMaxYaw) > eps {
		t.Errorf("Expected chest yaw saturated at %.3f, got %.4f", l.ChestMaxYaw, got)
	}
	if got := r.Head.Rotation.Y(); math.Abs(got-l.HeadMaxYaw) > eps {
		t.Errorf("Expected head yaw saturated at %.3f, got %.4f", l.HeadMaxYaw, got)
	}
	// 目标在上方：俯仰为负（抬头）
	if r.Head.Rotation.X() >= 0 {
		t.Errorf("Expected head to pitch up toward a raised target, got %.4f", r.Head.Rotation.X())
	}
}

// TestLookAtFacesTargetInsideCone 测试锥体内的目标被头部正对
// 头部在胸腔更新之后求解，因此即便有腰部扭转也能精确对准
func TestLookAtFacesTargetInsideCone(t *testing.T) {
	for _, mode := range []Mode{ModeIdle, ModeWalk} {
		r := newRig(t, rig.BodyMale, true)
		r.Root.Position = mgl64.Vec3{1, 0, 1}
		r.Root.Rotation = mgl64.Vec3{0, 0.3, 0}

		headY := r.Head.WorldPosition().Y()
		target := mgl64.Vec3{2.5, headY + 0.3, 4}
		Apply(r, Params{Time: 0.42, Mode: mode, Intensity: 1, LookAt: &target, LookAtIntensity: 1})

		if cos := forwardAlignment(r.Head, target); cos < 1-1e-9 {
			t.Errorf("%s: head not facing target, cos=%.12f", mode, cos)
		}
		if r.Chest.Rotation.Y() == 0 {
			t.Errorf("%s: chest should contribute to the turn", mode)
		}
	}
}

// TestLookAtZeroIntensity 测试强度为 0 时保持正前方
func TestLookAtZeroIntensity(t *testing.T) {
	r := newRig(t, rig.BodyMale, false)
	ApplyIdlePose(r, 0.2)
	UpdateLookAt(r, mgl64.Vec3{3, 0, 1}, 0)

	for _, p := range []*scene.Pivot{r.Chest, r.Head} {
		if p.Rotation.X() != 0 || p.Rotation.Y() != 0 || p.Rotation.Z() != 0 {
			t.Errorf("%s: expected zero rotation at zero intensity, got %v", p.Name, p.Rotation)
		}
	}
}

// TestLookAtIdempotent 测试重复注视结果不变
func TestLookAtIdempotent(t *testing.T) {
	r := newRig(t, rig.BodyFemale, false)
	target := mgl64.Vec3{-0.6, 1.2, 2}

	ApplyWalkPose(r, 1.1, 0.8)
	UpdateLookAt(r, target, 1)
	once := Capture(r)
	UpdateLookAt(r, target, 1)
	if !Capture(r).ApproxEqual(once, 1e-12) {
		t.Error("Repeated look-at with the same target changed the pose")
	}
}

// TestLookAtDegenerateTarget 测试目标与节点重合时保持原朝向
func TestLookAtDegenerateTarget(t *testing.T) {
	r := newRig(t, rig.BodyMale, false)
	ApplyIdlePose(r, 0)
	r.Chest.Rotation = mgl64.Vec3{0.1, -0.2, 0}

	UpdateLookAt(r, r.Chest.WorldPosition(), 1)
	if r.Chest.Rotation != (mgl64.Vec3{0.1, -0.2, 0}) {
		t.Errorf("Expected chest rotation untouched, got %v", r.Chest.Rotation)
	}
}

// TestDirection 测试解析俯仰/偏航
func TestDirection(t *testing.T) {
	p := scene.NewPivot("eye", mgl64.Vec3{0, 1, 0})

	tests := []struct {
		name       string
		target     mgl64.Vec3
		pitch, yaw float64
	}{
		{"straight ahead", mgl64.Vec3{0, 1, 5}, 0, 0},
		{"to the +X side", mgl64.Vec3{5, 1, 0}, 0, math.Pi / 2},
		{"45 degrees down", mgl64.Vec3{0, 0, 1}, math.Pi / 4, 0},
		{"behind", mgl64.Vec3{0, 1, -2}, 0, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pitch, yaw, ok := Direction(p, tt.target)
			if !ok {
				t.Fatal("Expected a valid direction")
			}
			if math.Abs(pitch-tt.pitch) > eps || math.Abs(yaw-tt.yaw) > eps {
				t.Errorf("Direction = (%.4f, %.4f), want (%.4f, %.4f)", pitch, yaw, tt.pitch, tt.yaw)
			}
		})
	}

	if _, _, ok := Direction(p, mgl64.Vec3{0, 1, 0}); ok {
		t.Error("Expected degenerate direction for coincident target")
	}
}

// TestLookAtNaNIntensity 测试 NaN 强度下保持正前方
func TestLookAtNaNIntensity(t *testing.T) {
	r := newRig(t, rig.BodyMale, false)
	ApplyIdlePose(r, 0.2)
	UpdateLookAt(r, mgl64.Vec3{3, 0, 1}, math.NaN())

	for _, p := range []*scene.Pivot{r.Chest, r.Head} {
		if p.Rotation != (mgl64.Vec3{}) {
			t.Errorf("%s: expected zero rotation for NaN intensity, got %v", p.Name, p.Rotation)
		}
	}
}
