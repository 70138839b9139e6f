// Package pose 驱动骨架的程序化姿态：待机呼吸、步行循环与注视跟踪
//
// Animator 自身除常量表外没有状态，每次调用只依赖 (rig, t, mode, intensity)，
// 同样的输入总是写出同样的节点状态。
package pose

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/rig"
)

// Mode 运动模式，由宿主根据测得的速度选择
type Mode int

const (
	ModeIdle Mode = iota
	ModeWalk
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeWalk:
		return "walk"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode 解析 "idle" / "walk"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "idle":
		return ModeIdle, nil
	case "walk":
		return ModeWalk, nil
	}
	return ModeIdle, fmt.Errorf("unknown pose mode %q", s)
}

// Params 单帧的姿态输入
type Params struct {
	Time      float64
	Mode      Mode
	Intensity float64

	// LookAt 非 nil 时在运动姿态之后执行注视跟踪
	LookAt          *mgl64.Vec3
	LookAtIntensity float64
}

// 两侧步态的相位偏移，以 Side 为下标
// 左右只靠相位区分，屈曲方向由骨架的静止朝向保证
var (
	hipPhase  = [2]float64{0, math.Pi}
	kneePhase = [2]float64{math.Pi / 2, -math.Pi / 2}
	armPhase  = [2]float64{math.Pi, 0}
)

const (
	twoPi = 2 * math.Pi
	// minLookLen 目标与节点距离低于此值时不更新朝向
	minLookLen = 1e-6
)

// Animator 姿态动画器
type Animator struct {
	cfg config.MotionConfig
}

// NewAnimator 使用给定常量表创建动画器
func NewAnimator(cfg *config.MotionConfig) (*Animator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("motion config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid motion config: %w", err)
	}
	return &Animator{cfg: *cfg}, nil
}

// DefaultAnimator 使用内置常量表创建动画器
func DefaultAnimator() *Animator {
	a, err := NewAnimator(config.DefaultMotionConfig())
	if err != nil {
		panic(fmt.Sprintf("default motion config is invalid: %v", err))
	}
	return a
}

var defaultAnimator = DefaultAnimator()

// Config 返回动画器使用的常量表（副本）
func (a *Animator) Config() config.MotionConfig {
	return a.cfg
}

// ClampIntensity 将步行强度限制在 [0, MaxIntensity]
func (a *Animator) ClampIntensity(intensity float64) float64 {
	return clamp(intensity, 0, a.cfg.Walk.MaxIntensity)
}

// ApplyIdlePose 写入待机呼吸姿态
//
// 胸腔和头部随 sin(t × 呼吸频率) 上下起伏，双臂以同一相位对称外展，
// 肘部与膝部保持固定的微屈。缺少保证节点时 panic。
func (a *Animator) ApplyIdlePose(r *rig.Rig, t float64) {
	r.MustValidate()
	c := a.cfg.Idle
	s := math.Sin(t * c.BreatheFrequency)

	resetTrunk(r)
	r.Chest.Position = r.Chest.RestPosition.Add(mgl64.Vec3{0, s * c.ChestBob, 0})
	r.Head.Position = r.Head.RestPosition.Add(mgl64.Vec3{0, s * c.HeadBob, 0})

	for _, side := range rig.Sides {
		arm := r.Arm(side)
		arm.Root.Rotation = mgl64.Vec3{0, 0, arm.Outward * (c.ArmAbduction + s*c.ArmBreathe)}
		arm.Mid.Rotation = mgl64.Vec3{c.ElbowFlex + s*c.ElbowBreathe, 0, 0}

		leg := r.Leg(side)
		leg.Root.Rotation = mgl64.Vec3{}
		leg.Mid.Rotation = mgl64.Vec3{c.KneeFlex, 0, 0}
	}

	if hair := r.Extras.Hair; hair != nil {
		hair.Pivot.Rotation = mgl64.Vec3{s * c.HairSway, 0, 0}
	}
}

// ApplyWalkPose 写入步行循环姿态
//
// 相位 w = t × 2π × 步频。髋部按 sin(w) / sin(w+π) 反相摆动，
// 膝部 max(0, sin(w±π/2)) 只会屈曲，肘部有基线屈曲并在前摆时加大。
// 根节点起伏 |cos 2w| × 幅度，永远不低于静止高度。
// intensity 会被限制在 [0, MaxIntensity]。
func (a *Animator) ApplyWalkPose(r *rig.Rig, t, intensity float64) {
	r.MustValidate()
	c := a.cfg.Walk
	k := a.ClampIntensity(intensity)
	w := t * twoPi * c.Cadence

	resetTrunk(r)
	r.Root.Position[1] = r.Root.RestPosition.Y() + math.Abs(math.Cos(2*w))*c.BobAmplitude*k
	r.Waist.Rotation = mgl64.Vec3{0, math.Sin(w) * c.TorsoTwist * k, 0}

	for _, side := range rig.Sides {
		leg := r.Leg(side)
		leg.Root.Rotation = mgl64.Vec3{math.Sin(w+hipPhase[side]) * c.HipSwing * k, 0, 0}
		leg.Mid.Rotation = mgl64.Vec3{math.Max(0, math.Sin(w+kneePhase[side])) * c.KneeRange * k, 0, 0}

		arm := r.Arm(side)
		swing := math.Sin(w + armPhase[side])
		arm.Root.Rotation = mgl64.Vec3{swing * c.ArmSwing * k, 0, arm.Outward * c.ArmAbduction}
		arm.Mid.Rotation = mgl64.Vec3{c.ElbowBase + math.Max(0, swing)*c.ElbowRange*k, 0, 0}
	}

	if hair := r.Extras.Hair; hair != nil {
		hair.Pivot.Rotation = mgl64.Vec3{}
	}
}

// resetTrunk 恢复两种运动姿态共有的躯干通道
// 每种姿态都写完整的通道集合，切换模式不会残留上一模式的值
func resetTrunk(r *rig.Rig) {
	r.Root.Position[1] = r.Root.RestPosition.Y()
	r.Pelvis.Position = r.Pelvis.RestPosition
	r.Pelvis.Rotation = mgl64.Vec3{}
	r.Waist.Rotation = mgl64.Vec3{}
	r.Chest.Position = r.Chest.RestPosition
	r.Chest.Rotation = mgl64.Vec3{}
	r.Neck.Rotation = mgl64.Vec3{}
	r.Head.Position = r.Head.RestPosition
	r.Head.Rotation = mgl64.Vec3{}
}

// Apply 按模式执行运动姿态，随后（若给定目标）执行注视跟踪
//
// 模式之间是硬切换，没有过渡混合。
func (a *Animator) Apply(r *rig.Rig, p Params) {
	switch p.Mode {
	case ModeIdle:
		a.ApplyIdlePose(r, p.Time)
	case ModeWalk:
		a.ApplyWalkPose(r, p.Time, p.Intensity)
	default:
		panic(fmt.Sprintf("pose: unknown mode %v", p.Mode))
	}
	if p.LookAt != nil {
		a.UpdateLookAt(r, *p.LookAt, p.LookAtIntensity)
	}
}

// ApplyIdlePose 使用内置常量表写入待机姿态
func ApplyIdlePose(r *rig.Rig, t float64) {
	defaultAnimator.ApplyIdlePose(r, t)
}

// ApplyWalkPose 使用内置常量表写入步行姿态
func ApplyWalkPose(r *rig.Rig, t, intensity float64) {
	defaultAnimator.ApplyWalkPose(r, t, intensity)
}

// UpdateLookAt 使用内置角度锥执行注视跟踪
func UpdateLookAt(r *rig.Rig, target mgl64.Vec3, intensity float64) {
	defaultAnimator.UpdateLookAt(r, target, intensity)
}

// Apply 使用内置常量表执行一帧姿态
func Apply(r *rig.Rig, p Params) {
	defaultAnimator.Apply(r, p)
}

// NaN 视为 lo
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
