package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/rig"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// UpdateLookAt 让胸腔和头部朝向世界坐标中的目标点
//
// 每个节点先把目标变换到自身父空间（并去掉静止朝向），
// 再解析地求出俯仰/偏航，各自限制在 角度锥 × intensity 之内，横滚恒为 0。
// 胸腔先更新，头部随后在更新过的胸腔坐标系下求解。
// intensity 被限制在 [0, 1]；目标与节点重合时保持原旋转不变。
func (a *Animator) UpdateLookAt(r *rig.Rig, target mgl64.Vec3, intensity float64) {
	r.MustValidate()
	k := clamp(intensity, 0, 1)
	l := a.cfg.LookAt

	aim(r.Chest, target, l.ChestMaxPitch*k, l.ChestMaxYaw*k)
	aim(r.Head, target, l.HeadMaxPitch*k, l.HeadMaxYaw*k)
}

// aim 写入受限的 (pitch, yaw, 0)
func aim(p *scene.Pivot, target mgl64.Vec3, maxPitch, maxYaw float64) {
	pitch, yaw, ok := Direction(p, target)
	if !ok {
		return
	}
	p.Rotation = mgl64.Vec3{
		clamp(pitch, -maxPitch, maxPitch),
		clamp(yaw, -maxYaw, maxYaw),
		0,
	}
}

// Direction 返回使节点 +Z 指向目标所需的未限制俯仰/偏航
//
// 俯仰为正表示低头（绕侧向轴向前），与欧拉角 YXZ 顺序对应：
// Ry(yaw)·Rx(pitch) 把 +Z 转到 (sin y·cos p, -sin p, cos y·cos p)。
func Direction(p *scene.Pivot, target mgl64.Vec3) (pitch, yaw float64, ok bool) {
	d := p.WorldToParent(target).Sub(p.Position)
	d = p.RestOrientation.Inverse().Rotate(d)
	if d.Len() < minLookLen {
		return 0, 0, false
	}
	yaw = math.Atan2(d.X(), d.Z())
	pitch = math.Atan2(-d.Y(), math.Hypot(d.X(), d.Z()))
	return pitch, yaw, true
}
