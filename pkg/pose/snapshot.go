package pose

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/rig"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// Channel 单个节点的可动画通道
type Channel struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Snapshot 骨架所有节点的通道快照
type Snapshot map[rig.PivotID]Channel

// Capture 记录骨架当前的局部通道
func Capture(r *rig.Rig) Snapshot {
	s := make(Snapshot)
	for _, id := range r.IDs() {
		p := r.MustPivot(id)
		s[id] = Channel{Position: p.Position, Rotation: p.Rotation}
	}
	return s
}

// ApproxEqual 逐节点比较两个快照，每个分量的绝对误差不超过 threshold
func (s Snapshot) ApproxEqual(o Snapshot, threshold float64) bool {
	if len(s) != len(o) {
		return false
	}
	for id, c := range s {
		oc, ok := o[id]
		if !ok {
			return false
		}
		if !scene.NearlyEqual(c.Position, oc.Position, threshold) ||
			!scene.NearlyEqual(c.Rotation, oc.Rotation, threshold) {
			return false
		}
	}
	return true
}
