package rig

import "github.com/go-gl/mathgl/mgl64"

// Segment 调试叠加层的一条骨骼线段（世界坐标）
type Segment struct {
	From, To PivotID
	A, B     mgl64.Vec3
}

// 骨骼折线：脊柱链 + 每侧的 肩→肘→腕、髋→膝→踝
var skeletonChains = [][]PivotID{
	{PivotPelvis, PivotWaist, PivotChest, PivotNeck, PivotHead},
	{PivotShoulderL, PivotElbowL, PivotWristL},
	{PivotShoulderR, PivotElbowR, PivotWristR},
	{PivotHipL, PivotKneeL, PivotAnkleL},
	{PivotHipR, PivotKneeR, PivotAnkleR},
}

// SkeletonChains 返回叠加层绘制的节点链（副本）
func SkeletonChains() [][]PivotID {
	out := make([][]PivotID, len(skeletonChains))
	for i, c := range skeletonChains {
		out[i] = append([]PivotID(nil), c...)
	}
	return out
}

// Skeleton 计算叠加层的骨骼线段
//
// 只通过标识符表读取节点的世界坐标，不依赖骨架的其他内部结构。
// 缺失的节点所在的线段被跳过。
func Skeleton(r *Rig) []Segment {
	cache := make(map[PivotID]mgl64.Vec3, len(r.pivots))
	world := func(id PivotID) (mgl64.Vec3, bool) {
		if p, ok := cache[id]; ok {
			return p, true
		}
		p, ok := r.WorldPosition(id)
		if ok {
			cache[id] = p
		}
		return p, ok
	}

	segments := make([]Segment, 0, 12)
	for _, chain := range skeletonChains {
		for i := 0; i+1 < len(chain); i++ {
			a, okA := world(chain[i])
			b, okB := world(chain[i+1])
			if !okA || !okB {
				continue
			}
			segments = append(segments, Segment{From: chain[i], To: chain[i+1], A: a, B: b})
		}
	}
	return segments
}
