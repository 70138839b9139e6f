// Package rig 构建程序化人形骨架
//
// 骨架由命名的 scene.Pivot 组成：
//
//	root → pelvis → waist → chest → neck → head
//	chest → shoulder → elbow → wrist（左右各一）
//	pelvis → hip → knee → ankle（左右各一）
//
// 拓扑对所有体型相同，体型只影响比例。构建后节点表只读。
package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/avatarlab/pkg/config"
	"github.com/gonewx/avatarlab/pkg/scene"
)

// Side 肢体所在的一侧
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Sign 返回侧向 X 坐标的符号：左侧 -1，右侧 +1
func (s Side) Sign() float64 {
	if s == SideLeft {
		return -1
	}
	return 1
}

// Suffix 返回节点名后缀 "L" / "R"
func (s Side) Suffix() string {
	if s == SideLeft {
		return "L"
	}
	return "R"
}

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Sides 按索引顺序列出两侧，Rig.Arms / Rig.Legs 用 Side 作下标
var Sides = [2]Side{SideLeft, SideRight}

// Limb 一条肢体：根关节（肩/髋）→ 中间关节（肘/膝）→ 末端（腕/踝）
//
// 各关节的 RestOrientation 已经设定好，使欧拉角 X 为正时总是解剖学上的屈曲，
// 左右两侧无需区分符号。外展类的 Z 轴旋转无法靠刚体旋转镜像，
// 因此构建时按侧别导出 Outward（±1），动画器只需乘以它。
type Limb struct {
	Side        Side
	Root        *scene.Pivot
	Mid         *scene.Pivot
	End         *scene.Pivot
	UpperLength float64
	LowerLength float64
	Outward     float64
}

// Hair 可选的头发附件
type Hair struct {
	Pivot   *scene.Pivot
	Cap     *scene.Volume
	Strands []*scene.Volume
}

// Extras 可选的装饰附件，缺失时动画器直接跳过
type Extras struct {
	// Hair 为 nil 表示预设未包含头发
	Hair *Hair
	// Breasts 仅女性体型有两个体积，挂在胸腔节点上，不影响拓扑
	Breasts []*scene.Volume
}

// Rig 一个完整的人形骨架
type Rig struct {
	Root   *scene.Pivot
	Pelvis *scene.Pivot
	Waist  *scene.Pivot
	Chest  *scene.Pivot
	Neck   *scene.Pivot
	Head   *scene.Pivot

	// Arms / Legs 以 Side 为下标
	Arms [2]Limb
	Legs [2]Limb

	Extras Extras

	preset      Preset
	proportions config.BodyProportions
	pivots      map[PivotID]*scene.Pivot
}

// Preset 返回构建该骨架的预设
func (r *Rig) Preset() Preset {
	return r.preset
}

// Proportions 返回构建时使用的体型比例
func (r *Rig) Proportions() config.BodyProportions {
	return r.proportions
}

// Arm 返回指定侧的手臂
func (r *Rig) Arm(s Side) *Limb {
	return &r.Arms[s]
}

// Leg 返回指定侧的腿
func (r *Rig) Leg(s Side) *Limb {
	return &r.Legs[s]
}

// Pivot 按标识符（或别名）查找节点
func (r *Rig) Pivot(id PivotID) (*scene.Pivot, bool) {
	p, ok := r.pivots[Canonical(id)]
	return p, ok && p != nil
}

// MustPivot 查找节点，不存在时以 *MissingPivotError panic
func (r *Rig) MustPivot(id PivotID) *scene.Pivot {
	p, ok := r.Pivot(id)
	if !ok {
		panic(&MissingPivotError{ID: Canonical(id)})
	}
	return p
}

// IDs 返回节点表中的全部标识符（已排序，不含别名）
func (r *Rig) IDs() []PivotID {
	ids := make([]PivotID, 0, len(r.pivots))
	for id := range r.pivots {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Validate 检查所有保证存在的节点
//
// 既检查类型化字段，也检查节点表，两者必须指向同一个节点。
func (r *Rig) Validate() error {
	if r == nil {
		return &MissingPivotError{ID: PivotRoot}
	}
	if r.Root == nil {
		return &MissingPivotError{ID: PivotRoot}
	}
	for _, id := range guaranteedIDs {
		field := r.coreField(id)
		if field == nil || r.pivots[id] != field {
			return &MissingPivotError{ID: id}
		}
	}
	return nil
}

// MustValidate 校验失败时 panic
// 用于动画器：缺少保证节点说明构建器与动画器的契约已失效
func (r *Rig) MustValidate() {
	if err := r.Validate(); err != nil {
		panic(err)
	}
}

// ResetPose 将所有节点恢复到静止姿态
func (r *Rig) ResetPose() {
	r.Root.Walk(func(p *scene.Pivot) bool {
		p.ResetPose()
		return true
	})
}

// ShoulderOffset 肩关节相对胸腔的侧向偏移幅值
func (r *Rig) ShoulderOffset() float64 {
	return math.Abs(r.Arms[SideLeft].Root.RestPosition.X())
}

// HipOffset 髋关节相对骨盆的侧向偏移幅值
func (r *Rig) HipOffset() float64 {
	return math.Abs(r.Legs[SideLeft].Root.RestPosition.X())
}

// WorldPosition 返回指定节点的世界坐标
func (r *Rig) WorldPosition(id PivotID) (mgl64.Vec3, bool) {
	p, ok := r.Pivot(id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return p.WorldPosition(), true
}

func (r *Rig) coreField(id PivotID) *scene.Pivot {
	switch id {
	case PivotPelvis:
		return r.Pelvis
	case PivotWaist:
		return r.Waist
	case PivotChest:
		return r.Chest
	case PivotNeck:
		return r.Neck
	case PivotHead:
		return r.Head
	case PivotShoulderL:
		return r.Arms[SideLeft].Root
	case PivotShoulderR:
		return r.Arms[SideRight].Root
	case PivotElbowL:
		return r.Arms[SideLeft].Mid
	case PivotElbowR:
		return r.Arms[SideRight].Mid
	case PivotHipL:
		return r.Legs[SideLeft].Root
	case PivotHipR:
		return r.Legs[SideRight].Root
	case PivotKneeL:
		return r.Legs[SideLeft].Mid
	case PivotKneeR:
		return r.Legs[SideRight].Mid
	}
	return nil
}
