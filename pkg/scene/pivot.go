// Package scene 提供化身骨架使用的最小变换层级（场景图）
//
// 每个 Pivot 只保存局部变换，世界变换总是从根节点逐级合成，
// 不做缓存，因此姿态写入后立即可见。
package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 坐标轴约定：+Y 向上，+Z 为化身正前方，X 为侧向轴
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Pivot 变换层级中的命名节点（关节或体积挂点）
type Pivot struct {
	// Name 稳定的节点名称（如 "kneeL"）
	Name string

	// Position 局部平移
	Position mgl64.Vec3
	// Rotation 局部欧拉角（弧度）
	// X = 绕侧向轴的俯仰，Y = 偏航，Z = 横滚，按 YXZ 顺序合成
	Rotation mgl64.Vec3
	// Scale 局部缩放
	Scale mgl64.Vec3

	// RestPosition 构建时的静止平移，ResetPose 会恢复到此值
	RestPosition mgl64.Vec3
	// RestOrientation 绑定姿态朝向，构建后不再修改
	// 局部旋转 = RestOrientation × Euler(Rotation)
	RestOrientation mgl64.Quat

	// Volumes 挂在此节点上的可渲染体积
	Volumes []*Volume

	parent   *Pivot
	children []*Pivot
}

// NewPivot 创建一个位于 pos 的节点，静止朝向为单位四元数
func NewPivot(name string, pos mgl64.Vec3) *Pivot {
	return &Pivot{
		Name:            name,
		Position:        pos,
		Scale:           mgl64.Vec3{1, 1, 1},
		RestPosition:    pos,
		RestOrientation: mgl64.QuatIdent(),
	}
}

// Add 将 child 挂到 p 下
//
// 层级在构建后固定：已有父节点的 child、自身或会形成环的 child 都会被拒绝。
func (p *Pivot) Add(child *Pivot) error {
	if child == nil {
		return fmt.Errorf("pivot %q: cannot add nil child", p.Name)
	}
	if child.parent != nil {
		return fmt.Errorf("pivot %q already has parent %q", child.Name, child.parent.Name)
	}
	for n := p; n != nil; n = n.parent {
		if n == child {
			return fmt.Errorf("adding %q under %q would create a cycle", child.Name, p.Name)
		}
	}
	child.parent = p
	p.children = append(p.children, child)
	return nil
}

// Attach 在节点上挂一个体积
func (p *Pivot) Attach(volumes ...*Volume) {
	p.Volumes = append(p.Volumes, volumes...)
}

// Parent 返回父节点，根节点返回 nil
func (p *Pivot) Parent() *Pivot {
	return p.parent
}

// Children 返回子节点列表（只读）
func (p *Pivot) Children() []*Pivot {
	return p.children
}

// ResetPose 恢复静止平移并清零欧拉角
func (p *Pivot) ResetPose() {
	p.Position = p.RestPosition
	p.Rotation = mgl64.Vec3{}
}

// LocalQuat 返回局部旋转四元数
func (p *Pivot) LocalQuat() mgl64.Quat {
	return p.RestOrientation.Mul(EulerYXZ(p.Rotation))
}

// LocalMatrix 返回局部变换矩阵 T·R·S
func (p *Pivot) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z())
	r := p.LocalQuat().Mat4()
	s := mgl64.Scale3D(p.Scale.X(), p.Scale.Y(), p.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// ParentWorldMatrix 返回父节点的世界矩阵，根节点返回单位矩阵
func (p *Pivot) ParentWorldMatrix() mgl64.Mat4 {
	if p.parent == nil {
		return mgl64.Ident4()
	}
	return p.parent.WorldMatrix()
}

// WorldMatrix 从根节点逐级合成世界矩阵
func (p *Pivot) WorldMatrix() mgl64.Mat4 {
	m := p.LocalMatrix()
	for n := p.parent; n != nil; n = n.parent {
		m = n.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition 返回节点原点的世界坐标
func (p *Pivot) WorldPosition() mgl64.Vec3 {
	return TransformPoint(p.WorldMatrix(), mgl64.Vec3{})
}

// WorldToParent 将世界坐标点变换到父节点空间（即本节点局部变换所在的空间）
func (p *Pivot) WorldToParent(point mgl64.Vec3) mgl64.Vec3 {
	return TransformPoint(p.ParentWorldMatrix().Inv(), point)
}

// LocalToWorld 将节点局部坐标点变换到世界空间
func (p *Pivot) LocalToWorld(point mgl64.Vec3) mgl64.Vec3 {
	return TransformPoint(p.WorldMatrix(), point)
}

// Walk 深度优先遍历子树，fn 返回 false 时不再进入该节点的子节点
func (p *Pivot) Walk(fn func(*Pivot) bool) {
	if !fn(p) {
		return
	}
	for _, c := range p.children {
		c.Walk(fn)
	}
}

// Path 返回从根到此节点的名称路径（如 "root/pelvis/hipL"）
func (p *Pivot) Path() string {
	if p.parent == nil {
		return p.Name
	}
	return p.parent.Path() + "/" + p.Name
}

// EulerYXZ 将欧拉角按 Y→X→Z 顺序合成为四元数
func EulerYXZ(e mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(e.Y(), AxisY).
		Mul(mgl64.QuatRotate(e.X(), AxisX)).
		Mul(mgl64.QuatRotate(e.Z(), AxisZ))
}

// TransformPoint 用 4x4 矩阵变换一个点
func TransformPoint(m mgl64.Mat4, point mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(point.Vec4(1)).Vec3()
}

// NearlyEqual 逐分量按绝对误差比较两个向量
// mgl64 的 ApproxEqualThreshold 是相对比较，一侧为 0 时会把浮点噪声判为不等
func NearlyEqual(a, b mgl64.Vec3, threshold float64) bool {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) || math.Abs(a[i]-b[i]) > threshold {
			return false
		}
	}
	return true
}
