package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape 体积的几何原语类型
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeCapsule
	ShapeBox
	ShapeCylinder
)

// String 返回原语名称
func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	}
	return "unknown"
}

// Material 体积的外观参数
// 每个体积持有自己的副本，不存在共享的可变材质
type Material struct {
	Name      string
	Color     color.RGBA
	Roughness float64
	Metalness float64
}

// Volume 挂在 Pivot 上的可渲染原语
//
// 尺寸含义随 Shape 变化：
//   - Sphere: Radius
//   - Capsule: Radius + Length（圆柱段长度，沿局部 Y 轴）
//   - Cylinder: Radius（底面）+ TopRadius + Length
//   - Box: Size（X/Y/Z 边长）
type Volume struct {
	Name      string
	Shape     Shape
	Radius    float64
	TopRadius float64
	Length    float64
	Size      mgl64.Vec3

	// Offset/Rotation/Scale 相对于所属 Pivot 的局部变换（Rotation 为 YXZ 欧拉角）
	Offset   mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3

	Material Material
}

// NewSphere 创建球体体积
func NewSphere(name string, radius float64, mat Material) *Volume {
	return &Volume{Name: name, Shape: ShapeSphere, Radius: radius, Scale: mgl64.Vec3{1, 1, 1}, Material: mat}
}

// NewCapsule 创建胶囊体积，length 为中间圆柱段长度
func NewCapsule(name string, radius, length float64, mat Material) *Volume {
	return &Volume{Name: name, Shape: ShapeCapsule, Radius: radius, Length: length, Scale: mgl64.Vec3{1, 1, 1}, Material: mat}
}

// NewBox 创建盒体积
func NewBox(name string, size mgl64.Vec3, mat Material) *Volume {
	return &Volume{Name: name, Shape: ShapeBox, Size: size, Scale: mgl64.Vec3{1, 1, 1}, Material: mat}
}

// NewCylinder 创建圆台体积
func NewCylinder(name string, topRadius, bottomRadius, length float64, mat Material) *Volume {
	return &Volume{
		Name: name, Shape: ShapeCylinder,
		Radius: bottomRadius, TopRadius: topRadius, Length: length,
		Scale: mgl64.Vec3{1, 1, 1}, Material: mat,
	}
}

// At 设置偏移并返回自身，便于链式构建
func (v *Volume) At(offset mgl64.Vec3) *Volume {
	v.Offset = offset
	return v
}

// Scaled 设置缩放并返回自身
func (v *Volume) Scaled(scale mgl64.Vec3) *Volume {
	v.Scale = scale
	return v
}

// Rotated 设置局部欧拉角并返回自身
func (v *Volume) Rotated(rot mgl64.Vec3) *Volume {
	v.Rotation = rot
	return v
}

// LocalMatrix 返回体积相对所属节点的变换矩阵
func (v *Volume) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(v.Offset.X(), v.Offset.Y(), v.Offset.Z())
	r := EulerYXZ(v.Rotation).Mat4()
	s := mgl64.Scale3D(v.Scale.X(), v.Scale.Y(), v.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// Extent 返回体积沿局部 Y 轴的两个端点（未缩放，Box 取中心线，Sphere 退化为同一点）
func (v *Volume) Extent() (top, bottom mgl64.Vec3) {
	half := 0.0
	switch v.Shape {
	case ShapeCapsule, ShapeCylinder:
		half = v.Length / 2
	case ShapeBox:
		half = v.Size.Y() / 2
	}
	return mgl64.Vec3{0, half, 0}, mgl64.Vec3{0, -half, 0}
}
