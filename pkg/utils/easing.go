package utils

import "math"

// 缓动与阻尼函数
//
// Ease* 接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]，用于相机过渡。
// Damp* 是与帧率无关的指数阻尼，用于速度与朝向的平滑。

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Damp 指数阻尼：current 以速率 lambda 逼近 target
//
// 结果只取决于累计时间，与 dt 的切分方式无关：
// Damp(Damp(a, b, λ, t1), b, λ, t2) == Damp(a, b, λ, t1+t2)
func Damp(current, target, lambda, dt float64) float64 {
	return Lerp(current, target, 1-math.Exp(-lambda*dt))
}

// WrapAngle 将角度规范到 (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// DampAngle 沿最短弧对角度做指数阻尼，结果已规范到 (-π, π]
func DampAngle(current, target, lambda, dt float64) float64 {
	delta := WrapAngle(target - current)
	return WrapAngle(current + delta*(1-math.Exp(-lambda*dt)))
}
