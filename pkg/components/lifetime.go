package components

// LifetimeComponent 限时实体的生命周期
// 用于自动清理存在时间超过上限的实体（如点击行走的地面标记）
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
	IsExpired       bool    // 是否已过期
}

// Fraction 已经过的比例（0~1）
func (l *LifetimeComponent) Fraction() float64 {
	if l.MaxLifetime <= 0 {
		return 1
	}
	f := l.CurrentLifetime / l.MaxLifetime
	if f > 1 {
		return 1
	}
	return f
}
