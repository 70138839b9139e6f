package rig

import "fmt"

// InvalidPresetError 预设字段超出文档定义的取值范围
// 构建时总是返回给调用方，不会静默回退到默认值
type InvalidPresetError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidPresetError) Error() string {
	return fmt.Sprintf("invalid preset field %s=%q: %s", e.Field, e.Value, e.Reason)
}

// MissingPivotError 骨架缺少保证存在的节点
//
// 这是程序错误（构建器与动画器的契约被破坏），动画器遇到时直接 panic。
type MissingPivotError struct {
	ID PivotID
}

func (e *MissingPivotError) Error() string {
	return fmt.Sprintf("rig is missing guaranteed pivot %q", string(e.ID))
}
