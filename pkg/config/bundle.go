package config

import "fmt"

// 数据文件的规范路径（相对项目根目录）
const (
	RigConfigPath    = "data/avatar/proportions.yaml"
	MotionConfigPath = "data/avatar/motion.yaml"
	LabConfigPath    = "data/lab.yaml"
)

// Bundle 实验室启动所需的全部配置
type Bundle struct {
	Rig    *RigConfig
	Motion *MotionConfig
	Lab    *LabConfig
}

// ReadFunc 按路径读取文件内容（embedded.ReadFile 或 os.ReadFile）
type ReadFunc func(path string) ([]byte, error)

// LoadBundle 读取并校验三个配置文件
// 任何一个文件缺失或非法都会返回带文件路径的错误
func LoadBundle(read ReadFunc) (*Bundle, error) {
	if read == nil {
		return nil, fmt.Errorf("read function cannot be nil")
	}

	data, err := read(RigConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RigConfigPath, err)
	}
	rig, err := ParseRigConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RigConfigPath, err)
	}

	data, err = read(MotionConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", MotionConfigPath, err)
	}
	motion, err := ParseMotionConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MotionConfigPath, err)
	}

	data, err = read(LabConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", LabConfigPath, err)
	}
	lab, err := ParseLabConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LabConfigPath, err)
	}

	return &Bundle{Rig: rig, Motion: motion, Lab: lab}, nil
}
