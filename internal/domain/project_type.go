package domain

// ProjectType 是项目类型枚举，决定默认端口和 Dockerfile 模板。
type ProjectType string

const (
	ProjectTypeNode   ProjectType = "node"
	ProjectTypeJVM    ProjectType = "jvm"
	ProjectTypePython ProjectType = "python"
	ProjectTypeStatic ProjectType = "static"
)

// DefaultPort 返回该项目类型的默认容器端口。
func (t ProjectType) DefaultPort() int {
	switch t {
	case ProjectTypeNode:
		return 3000
	case ProjectTypeJVM:
		return 8080
	case ProjectTypePython:
		return 8000
	default:
		return 80
	}
}
