package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DeployContext 是一次流水线执行的参数快照，参数解析时创建一次，
// 检测阶段填入 ProjectType/Port 之后不再变更。所有下游产物
// （Dockerfile、集群清单）都是它的纯函数。
type DeployContext struct {
	SourceURL     string
	ProjectName   string
	DeploymentID  string // 可选，跟踪系统的部署关联 ID
	Namespace     string
	ImageTag      string // 本次构建的顺序号
	ResourceGroup string
	StaticIP      string

	// 检测阶段赋值，之后只读。
	ProjectType ProjectType
	Port        int
}

// TriggerParams 是 webhook / 轮询触发携带的原始参数。
type TriggerParams struct {
	SourceURL     string `json:"source_url"`
	ProjectName   string `json:"project_name"`
	DeploymentID  string `json:"deployment_id,omitempty"`
	ResourceGroup string `json:"resource_group,omitempty"`
	StaticIP      string `json:"static_ip,omitempty"`
}

// ResolveContext 把触发参数解析为 DeployContext。
// 缺失的 project_name 从 source_url 的最后一段推导；两者都无法
// 解析时返回 ErrParameter，此时还未发起任何外部调用。
func ResolveContext(p TriggerParams, buildNumber int64, defaultStaticIP string) (*DeployContext, error) {
	if p.SourceURL == "" {
		return nil, fmt.Errorf("%w: source_url is required", ErrParameter)
	}
	name := p.ProjectName
	if name == "" {
		name = ProjectNameFromURL(p.SourceURL)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: project_name missing and not derivable from %q", ErrParameter, p.SourceURL)
	}
	if err := ValidateSourceURL(p.SourceURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameter, err)
	}
	if err := ValidateK8sName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameter, err)
	}

	staticIP := p.StaticIP
	if staticIP == "" {
		staticIP = defaultStaticIP
	}

	return &DeployContext{
		SourceURL:     p.SourceURL,
		ProjectName:   name,
		DeploymentID:  p.DeploymentID,
		Namespace:     name + "-dev",
		ImageTag:      strconv.FormatInt(buildNumber, 10),
		ResourceGroup: p.ResourceGroup,
		StaticIP:      staticIP,
	}, nil
}

// ProjectNameFromURL 取仓库地址最后一段作为项目名，去掉 .git 后缀。
func ProjectNameFromURL(sourceURL string) string {
	trimmed := strings.TrimRight(sourceURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	name := strings.TrimSuffix(trimmed[idx+1:], ".git")
	return strings.ToLower(name)
}

// ImageRef 拼出本次构建的完整镜像引用：registry/project:tag。
func (c *DeployContext) ImageRef(registry string) string {
	return fmt.Sprintf("%s/%s:%s", registry, c.ProjectName, c.ImageTag)
}

// LatestRef 拼出浮动 latest 标签的镜像引用。
func (c *DeployContext) LatestRef(registry string) string {
	return fmt.Sprintf("%s/%s:latest", registry, c.ProjectName)
}

// IngressHost 返回确定性的外部访问域名：{project}.{ip}.nip.io。
func (c *DeployContext) IngressHost() string {
	return fmt.Sprintf("%s.%s.nip.io", c.ProjectName, c.StaticIP)
}
