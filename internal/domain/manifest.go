package domain

// ManifestSpec 是集群清单生成的全部输入，由 DeployContext 派生。
// 四个资源（Namespace、Deployment、Service、Ingress）都只依赖这里的字段。
type ManifestSpec struct {
	Namespace   string
	ProjectName string
	Image       string // 完整镜像引用，含 tag
	Port        int    // 容器端口，Service 从 80 转发到这里
	Host        string // Ingress 外部域名
}

// ManifestSpec 在检测阶段完成后调用，Port/ProjectType 此时已赋值。
func (c *DeployContext) ManifestSpec(registry string) ManifestSpec {
	return ManifestSpec{
		Namespace:   c.Namespace,
		ProjectName: c.ProjectName,
		Image:       c.ImageRef(registry),
		Port:        c.Port,
		Host:        c.IngressHost(),
	}
}
