package domain

import "time"

// Project 是注册到定时轮询的项目。webhook 触发不要求注册，
// 轮询触发只扫描注册表中的项目。
type Project struct {
	Name          string    `json:"name"`
	SourceURL     string    `json:"source_url"`
	DeploymentID  string    `json:"deployment_id,omitempty"`
	ResourceGroup string    `json:"resource_group,omitempty"`
	StaticIP      string    `json:"static_ip,omitempty"`
	LastCommit    string    `json:"last_commit,omitempty"` // 上次触发时远端的 HEAD
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Params 把注册信息转为触发参数。
func (p *Project) Params() TriggerParams {
	return TriggerParams{
		SourceURL:     p.SourceURL,
		ProjectName:   p.Name,
		DeploymentID:  p.DeploymentID,
		ResourceGroup: p.ResourceGroup,
		StaticIP:      p.StaticIP,
	}
}
