package domain

import "time"

// BranchCandidates 是检出时按序尝试的分支列表，首个成功者生效。
var BranchCandidates = []string{"main", "master", "develop"}

// PipelineRun 是一次流水线执行的本地记录。权威的阶段历史由外部
// 跟踪系统持有，本记录仅供运维排查与 API 查询。
type PipelineRun struct {
	ID           string      `json:"id"`
	Number       int64       `json:"number"` // 顺序构建号，同时用作镜像 tag
	ProjectName  string      `json:"project_name"`
	SourceURL    string      `json:"source_url"`
	DeploymentID string      `json:"deployment_id,omitempty"`
	Branch       string      `json:"branch,omitempty"`
	Commit       string      `json:"commit,omitempty"`
	Author       string      `json:"author,omitempty"`
	ProjectType  ProjectType `json:"project_type,omitempty"`
	Port         int         `json:"port,omitempty"`
	Image        string      `json:"image,omitempty"`
	Status       RunStatus   `json:"status"`
	Stage        string      `json:"stage,omitempty"` // 最后进入的阶段
	ExternalURL  string      `json:"external_url,omitempty"`
	Manifest     string      `json:"manifest,omitempty"`
	Diagnostics  string      `json:"diagnostics,omitempty"`
	Error        string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (r *PipelineRun) IsTerminal() bool {
	return r.Status == RunStatusSucceeded || r.Status == RunStatusFailed
}
